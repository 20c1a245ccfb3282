package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/metrics"
)

// Server is the HTTP front end over an engine and its catalog
type Server struct {
	addr    string
	handler *HabitHandler
	limiter *rateLimiter
}

func NewServer(addr string, catalog engine.Catalog, eng *engine.Engine) *Server {
	return &Server{
		addr:    addr,
		handler: NewHabitHandler(catalog, eng),
		limiter: newRateLimiter(constants.RateLimitPerSecond, constants.RateLimitBurst, constants.VisitorTTL),
	}
}

// Router builds the route table with rate limiting, metrics and CORS applied.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.limiter.Middleware)
	r.Use(monitor)

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/health", s.handler.Health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/habits", s.handler.ListHabits).Methods("GET")
	api.HandleFunc("/habits/{id}", s.handler.GetHabit).Methods("GET")
	api.HandleFunc("/habits/{id}/toggle", s.handler.Toggle).Methods("POST")
	api.HandleFunc("/habits/{id}/increment", s.handler.Increment).Methods("POST")
	api.HandleFunc("/habits/{id}/decrement", s.handler.Decrement).Methods("POST")
	api.HandleFunc("/habits/{id}/recompute", s.handler.Recompute).Methods("POST")

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)
	return cors(r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	metrics.Register()

	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
		IdleTimeout:  constants.ServerIdleTimeout,
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go s.limiter.cleanup(cleanupCtx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", s.addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownWindow)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server shutdown complete")
	return nil
}
