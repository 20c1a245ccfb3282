package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/logger"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithEngineError maps engine and storage errors onto status codes.
// Internal failures are logged and reported without detail.
func respondWithEngineError(w http.ResponseWriter, err error) {
	code := apperrors.HTTPStatus(err)
	if code == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		respondWithError(w, code, "Internal server error")
		return
	}
	respondWithError(w, code, err.Error())
}
