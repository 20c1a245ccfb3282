package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
	"github.com/julianstephens/habitkit/internal/utils"
)

// Context is what every command runs against
type Context struct {
	// Ctx is cancelled on SIGINT/SIGTERM.
	Ctx    context.Context
	Store  storage.Provider
	Engine *engine.Engine
	Out    io.Writer
	Now    func() time.Time

	loc *time.Location
}

// NewContext wires an engine over store using the store's timezone.
func NewContext(ctx context.Context, store storage.Provider) *Context {
	return &Context{
		Ctx:    ctx,
		Store:  store,
		Engine: engine.New(store, engine.WithLocation(store.Location())),
		Out:    os.Stdout,
		Now:    time.Now,
	}
}

// PerformAutomaticBackup snapshots a SQLite database before destructive
// commands. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	store, ok := c.Store.(*sqlite.Store)
	if !ok {
		return
	}
	if _, err := backup.NewManager(store.GetConfigPath()).Create(c.Ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Location() *time.Location {
	if c.loc != nil {
		return c.loc
	}
	return c.Store.Location()
}

// Date parses a YYYY-MM-DD flag in the configured timezone; "" means today.
func (c *Context) Date(s string) (time.Time, error) {
	if s == "" {
		return utils.StartOfDay(c.Now(), c.Location()), nil
	}
	return utils.ParseDateInLocation(s, c.Location())
}

// Habit looks a habit up by its title.
func (c *Context) Habit(title string) (models.Habit, error) {
	h, err := c.Store.GetHabitByTitle(c.Ctx, title)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q: %w", title, err)
	}
	return h, nil
}

func (c *Context) Aggregator() *engine.Aggregator {
	return engine.NewAggregator(c.Store, c.Location())
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}
