package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/config"
	"github.com/julianstephens/habitkit/internal/storage/postgres"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// New returns the provider for target without opening it. Call Init or Load next.
func New(target config.Target, loc *time.Location) (Provider, error) {
	switch target.Backend {
	case config.BackendSQLite:
		return sqlite.NewStore(target.Location, loc), nil
	case config.BackendPostgres:
		return postgres.New(target.Location, loc), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", target.Backend)
	}
}
