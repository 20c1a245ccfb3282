package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/keyring"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/storage/postgres"
)

// Backend identifies which storage implementation a Target opens
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Target is a resolved storage location
type Target struct {
	Backend Backend
	// Location is a file path for SQLite or a connection string for PostgreSQL.
	Location string
	// Source records where Location came from: flag, env, keyring or default.
	Source string
}

// Dir returns the directory logs are written to for this target.
func (t Target) Dir() (string, error) {
	if t.Backend == BackendSQLite {
		return filepath.Dir(t.Location), nil
	}
	return ExpandHome(filepath.Dir(constants.DefaultConfigPath))
}

// ResolveTarget picks the storage location. An explicit --config value wins,
// then HABITKIT_DB_CONNECTION, then a connection string in the OS keyring,
// then the default SQLite path.
//
// A password in a --config connection string is rejected since it would end
// up in shell history. The environment and the keyring may carry one.
func ResolveTarget(configFlag string) (Target, error) {
	if configFlag != "" {
		return fromValue(configFlag, "flag", true)
	}

	if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
		return fromValue(connStr, "env", false)
	}

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		return fromValue(connStr, "keyring", false)
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logger.Debug("Keyring lookup failed", "error", err)
	}

	return fromValue(constants.DefaultConfigPath, "default", true)
}

func fromValue(value, source string, rejectPassword bool) (Target, error) {
	value = strings.TrimSpace(value)
	if postgres.IsConnString(value) {
		err := postgres.ValidateConnString(value)
		if errors.Is(err, postgres.ErrEmbeddedCredentials) && !rejectPassword {
			err = nil
		}
		if err != nil {
			return Target{}, fmt.Errorf("%s connection string: %w", source, err)
		}
		return Target{Backend: BackendPostgres, Location: value, Source: source}, nil
	}

	path, err := ExpandHome(value)
	if err != nil {
		return Target{}, err
	}
	return Target{Backend: BackendSQLite, Location: path, Source: source}, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
