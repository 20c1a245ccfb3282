package constants

import "time"

const (
	AppName            = "habitkit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitkit/habitkit.db"
	DefaultTimezone    = "Local"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Environment variables
	EnvDBConnection = "HABITKIT_DB_CONNECTION"
	EnvConfig       = "HABITKIT_CONFIG"
	EnvTimezone     = "HABITKIT_TIMEZONE"
	EnvDebug        = "HABITKIT_DEBUG"

	// Progress step applied by increment/decrement
	ProgressStep = 1.0

	// Default number of days shown by the habit log
	DefaultLogDays = 14

	// HTTP server constants
	DefaultListenAddr    = ":3333"
	RequestTimeout       = 5 * time.Second
	ServerReadTimeout    = 5 * time.Second
	ServerWriteTimeout   = 10 * time.Second
	ServerIdleTimeout    = 120 * time.Second
	ServerShutdownWindow = 30 * time.Second

	// Rate limiter constants (per client IP)
	RateLimitPerSecond = 5
	RateLimitBurst     = 30
	VisitorTTL         = 3 * time.Minute
)
