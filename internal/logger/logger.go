package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file written under <config dir>/logs.
const FileName = "habitkit.log"

// Logger is the process-wide logger. It stays nil until Init runs, and the
// package helpers are no-ops until then.
var Logger *log.Logger

var file *lumberjack.Logger

// Config selects where habitkit logs and how much.
type Config struct {
	Debug     bool
	ConfigDir string
	// Stderr mirrors log output to stderr even without Debug (used by `serve`)
	Stderr bool
}

// level is WARN for one-shot commands, INFO for the server and DEBUG on request.
func (c Config) level() log.Level {
	switch {
	case c.Debug:
		return log.DebugLevel
	case c.Stderr:
		return log.InfoLevel
	}
	return log.WarnLevel
}

// Init opens the rotating log file and installs Logger.
func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file = &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	var out io.Writer = file
	if cfg.Debug || cfg.Stderr {
		out = io.MultiWriter(os.Stderr, file)
	}

	Logger = log.NewWithOptions(out, log.Options{
		Prefix:          "habitkit",
		Level:           cfg.level(),
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// Path returns the active log file, or "" before Init.
func Path() string {
	if file == nil {
		return ""
	}
	return file.Filename
}

// Close releases the log file. Logging after Close reopens it.
func Close() error {
	if file == nil {
		return nil
	}
	return file.Close()
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
