package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/cli/habits"
	"github.com/julianstephens/habitkit/internal/cli/system"
	"github.com/julianstephens/habitkit/internal/config"
	"github.com/julianstephens/habitkit/internal/constants"
	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite file path or PostgreSQL connection string. PostgreSQL passwords must not be embedded here; use HABITKIT_DB_CONNECTION, .pgpass or the OS keyring instead." env:"HABITKIT_CONFIG"`
	Timezone string `help:"IANA timezone that defines local midnight." default:"Local" env:"HABITKIT_TIMEZONE"`
	Debug    bool   `help:"Mirror debug logs to stderr." env:"HABITKIT_DEBUG"`

	Init    system.InitCmd    `cmd:"" help:"Initialize habitkit storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the connection string stored in the OS keyring."`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the habit HTTP API."`
	Backup  system.BackupCmd  `cmd:"" help:"Manage SQLite database backups."`

	Habit  habits.HabitCmd  `cmd:"" help:"Manage habits."`
	Today  habits.TodayCmd  `cmd:"" help:"Show the day's habits and progress." default:"1"`
	Toggle habits.ToggleCmd `cmd:"" help:"Toggle a habit's completion for a day."`
	Inc    habits.IncCmd    `cmd:"" help:"Add progress to a habit for a day."`
	Dec    habits.DecCmd    `cmd:"" help:"Remove progress from a habit for a day."`
	Note   habits.NoteCmd   `cmd:"" help:"Set the note on a habit's day."`
	Streak habits.StreakCmd `cmd:"" help:"Recompute and show a habit's streaks."`
	Log    habits.LogCmd    `cmd:"" help:"Show habit log (ASCII history)."`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit scheduling and streak tracking"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	target, err := config.ResolveTarget(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	logDir, err := target.Dir()
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: logDir,
		Stderr:    kctx.Command() == "serve",
	}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()
	logger.Debug("Resolved storage target", "backend", target.Backend, "source", target.Source)

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		apperrors.Fatal(err)
	}

	store, err := storage.New(target, loc)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	// init creates the store and keyring commands never touch it
	if needsStore(kctx.Command()) {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := kctx.Run(cli.NewContext(runCtx, store)); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

func needsStore(command string) bool {
	return command != "init" && !strings.HasPrefix(command, "keyring")
}
