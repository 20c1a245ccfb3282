package system

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil, errors.New("backups are only supported for SQLite storage; use pg_dump for PostgreSQL")
	}
	return backup.NewManager(store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	info, err := mgr.Create(ctx.Ctx)
	if err != nil {
		return err
	}
	ctx.Printf("Backup created: %s\n", info.Path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		return nil
	}

	ctx.Printf("Backups in %s:\n\n", mgr.Dir())
	for _, b := range backups {
		ctx.Printf("  %s  %s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			cli.MutedStyle.Render(fmt.Sprintf("%6.1f KB", float64(b.Size)/1024)),
			filepath.Base(b.Path),
		)
	}
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" optional:"" help:"Backup file name or path (default: newest backup)."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path := c.File
	switch {
	case path == "":
		backups, err := mgr.List()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			return errors.New("no backups found")
		}
		path = backups[0].Path
	case filepath.Base(path) == path:
		path = filepath.Join(mgr.Dir(), path)
	}

	// The database file is replaced underneath the open connection
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	safety, err := mgr.Restore(ctx.Ctx, path)
	if err != nil {
		return err
	}
	if safety.Path != "" {
		ctx.Printf("Created backup of current database: %s\n", filepath.Base(safety.Path))
	}
	ctx.Printf("Restored database from %s\n", filepath.Base(path))
	return nil
}
