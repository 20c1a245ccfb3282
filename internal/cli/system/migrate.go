package system

import (
	"fmt"

	"github.com/julianstephens/habitkit/internal/cli"
)

type MigrateCmd struct {
	NormalizeDays bool `help:"Also rewrite stored weekday lists in canonical form."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	count, err := ctx.Store.Migrate(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("Successfully applied %d migration(s).\n", count)
	}

	if c.NormalizeDays {
		n, err := ctx.Store.NormalizeDaysOfWeek(ctx.Ctx)
		if err != nil {
			return fmt.Errorf("failed to normalize weekday lists: %w", err)
		}
		ctx.Printf("Normalized %d weekday list(s).\n", n)
	}

	return nil
}
