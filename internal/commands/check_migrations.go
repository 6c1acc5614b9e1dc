package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/okra-platform/gqlpurs/internal/config"
	"github.com/okra-platform/gqlpurs/internal/migrations"
)

// CheckMigrations reports whether the main and codegen databases are in
// step with each other and with the migrations directory. The status is
// printed to stdout.
func (c *Controller) CheckMigrations(ctx context.Context) error {
	var missing []string
	if c.Flags.Settings.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL is required")
	}
	if c.Flags.CodegenDatabaseURL == "" {
		missing = append(missing, "CODEGEN_DATABASE_URL is required")
	}
	if c.Flags.MigrationsDir == "" {
		missing = append(missing, "HASURA_MIGRATIONS_DIR is required")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", config.ErrConfiguration, strings.Join(missing, "; "))
	}

	mainDB, err := c.openDB(ctx, c.Flags.Settings.DatabaseURL)
	if err != nil {
		return fmt.Errorf("main database: %w", err)
	}
	defer mainDB.Close()

	codegenDB, err := c.openDB(ctx, c.Flags.CodegenDatabaseURL)
	if err != nil {
		return fmt.Errorf("codegen database: %w", err)
	}
	defer codegenDB.Close()

	report, err := migrations.Check(ctx, mainDB, codegenDB, c.Flags.MigrationsDir)
	if err != nil {
		return err
	}

	c.Logger.Debug().
		Str("main", report.MainLatest).
		Str("codegen", report.CodegenLatest).
		Str("disk", report.DiskLatest).
		Msg("Compared migrations")

	fmt.Fprintln(c.stdout(), report.Status)
	return nil
}
