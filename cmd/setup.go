package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/mise/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file when missing, runs migrations and seeds the admin account.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			r.config = config
			r.configPath = configPath
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	d, err := r.deps()
	if err != nil {
		return err
	}

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(r.db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Info("migrations applied", "count", applied)

	created, err := d.accounts.SeedAdmin(ctx, r.config.Admin)
	if err != nil {
		return err
	}
	if created {
		r.logger.Warn("seeded admin account, change its password", "email", r.config.Admin.Email)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}

type migrationRow struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
}

// SetupStatus prints every known migration and whether it has been applied.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	states, err := shared.MigrationStatus(db)
	if err != nil {
		return err
	}

	out := make([]migrationRow, len(states))
	for i, s := range states {
		out[i] = migrationRow{Version: s.Version, Name: s.Name, Applied: s.Applied}
	}

	if cmd.Bool("json") {
		return r.writeJSON(out, true)
	}

	rows := make([][]string, len(out))
	for i, m := range out {
		status := "pending"
		if m.Applied {
			status = "applied"
		}
		rows[i] = []string{strconv.Itoa(m.Version), m.Name, status}
	}
	return r.writeTable([]string{"Version", "Name", "Status"}, rows)
}

// SetupRollback reverts the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}
	r.logger.Info("rolled back latest migration")
	return nil
}
