package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/rutinas/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Database
	r.logger.Info("initializing database", "path", cfg.Path)

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlain("✓ History database ready at %s\n", cfg.Path)
	return nil
}

// SetupConfig writes config.toml from the embedded template. An existing file is left untouched.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		path = r.configPath
	}

	if _, err := os.Stat(path); err == nil {
		r.logger.Warn("config file already exists", "path", path)
		r.writePlain("Config already present at %s\n", path)
		return nil
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set api.base_url to your routines backend (or export RUTINAS_API_URL)\n")
	r.writePlain("2. Run 'rutinas setup database' to create the backup history\n")
	return nil
}
