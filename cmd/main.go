package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rutinas/internal/services"
	"github.com/desertthunder/rutinas/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	if err := config.ApplyEnv(".env"); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	apiService := services.NewAPIService(config.API.BaseURL, &http.Client{Timeout: config.API.Timeout()})
	gateway := services.NewRoutineService(apiService, shared.WithLogger(logger, "component", "gateway"))

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Gateway:    gateway,
		API:        apiService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:    "rutinas",
		Usage:   "Manage weekly workout routines",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log HTTP requests and other debug output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrCancelled) {
			logger.Warn("cancelled")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
