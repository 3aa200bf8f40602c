package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rutinas/internal/shared"
	"github.com/desertthunder/rutinas/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive routine browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.gateway == nil {
		return fmt.Errorf("%w: gateway not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/rutinas-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.gateway, ui.Options{
		PageSize:  r.config.Session.PageSize,
		ExportDir: r.config.Export.Dir,
		Logger:    fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
