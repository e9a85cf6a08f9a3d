package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mise/internal/formatter"
	"github.com/desertthunder/mise/internal/shared"
	"github.com/desertthunder/mise/internal/shopping"
	"github.com/desertthunder/mise/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive shopping list checklist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	start, end, err := dateRange(cmd)
	if err != nil {
		return err
	}

	d, err := r.deps()
	if err != nil {
		return err
	}

	user, err := d.lookupUser(ctx, cmd.String("user"))
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mise-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	generate := func(ctx context.Context) (*shopping.List, error) {
		list, err := d.shopping.Generate(ctx, user.ID, start, end)
		if err == nil {
			r.logger.Debug("shopping list generated", "items", len(list.Items), "skipped", len(list.Skipped))
		}
		return list, err
	}

	model := ui.NewModel(ctx, formatter.Title(start, end), generate)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
