package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/tasks"
	"github.com/desertthunder/popcorn/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	logger := shared.WithLogger(fileLogger, "session", shared.GenerateID())
	r.SetLogger(logger)

	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	list, err := r.watchedList()
	if err != nil {
		return err
	}

	state := tasks.NewState(list)
	state.ResultsOpen = r.config.UI.ResultsOpen
	state.WatchedOpen = r.config.UI.WatchedOpen

	selection := tasks.NewSelectionController(state, catalog, tasks.SelectionOpts{Context: ctx, Logger: logger})
	search := tasks.NewSearchController(state, catalog, selection, tasks.SearchOpts{
		Context:  ctx,
		Debounce: r.config.Catalog.Debounce(),
		Logger:   logger,
	})

	query := r.config.UI.InitialQuery
	if cmd.IsSet("query") {
		query = cmd.String("query")
	}

	model := ui.NewModel(ui.Opts{
		State:        state,
		Search:       search,
		Selection:    selection,
		InitialQuery: query,
		Opener:       r.opener,
		Logger:       logger,
	})

	logger.Info("starting TUI", "movies", list.Len(), "query", query)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
