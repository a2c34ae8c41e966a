package command

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/medsupply/catadmin/internal/tui"
)

// NewUICommand creates the UI command
func NewUICommand(groupID string) *cobra.Command {
	return &cobra.Command{
		Use:     "ui",
		Short:   "Launch the interactive catalog console",
		Long:    "Launch the catadmin terminal console for browsing and editing the catalog through the API.",
		Args:    cobra.NoArgs,
		RunE:    runUI,
		GroupID: groupID,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	if err := app.Client.Health(cmd.Context()); err != nil {
		return fmt.Errorf("API health check failed for %s: %w", app.Client.BaseURL(), err)
	}

	model := tui.NewModel(cmd.Context(), app.Catalog, app.Log)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
