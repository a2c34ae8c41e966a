package command

import (
	"github.com/spf13/cobra"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
)

// NewDashboardCommand creates the dashboard command
func NewDashboardCommand(groupID string) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"stats"},
		Short:   "Show how many records each collection holds",
		Args:    cobra.NoArgs,
		RunE:    runDashboard,
		GroupID: groupID,
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	amounts, err := catalog.FetchAmounts(cmd.Context(), app.Client)
	if err != nil {
		app.Notifier.Error("could not load the dashboard: %s", api.Message(err))
		app.Printer.Notice(app.Notifier)
		return err
	}
	return app.Printer.PrintAmounts(amounts)
}
