package command

import (
	"github.com/spf13/cobra"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/attach"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/form"
	"github.com/medsupply/catadmin/internal/listmgr"
	"github.com/medsupply/catadmin/internal/output"
)

// NewRegistryCommand creates the sanitary registry command
func NewRegistryCommand(groupID string) *cobra.Command {
	c := &EntityCommand[api.SanitaryRegistry]{
		entity:  catalog.SanitaryRegistryEntity,
		manager: func(app *App) *listmgr.Manager[api.SanitaryRegistry] { return app.Catalog.Registries },
		label:   func(r api.SanitaryRegistry) string { return r.NumberRegistry },
		print: func(p *output.Printer, registries []api.SanitaryRegistry, page output.Page) error {
			return p.PrintRegistries(registries, page)
		},
		flags: func(cmd *cobra.Command) {
			cmd.Flags().String("number", "", "Registry number")
			cmd.Flags().String("expiration", "", "Expiration date (YYYY-MM-DD)")
			cmd.Flags().String("cluster", "", "Product cluster (grupo)")
			cmd.Flags().String("status", "", "Registry status")
			cmd.Flags().String("risk", "", "Risk class")
			cmd.Flags().String("file", "", "Registry document (PDF only)")
		},
		draft: registryDraft,
		validate: func(r api.SanitaryRegistry) error {
			return form.Required(
				form.Field{Name: "number", Value: r.NumberRegistry},
				form.Field{Name: "expiration", Value: r.ExpirationDate},
			)
		},
	}

	return c.command("registry", []string{"registries", "sanitary-registry"}, groupID,
		"Manage sanitary registries",
		`List, create, update and delete sanitary registries (INVIMA).

The registry document must be a PDF; it is uploaded base64-encoded.

Examples:
  catadmin registry create --number "2020DM-0001" --expiration 2030-01-31 \
    --cluster "equipos" --status vigente --risk IIa --file registro.pdf
  catadmin registry list --search vigente`)
}

func registryDraft(cmd *cobra.Command, app *App, base api.SanitaryRegistry) (api.SanitaryRegistry, error) {
	setString(cmd, "number", &base.NumberRegistry)
	setString(cmd, "expiration", &base.ExpirationDate)
	setString(cmd, "cluster", &base.Cluster)
	setString(cmd, "status", &base.Status)
	setString(cmd, "risk", &base.TypeRisk)

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		payload, err := attach.EncodePDF(cmd.Context(), path)
		if err != nil {
			return base, err
		}
		base.FileName = payload.FileName
		base.FileContent = payload.FileContent
	}
	return base, nil
}
