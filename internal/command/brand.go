package command

import (
	"github.com/spf13/cobra"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/form"
	"github.com/medsupply/catadmin/internal/listmgr"
	"github.com/medsupply/catadmin/internal/output"
)

func nameFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Name")
}

// NewBrandCommand creates the brand command
func NewBrandCommand(groupID string) *cobra.Command {
	c := &EntityCommand[api.Brand]{
		entity:  catalog.BrandEntity,
		manager: func(app *App) *listmgr.Manager[api.Brand] { return app.Catalog.Brands },
		label:   func(b api.Brand) string { return b.Name },
		print: func(p *output.Printer, brands []api.Brand, page output.Page) error {
			return p.PrintBrands(brands, page)
		},
		flags: nameFlags,
		draft: func(cmd *cobra.Command, app *App, base api.Brand) (api.Brand, error) {
			setString(cmd, "name", &base.Name)
			return base, nil
		},
		validate: func(b api.Brand) error {
			return form.Required(form.Field{Name: "name", Value: b.Name})
		},
	}

	return c.command("brand", []string{"brands"}, groupID,
		"Manage product brands",
		`List, create, update and delete brands.

Names are stored lower-case. Deleting a brand asks for confirmation
unless --yes is given.

Examples:
  catadmin brand list --search acme
  catadmin brand create --name "Acme Labs"
  catadmin brand update 6f1c... --name "Acme"
  catadmin brand delete 6f1c... --yes`)
}

// NewCategoryCommand creates the category command
func NewCategoryCommand(groupID string) *cobra.Command {
	c := &EntityCommand[api.Category]{
		entity:  catalog.CategoryEntity,
		manager: func(app *App) *listmgr.Manager[api.Category] { return app.Catalog.Categories },
		label:   func(c api.Category) string { return c.Name },
		print: func(p *output.Printer, categories []api.Category, page output.Page) error {
			return p.PrintCategories(categories, page)
		},
		flags: nameFlags,
		draft: func(cmd *cobra.Command, app *App, base api.Category) (api.Category, error) {
			setString(cmd, "name", &base.Name)
			return base, nil
		},
		validate: func(c api.Category) error {
			return form.Required(form.Field{Name: "name", Value: c.Name})
		},
	}

	return c.command("category", []string{"categories"}, groupID,
		"Manage product categories",
		`List, create, update and delete product categories.

Examples:
  catadmin category list --page 2
  catadmin category create --name "Wound care"`)
}
