package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/form"
	"github.com/medsupply/catadmin/internal/listmgr"
	"github.com/medsupply/catadmin/internal/output"
	"github.com/medsupply/catadmin/internal/picker"
)

// NewProviderCommand creates the provider command
func NewProviderCommand(groupID string) *cobra.Command {
	c := &EntityCommand[api.Provider]{
		entity:  catalog.ProviderEntity,
		manager: func(app *App) *listmgr.Manager[api.Provider] { return app.Catalog.Providers },
		label:   func(p api.Provider) string { return p.Name },
		print: func(p *output.Printer, providers []api.Provider, page output.Page) error {
			return p.PrintProviders(providers, page)
		},
		flags:    providerFlags,
		draft:    providerDraft,
		validate: validateProvider,
	}

	return c.command("provider", []string{"providers"}, groupID,
		"Manage providers and the brands they distribute",
		`List, create, update and delete providers.

Brands are attached with --brand (id or name, repeatable) and detached
with --remove-brand.

Examples:
  catadmin provider create --name Distrimed --nit 900123 \
    --person-type legal --represent "Ana Ruiz" --phone 3001234567 \
    --email ventas@distrimed.co --brand acme --brand bayer
  catadmin provider update 9a2b... --remove-brand bayer`)
}

func providerFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Company name")
	cmd.Flags().String("nit", "", "Tax id (NIT)")
	cmd.Flags().String("person-type", "", "Person type: natural or legal")
	cmd.Flags().String("represent", "", "Legal representative")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("email", "", "Contact email")
	cmd.Flags().StringSlice("brand", nil, "Brand to attach, by id or name (repeatable)")
	cmd.Flags().StringSlice("remove-brand", nil, "Brand to detach, by id or name (repeatable)")
}

func providerDraft(cmd *cobra.Command, app *App, base api.Provider) (api.Provider, error) {
	setString(cmd, "name", &base.Name)
	setString(cmd, "nit", &base.NIT)
	setString(cmd, "represent", &base.Represent)
	setString(cmd, "phone", &base.Phone)
	setString(cmd, "email", &base.Email)

	if cmd.Flags().Changed("person-type") {
		v, _ := cmd.Flags().GetString("person-type")
		pt, err := catalog.ParsePersonType(v)
		if err != nil {
			return base, err
		}
		base.PersonType = pt
	}

	add, _ := cmd.Flags().GetStringSlice("brand")
	remove, _ := cmd.Flags().GetStringSlice("remove-brand")
	if len(add) == 0 && len(remove) == 0 {
		return base, nil
	}

	if err := app.Catalog.Brands.Load(cmd.Context()); err != nil {
		return base, err
	}
	p := picker.New(app.Catalog.BrandRefs(), base.Brands...)
	for _, ref := range add {
		if err := selectRef(p, ref); err != nil {
			return base, fmt.Errorf("brand %w", err)
		}
	}
	for _, ref := range remove {
		p.Remove(refID(p.Selected(), ref))
	}
	base.Brands = p.Selected()
	return base, nil
}

func validateProvider(p api.Provider) error {
	return form.Required(
		form.Field{Name: "name", Value: p.Name},
		form.Field{Name: "nit", Value: p.NIT},
		form.Field{Name: "person-type", Value: p.PersonType},
	)
}

// selectRef selects a candidate by id, or by case-insensitive exact name
func selectRef(p *picker.Picker, value string) error {
	if p.IsSelected(refID(p.Selected(), value)) {
		return nil
	}
	if p.SelectID(value) {
		return nil
	}
	for _, c := range p.Candidates() {
		if strings.EqualFold(c.Name, value) {
			p.Select(c)
			return nil
		}
	}
	return fmt.Errorf("%q not found", value)
}

// refID returns the id of the reference matching value by id or name
func refID(refs []api.Ref, value string) string {
	for _, r := range refs {
		if r.ID == value || strings.EqualFold(r.Name, value) {
			return r.ID
		}
	}
	return value
}
