package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/attach"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/form"
	"github.com/medsupply/catadmin/internal/output"
	"github.com/medsupply/catadmin/internal/picker"
)

type ProductCommand struct{}

// NewProductCommand creates the product command
func NewProductCommand(groupID string) *cobra.Command {
	pc := &ProductCommand{}

	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"products"},
		Short:   "Search, show, create and update products",
		Long: `Search, show, create and update products.

Products have no list or delete endpoint: browse them with "search" or
"random" and open one with "show".

Examples:
  catadmin product search gasa --page 2
  catadmin product show 4d3e... --expand
  catadmin product create --generic-name "Gasa esteril" --brand acme \
    --category "wound care" --registry 2020dm-0001 \
    --characteristic "size=10x10" --image gasa.png --sheet ficha.pdf
  catadmin product update 4d3e... --remove-image old.png --remove-sheet`,
		GroupID: groupID,
	}

	cmd.AddCommand(
		pc.newSearchCommand(),
		pc.newRandomCommand(),
		pc.newShowCommand(),
		pc.newCreateCommand(),
		pc.newUpdateCommand(),
	)

	return cmd
}

func (c *ProductCommand) newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products on the server",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.runSearch,
	}
	cmd.Flags().IntP("page", "p", 1, fmt.Sprintf("Page to show (%d per page)", catalog.ProductEntity.PageSize))
	cmd.Flags().StringP("filter", "s", "", "Narrow the results by name or brand")
	return cmd
}

func (c *ProductCommand) newRandomCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Show a random selection of products",
		Args:  cobra.NoArgs,
		RunE:  c.runRandom,
	}
}

func (c *ProductCommand) newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a product detail",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runShow,
	}
	cmd.Flags().BoolP("expand", "e", false, "Show long texts in full")
	return cmd
}

func (c *ProductCommand) newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new product",
		Args:  cobra.NoArgs,
		RunE:  c.runCreate,
	}
	productFlags(cmd)
	return cmd
}

func (c *ProductCommand) newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runUpdate,
	}
	productFlags(cmd)
	return cmd
}

func productFlags(cmd *cobra.Command) {
	cmd.Flags().String("generic-name", "", "Generic name")
	cmd.Flags().String("commercial-name", "", "Commercial name")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().String("measurement", "", "Unit of measurement")
	cmd.Flags().String("formulation", "", "Presentation")
	cmd.Flags().String("composition", "", "Composition")
	cmd.Flags().String("reference", "", "Manufacturer reference")
	cmd.Flags().String("use", "", "Intended use")
	cmd.Flags().String("sanitize-method", "", "Sterilization method")
	cmd.Flags().Bool("status", true, "Product is active")
	cmd.Flags().Bool("iva", false, "Product carries IVA")
	cmd.Flags().String("brand", "", "Brand, by id or name")
	cmd.Flags().String("category", "", "Category, by id or name")
	cmd.Flags().String("registry", "", "Sanitary registry, by id or number")
	cmd.Flags().StringSlice("provider", nil, "Provider to attach, by id or name (repeatable)")
	cmd.Flags().StringSlice("remove-provider", nil, "Provider to detach, by id or name (repeatable)")
	cmd.Flags().StringArray("characteristic", nil, `Characteristic as "name=description" (repeatable)`)
	cmd.Flags().StringSlice("remove-characteristic", nil, "Characteristic to remove, by name (repeatable)")
	cmd.Flags().StringSlice("image", nil, "Image file to upload (repeatable)")
	cmd.Flags().StringSlice("remove-image", nil, "Existing image to remove, by URL or file name (repeatable)")
	cmd.Flags().String("sheet", "", "Technical sheet file to upload")
	cmd.Flags().Bool("remove-sheet", false, "Remove the technical sheet")
}

func (c *ProductCommand) runSearch(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	products := app.Catalog.Products
	if err := products.Search(cmd.Context(), strings.Join(args, " ")); err != nil {
		return err
	}

	filter, _ := cmd.Flags().GetString("filter")
	page, _ := cmd.Flags().GetInt("page")
	products.Results.Search(filter)
	products.Results.SetPage(page)

	info := pageInfo(products.Results)
	info.Search = products.Query()
	return app.Printer.PrintProducts(products.Results.Visible(), info)
}

func (c *ProductCommand) runRandom(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	products := app.Catalog.Products
	if err := products.Random(cmd.Context()); err != nil {
		return err
	}
	return app.Printer.PrintProducts(products.Results.Items(), output.Page{
		Number:     1,
		TotalPages: 1,
		Matches:    products.Results.Len(),
	})
}

func (c *ProductCommand) runShow(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	product, err := app.Catalog.Products.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	expand, _ := cmd.Flags().GetBool("expand")
	return app.Printer.PrintProduct(product, expand)
}

func (c *ProductCommand) runCreate(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	draft := api.ProductDraft{Status: true}
	draft, err = productDraft(cmd, app, draft, attach.NewSet(nil), attach.NewSlot(""))
	if err != nil {
		return err
	}
	if err := validateProduct(draft); err != nil {
		return err
	}

	created, err := app.Catalog.Products.Create(cmd.Context(), draft)
	if err != nil {
		return err
	}
	app.Printer.Notice(app.Notifier)
	return app.Printer.PrintRecord(created)
}

func (c *ProductCommand) runUpdate(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	id := args[0]
	current, err := app.Catalog.Products.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	sheetURL := ""
	if len(current.TechnicalSheets) > 0 {
		sheetURL = current.TechnicalSheets[0].Documents
	}

	draft, err := productDraft(cmd, app, api.DraftFromProduct(current),
		attach.NewSet(current.Images), attach.NewSlot(sheetURL))
	if err != nil {
		return err
	}
	if err := validateProduct(draft); err != nil {
		return err
	}

	updated, err := app.Catalog.Products.Update(cmd.Context(), id, draft)
	if err != nil {
		return err
	}
	app.Printer.Notice(app.Notifier)
	return app.Printer.PrintRecord(updated)
}

func validateProduct(d api.ProductDraft) error {
	return form.Required(
		form.Field{Name: "generic-name", Value: d.GenericName},
		form.Field{Name: "brand", Value: d.Brand},
		form.Field{Name: "category", Value: d.Category},
	)
}

// productDraft applies the changed flags to base and encodes the pending
// attachments
func productDraft(cmd *cobra.Command, app *App, base api.ProductDraft, images *attach.Set, sheet *attach.Slot) (api.ProductDraft, error) {
	ctx := cmd.Context()

	setString(cmd, "generic-name", &base.GenericName)
	setString(cmd, "commercial-name", &base.CommercialName)
	setString(cmd, "description", &base.Description)
	setString(cmd, "measurement", &base.Measurement)
	setString(cmd, "formulation", &base.Formulation)
	setString(cmd, "composition", &base.Composition)
	setString(cmd, "reference", &base.Reference)
	setString(cmd, "use", &base.Use)
	setString(cmd, "sanitize-method", &base.SanitizeMethod)
	setBool(cmd, "status", &base.Status)
	setBool(cmd, "iva", &base.IVA)

	var err error
	if base.Brand, err = resolveSingle(cmd, "brand", base.Brand,
		app.Catalog.Brands.Load, app.Catalog.BrandRefs); err != nil {
		return base, err
	}
	if base.Category, err = resolveSingle(cmd, "category", base.Category,
		app.Catalog.Categories.Load, app.Catalog.CategoryRefs); err != nil {
		return base, err
	}
	if base.SanitaryRegistry, err = resolveSingle(cmd, "registry", base.SanitaryRegistry,
		app.Catalog.Registries.Load, app.Catalog.RegistryRefs); err != nil {
		return base, err
	}

	if err := applyProviders(cmd, app, &base); err != nil {
		return base, err
	}
	if err := applyCharacteristics(cmd, &base); err != nil {
		return base, err
	}
	if err := applyAttachments(cmd, images, sheet); err != nil {
		return base, err
	}

	if base.Images, err = images.Payloads(ctx); err != nil {
		return base, err
	}
	if base.TechnicalSheet, err = sheet.Payload(ctx); err != nil {
		return base, err
	}
	return base, nil
}

// resolveSingle resolves a single-reference flag to an id. The candidate
// collection is only loaded when the flag was given.
func resolveSingle(cmd *cobra.Command, name, current string, load func(context.Context) error, refs func() []api.Ref) (string, error) {
	if !cmd.Flags().Changed(name) {
		return current, nil
	}
	value, _ := cmd.Flags().GetString(name)

	if err := load(cmd.Context()); err != nil {
		return "", err
	}

	p := picker.NewSingle(refs(), nil)
	if err := selectRef(p, value); err != nil {
		return "", fmt.Errorf("%s %w", name, err)
	}
	ref, _ := p.SelectedOne()
	return ref.ID, nil
}

func applyProviders(cmd *cobra.Command, app *App, d *api.ProductDraft) error {
	add, _ := cmd.Flags().GetStringSlice("provider")
	remove, _ := cmd.Flags().GetStringSlice("remove-provider")
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}

	if err := app.Catalog.Providers.Load(cmd.Context()); err != nil {
		return err
	}
	p := picker.New(app.Catalog.ProviderRefs(), d.Providers...)
	for _, ref := range add {
		if err := selectRef(p, ref); err != nil {
			return fmt.Errorf("provider %w", err)
		}
	}
	for _, ref := range remove {
		p.Remove(refID(p.Selected(), ref))
	}
	d.Providers = p.Selected()
	return nil
}

func applyCharacteristics(cmd *cobra.Command, d *api.ProductDraft) error {
	remove, _ := cmd.Flags().GetStringSlice("remove-characteristic")
	if len(remove) > 0 {
		kept := d.Characteristics[:0:0]
		for _, c := range d.Characteristics {
			drop := false
			for _, name := range remove {
				if strings.EqualFold(c.Characteristic, name) {
					drop = true
					break
				}
			}
			if !drop {
				kept = append(kept, c)
			}
		}
		d.Characteristics = kept
	}

	add, _ := cmd.Flags().GetStringArray("characteristic")
	for _, spec := range add {
		name, desc, ok := strings.Cut(spec, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid characteristic %q (use name=description)", spec)
		}
		d.Characteristics = append(d.Characteristics,
			catalog.NewCharacteristic(strings.TrimSpace(name), strings.TrimSpace(desc)))
	}
	return nil
}

func applyAttachments(cmd *cobra.Command, images *attach.Set, sheet *attach.Slot) error {
	removeImages, _ := cmd.Flags().GetStringSlice("remove-image")
	for _, ref := range removeImages {
		if err := images.DeleteURL(ref); err != nil {
			return err
		}
	}

	addImages, _ := cmd.Flags().GetStringSlice("image")
	for _, p := range addImages {
		if err := images.Add(p); err != nil {
			return err
		}
	}

	if removeSheet, _ := cmd.Flags().GetBool("remove-sheet"); removeSheet {
		sheet.Delete()
	}
	if p, _ := cmd.Flags().GetString("sheet"); p != "" {
		if err := sheet.SetFile(p); err != nil {
			return err
		}
	}
	return nil
}
