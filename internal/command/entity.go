package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/form"
	"github.com/medsupply/catadmin/internal/listmgr"
	"github.com/medsupply/catadmin/internal/output"
)

// EntityCommand builds the list/show/create/update/delete subcommands for
// one catalog collection
type EntityCommand[T any] struct {
	entity  catalog.Entity
	manager func(*App) *listmgr.Manager[T]
	label   func(T) string
	print   func(*output.Printer, []T, output.Page) error
	// flags registers the create/update field flags
	flags func(*cobra.Command)
	// draft applies the changed field flags on top of base
	draft    func(cmd *cobra.Command, app *App, base T) (T, error)
	validate func(T) error
}

func (c *EntityCommand[T]) command(use string, aliases []string, groupID, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Long:    long,
		GroupID: groupID,
	}

	cmd.AddCommand(
		c.newListCommand(),
		c.newShowCommand(),
		c.newCreateCommand(),
		c.newUpdateCommand(),
		c.newDeleteCommand(),
	)

	return cmd
}

func (c *EntityCommand[T]) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s", c.entity.Plural),
		Args:    cobra.NoArgs,
		RunE:    c.runList,
	}

	cmd.Flags().StringP("search", "s", "", "Only show records matching this text")
	cmd.Flags().IntP("page", "p", 1, fmt.Sprintf("Page to show (%d per page)", c.entity.PageSize))
	cmd.Flags().Bool("all", false, "Show every matching record instead of one page")

	return cmd
}

func (c *EntityCommand[T]) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show one %s", c.entity.Name),
		Args:  cobra.ExactArgs(1),
		RunE:  c.runShow,
	}
}

func (c *EntityCommand[T]) newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Register a new %s", c.entity.Name),
		Args:  cobra.NoArgs,
		RunE:  c.runCreate,
	}
	c.flags(cmd)
	return cmd
}

func (c *EntityCommand[T]) newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s; only the given flags change", c.entity.Name),
		Args:  cobra.ExactArgs(1),
		RunE:  c.runUpdate,
	}
	c.flags(cmd)
	return cmd
}

func (c *EntityCommand[T]) newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", c.entity.Name),
		Args:    cobra.ExactArgs(1),
		RunE:    c.runDelete,
	}
	if c.entity.ConfirmDelete {
		cmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")
	}
	return cmd
}

func (c *EntityCommand[T]) runList(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	search, _ := cmd.Flags().GetString("search")
	page, _ := cmd.Flags().GetInt("page")
	all, _ := cmd.Flags().GetBool("all")

	m := c.manager(app)
	if err := m.Load(cmd.Context()); err != nil {
		return err
	}

	m.Search(search)
	m.SetPage(page)
	if page > m.Page() {
		app.Log.Info("page %d is past the end, showing page %d", page, m.Page())
	}

	info := pageInfo(m)
	records := m.Visible()
	if all {
		records = m.Filtered()
		info.Number, info.TotalPages, info.Window = 1, 1, nil
	}
	return c.print(app.Printer, records, info)
}

func (c *EntityCommand[T]) runShow(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	m := c.manager(app)
	if err := m.Load(cmd.Context()); err != nil {
		return err
	}

	record, ok := m.Find(args[0])
	if !ok {
		return fmt.Errorf("%s %s not found", c.entity.Name, args[0])
	}
	return app.Printer.PrintRecord(record)
}

func (c *EntityCommand[T]) runCreate(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	f := form.New[T](c.entity.Name, c.manager(app), nil).WithValidation(c.validate)
	f.Compose()
	return c.submit(cmd, app, f)
}

func (c *EntityCommand[T]) runUpdate(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	id := args[0]
	m := c.manager(app)
	if err := m.Load(cmd.Context()); err != nil {
		return err
	}

	base, ok := m.Find(id)
	if !ok {
		app.Log.Warn("%s %s is not in the collection, sending only the given fields", c.entity.Name, id)
	}

	f := form.New[T](c.entity.Name, m, nil).WithValidation(c.validate)
	f.Edit(id, base)
	return c.submit(cmd, app, f)
}

// submit applies the flags to the form draft and submits it
func (c *EntityCommand[T]) submit(cmd *cobra.Command, app *App, f *form.Form[T]) error {
	draft, err := c.draft(cmd, app, f.Draft())
	if err != nil {
		return err
	}
	f.SetDraft(draft)

	app.Log.Debug("%s: submitting %s", f.Title(), c.entity.Name)
	saved, err := f.Submit(cmd.Context())
	if err != nil {
		return err
	}

	app.Printer.Notice(app.Notifier)
	return app.Printer.PrintRecord(saved)
}

func (c *EntityCommand[T]) runDelete(cmd *cobra.Command, args []string) error {
	app, err := RequireApp(cmd.Context())
	if err != nil {
		return err
	}

	id := args[0]
	m := c.manager(app)

	if c.entity.ConfirmDelete {
		label := id
		if err := m.Load(cmd.Context()); err == nil {
			if record, ok := m.Find(id); ok {
				label = c.label(record)
			}
		}

		yes, _ := cmd.Flags().GetBool("yes")
		confirmed, err := confirm(cmd, yes, fmt.Sprintf("Delete %s %q?", c.entity.Name, label))
		if err != nil {
			return err
		}
		if !confirmed {
			app.Printer.Info("Cancelled")
			return nil
		}
	}

	if err := m.Remove(cmd.Context(), id); err != nil {
		return err
	}
	app.Printer.Notice(app.Notifier)
	return nil
}

// pageInfo describes the manager's current page for the printer
func pageInfo[T any](m *listmgr.Manager[T]) output.Page {
	return output.Page{
		Number:     m.Page(),
		TotalPages: m.TotalPages(),
		Matches:    len(m.Filtered()),
		Search:     m.Term(),
		Window:     m.PageWindow(5),
	}
}

// setString copies a string flag into dst when it was given
func setString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

// setBool copies a bool flag into dst when it was given
func setBool(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetBool(name)
	}
}
