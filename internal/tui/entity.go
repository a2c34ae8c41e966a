package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/form"
	"github.com/medsupply/catadmin/internal/listmgr"
	"github.com/medsupply/catadmin/internal/notify"
	"github.com/medsupply/catadmin/internal/output"
	"github.com/medsupply/catadmin/internal/picker"
)

type entityMode int

const (
	modeList entityMode = iota
	modeSearch
	modeForm
	modeConfirm
)

// column is one table column of an entity list
type column[T any] struct {
	title string
	width int
	value func(T) string
}

// field is one text input of an entity form. set runs off the UI
// goroutine, so it may read files.
type field[T any] struct {
	label       string
	placeholder string
	get         func(T) string
	set         func(ctx context.Context, record *T, value string) error
}

// refsField is a multi-select association edited with a picker
type refsField[T any] struct {
	label      string
	load       func(context.Context) error
	candidates func() []api.Ref
	get        func(T) []api.Ref
	set        func(*T, []api.Ref)
}

// entityConfig describes one catalog collection for the generic screen
type entityConfig[T any] struct {
	entity   catalog.Entity
	manager  *listmgr.Manager[T]
	notifier *notify.Notifier
	id       func(T) string
	label    func(T) string
	columns  []column[T]
	fields   []field[T]
	refs     *refsField[T]
	validate func(T) error
}

// EntityModel is the list, search box, page controls and form for one
// catalog collection
type EntityModel[T any] struct {
	ctx context.Context
	cfg entityConfig[T]

	mode    entityMode
	cursor  int
	busy    string
	loaded  bool
	pending string // id awaiting delete confirmation

	search textinput.Model

	form    *form.Form[T]
	inputs  []textinput.Model
	focused int
	picker  *picker.Picker
	filter  textinput.Model
	pick    int
}

// entityDoneMsg reports the end of an asynchronous manager operation
type entityDoneMsg struct {
	entity string
	op     string
	err    error
	// draft is the record a save sent
	draft  interface{}
}

// refsLoadedMsg reports that the picker candidates are available
type refsLoadedMsg struct {
	entity string
	err    error
}

func newEntityModel[T any](ctx context.Context, cfg entityConfig[T]) *EntityModel[T] {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "type to filter"
	search.CharLimit = 100
	search.Width = 40

	filter := textinput.New()
	filter.CharLimit = 100
	filter.Width = 40
	filter.Placeholder = "type to filter, enter to add"

	return &EntityModel[T]{
		ctx:    ctx,
		cfg:    cfg,
		search: search,
		filter: filter,
		form:   form.New[T](cfg.entity.Name, cfg.manager, nil).WithValidation(cfg.validate),
	}
}

// Title names the collection
func (m *EntityModel[T]) Title() string {
	if m.mode == modeForm {
		return m.form.Title()
	}
	return catalog.Capitalize(m.cfg.entity.Plural)
}

// Help lists the keys of the current mode
func (m *EntityModel[T]) Help() string {
	switch m.mode {
	case modeSearch:
		return "type to filter • enter/esc: done"
	case modeForm:
		if m.focusedOnRefs() {
			return "tab: next field • ↑/↓: choose • enter: add • ctrl+x: remove last • ctrl+s: " + strings.ToLower(m.form.SubmitLabel()) + " • esc: cancel"
		}
		return "tab: next field • enter/ctrl+s: " + strings.ToLower(m.form.SubmitLabel()) + " • esc: cancel"
	case modeConfirm:
		return "y: delete • n/esc: keep"
	default:
		return "↑/↓: navigate • ←/→: page • /: search • n: new • e: edit • d: delete • r: reload • esc: back"
	}
}

// Capturing reports whether a text input has the keyboard
func (m *EntityModel[T]) Capturing() bool {
	return m.mode != modeList
}

// Open loads the collection the first time the screen is shown
func (m *EntityModel[T]) Open() tea.Cmd {
	m.mode = modeList
	m.search.Blur()
	if m.loaded {
		return nil
	}
	return m.run("load", func(ctx context.Context) error {
		return m.cfg.manager.Load(ctx)
	})
}

// run executes op off the UI goroutine
func (m *EntityModel[T]) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.busy = op
	name := m.cfg.entity.Name
	ctx := m.ctx
	return func() tea.Msg {
		return entityDoneMsg{entity: name, op: op, err: fn(ctx)}
	}
}

// Update handles messages for the entity screen
func (m *EntityModel[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case entityDoneMsg:
		if msg.entity != m.cfg.entity.Name {
			return nil
		}
		return m.done(msg)

	case refsLoadedMsg:
		if msg.entity != m.cfg.entity.Name {
			return nil
		}
		m.busy = ""
		if msg.err != nil {
			m.cancelForm()
			return nil
		}
		m.picker = picker.New(m.cfg.refs.candidates(), m.cfg.refs.get(m.form.Draft())...)
		return nil

	case tea.KeyMsg:
		if m.busy != "" {
			return nil
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return nil
}

func (m *EntityModel[T]) done(msg entityDoneMsg) tea.Cmd {
	m.busy = ""
	switch msg.op {
	case "load":
		if msg.err == nil {
			m.loaded = true
		}
	case "save":
		if msg.err != nil {
			if draft, ok := msg.draft.(T); ok {
				m.form.SetDraft(draft)
			}
			break
		}
		m.form.Cancel()
		m.mode = modeList
		m.inputs = nil
		m.picker = nil
	}
	m.clampCursor()
	return nil
}

func (m *EntityModel[T]) updateList(msg tea.KeyMsg) tea.Cmd {
	mgr := m.cfg.manager
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(mgr.Visible())-1 {
			m.cursor++
		}
	case "left", "h", "pgup":
		mgr.SetPage(mgr.Page() - 1)
		m.cursor = 0
	case "right", "l", "pgdown":
		mgr.SetPage(mgr.Page() + 1)
		m.cursor = 0
	case "home":
		mgr.SetPage(1)
		m.cursor = 0
	case "end":
		mgr.SetPage(mgr.TotalPages())
		m.cursor = 0
	case "/":
		m.mode = modeSearch
		return m.search.Focus()
	case "r":
		return m.run("load", func(ctx context.Context) error {
			return mgr.Load(ctx)
		})
	case "n":
		m.form.Compose()
		return m.openForm()
	case "e", "enter":
		if record, ok := m.selected(); ok {
			m.form.Edit(m.cfg.id(record), record)
			return m.openForm()
		}
	case "d", "delete":
		record, ok := m.selected()
		if !ok {
			return nil
		}
		m.pending = m.cfg.id(record)
		if m.cfg.entity.ConfirmDelete {
			m.mode = modeConfirm
			return nil
		}
		return m.remove()
	}
	return nil
}

func (m *EntityModel[T]) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeList
		m.search.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.cfg.manager.Term() {
		m.cfg.manager.Search(m.search.Value())
		m.cursor = 0
	}
	return cmd
}

func (m *EntityModel[T]) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "s", "S":
		m.mode = modeList
		return m.remove()
	case "n", "N", "esc":
		m.mode = modeList
		m.pending = ""
	}
	return nil
}

func (m *EntityModel[T]) remove() tea.Cmd {
	id := m.pending
	m.pending = ""
	return m.run("delete", func(ctx context.Context) error {
		return m.cfg.manager.Remove(ctx, id)
	})
}

func (m *EntityModel[T]) selected() (T, bool) {
	visible := m.cfg.manager.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		var zero T
		return zero, false
	}
	return visible[m.cursor], true
}

func (m *EntityModel[T]) clampCursor() {
	if n := len(m.cfg.manager.Visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// openForm builds the inputs from the form draft and loads the picker
// candidates when the entity has an association
func (m *EntityModel[T]) openForm() tea.Cmd {
	m.mode = modeForm
	m.focused = 0
	m.picker = nil
	m.pick = 0
	m.filter.SetValue("")
	m.filter.Blur()

	draft := m.form.Draft()
	m.inputs = make([]textinput.Model, len(m.cfg.fields))
	for i, f := range m.cfg.fields {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-14s", f.label+":")
		in.Placeholder = f.placeholder
		in.CharLimit = 200
		in.Width = 50
		in.SetValue(f.get(draft))
		m.inputs[i] = in
	}

	cmds := []tea.Cmd{m.focusInput()}
	if refs := m.cfg.refs; refs != nil {
		m.busy = "refs"
		name := m.cfg.entity.Name
		ctx := m.ctx
		cmds = append(cmds, func() tea.Msg {
			return refsLoadedMsg{entity: name, err: refs.load(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

func (m *EntityModel[T]) fieldCount() int {
	if m.cfg.refs != nil {
		return len(m.inputs) + 1
	}
	return len(m.inputs)
}

func (m *EntityModel[T]) focusedOnRefs() bool {
	return m.cfg.refs != nil && m.focused == len(m.inputs)
}

func (m *EntityModel[T]) focusInput() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.filter.Blur()
	if m.focusedOnRefs() {
		return m.filter.Focus()
	}
	if m.focused < len(m.inputs) {
		return m.inputs[m.focused].Focus()
	}
	return nil
}

func (m *EntityModel[T]) cancelForm() {
	m.form.Cancel()
	m.mode = modeList
	m.inputs = nil
	m.picker = nil
}

func (m *EntityModel[T]) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.cancelForm()
		return nil

	case "tab", "shift+tab":
		if msg.String() == "tab" {
			m.focused = (m.focused + 1) % m.fieldCount()
		} else {
			m.focused = (m.focused - 1 + m.fieldCount()) % m.fieldCount()
		}
		return m.focusInput()

	case "ctrl+s":
		return m.submit()
	}

	if m.focusedOnRefs() {
		return m.updatePicker(msg)
	}

	switch msg.String() {
	case "up", "down":
		if msg.String() == "up" {
			m.focused = (m.focused - 1 + m.fieldCount()) % m.fieldCount()
		} else {
			m.focused = (m.focused + 1) % m.fieldCount()
		}
		return m.focusInput()
	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return cmd
}

func (m *EntityModel[T]) updatePicker(msg tea.KeyMsg) tea.Cmd {
	if m.picker == nil {
		return nil
	}
	candidates := m.picker.Candidates()

	switch msg.String() {
	case "up":
		if m.pick > 0 {
			m.pick--
		}
		return nil
	case "down":
		if m.pick < len(candidates)-1 {
			m.pick++
		}
		return nil
	case "enter":
		if m.pick < len(candidates) {
			m.picker.Select(candidates[m.pick])
			m.filter.SetValue("")
			m.pick = 0
		}
		return nil
	case "ctrl+x":
		if selected := m.picker.Selected(); len(selected) > 0 {
			m.picker.Remove(selected[len(selected)-1].ID)
		}
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.picker.Filter(m.filter.Value())
	m.pick = 0
	return cmd
}

// submit sends the inputs as a draft. The form is snapshotted here and
// only read back in done, so its state never changes off the UI goroutine.
func (m *EntityModel[T]) submit() tea.Cmd {
	values := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		values[i] = in.Value()
	}
	var refs []api.Ref
	picked := m.picker != nil
	if picked {
		refs = m.picker.Selected()
	}

	f := m.form
	req := f.Request()
	cfg := m.cfg
	name := cfg.entity.Name
	ctx := m.ctx
	m.busy = "save"
	return func() tea.Msg {
		draft := req.Draft
		for i, fl := range cfg.fields {
			if err := fl.set(ctx, &draft, values[i]); err != nil {
				cfg.notifier.Error("%s: %v", fl.label, err)
				return entityDoneMsg{entity: name, op: "save", err: err, draft: draft}
			}
		}
		if cfg.refs != nil && picked {
			cfg.refs.set(&draft, refs)
		}
		req.Draft = draft

		_, err := f.Send(ctx, req)
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			cfg.notifier.Error("%s", verr.Error())
		}
		return entityDoneMsg{entity: name, op: "save", err: err, draft: draft}
	}
}

// View renders the screen for the current mode
func (m *EntityModel[T]) View() string {
	if m.busy == "load" {
		return fmt.Sprintf("\nLoading %s...\n", m.cfg.entity.Plural)
	}
	switch m.mode {
	case modeForm:
		return m.formView()
	case modeConfirm:
		return m.listView() + "\n" + errorStyle.Render(fmt.Sprintf("Delete %s %q? (y/n)", m.cfg.entity.Name, m.pendingLabel()))
	default:
		return m.listView()
	}
}

func (m *EntityModel[T]) pendingLabel() string {
	if record, ok := m.cfg.manager.Find(m.pending); ok {
		return m.cfg.label(record)
	}
	return m.pending
}

func (m *EntityModel[T]) listView() string {
	mgr := m.cfg.manager
	var sb strings.Builder
	sb.WriteString("\n")

	if m.mode == modeSearch || mgr.Term() != "" {
		sb.WriteString(m.search.View() + "\n\n")
	}

	visible := mgr.Visible()
	if len(visible) == 0 {
		if mgr.Term() != "" {
			sb.WriteString(noItemsStyle.Render(fmt.Sprintf("No %s match %q.", m.cfg.entity.Plural, mgr.Term())))
		} else {
			sb.WriteString(noItemsStyle.Render(fmt.Sprintf("No %s found.\n\nPress 'n' to create one", m.cfg.entity.Plural)))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	header := make([]string, len(m.cfg.columns))
	for i, c := range m.cfg.columns {
		header[i] = pad(c.title, c.width)
	}
	sb.WriteString("  " + headerRowStyle.Render(strings.Join(header, " ")) + "\n")

	for i, record := range visible {
		cells := make([]string, len(m.cfg.columns))
		for j, c := range m.cfg.columns {
			cells[j] = pad(c.value(record), c.width)
		}
		line := strings.Join(cells, " ")
		if i == m.cursor {
			sb.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			sb.WriteString(normalItemStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + labelStyle.Render(fmt.Sprintf("%s  (%d %s)",
		output.PageBar(mgr.PageWindow(5), mgr.Page(), mgr.TotalPages()),
		len(mgr.Filtered()), m.cfg.entity.Plural)) + "\n")
	return sb.String()
}

func (m *EntityModel[T]) formView() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for _, in := range m.inputs {
		sb.WriteString(in.View() + "\n")
	}

	if refs := m.cfg.refs; refs != nil {
		sb.WriteString("\n" + labelStyle.Render(refs.label+":") + " ")
		switch {
		case m.picker == nil:
			sb.WriteString(noItemsStyle.Render("loading..."))
		case len(m.picker.Selected()) == 0:
			sb.WriteString(noItemsStyle.Render("none"))
		default:
			names := make([]string, 0, len(m.picker.Selected()))
			for _, r := range m.picker.Selected() {
				names = append(names, catalog.Capitalize(r.Name))
			}
			sb.WriteString(strings.Join(names, ", "))
		}
		sb.WriteString("\n")

		if m.focusedOnRefs() && m.picker != nil {
			sb.WriteString(m.filter.View() + "\n")
			candidates := m.picker.Candidates()
			for i, c := range candidates {
				if i >= 6 {
					sb.WriteString(noItemsStyle.Render(fmt.Sprintf("  ... %d more", len(candidates)-i)) + "\n")
					break
				}
				if i == m.pick {
					sb.WriteString(selectedItemStyle.Render("> "+catalog.Capitalize(c.Name)) + "\n")
				} else {
					sb.WriteString(normalItemStyle.Render("  "+catalog.Capitalize(c.Name)) + "\n")
				}
			}
		}
	}

	if m.busy == "save" {
		sb.WriteString("\nSaving...\n")
	}
	return sb.String()
}

// pad clips or pads s to exactly width runes
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
