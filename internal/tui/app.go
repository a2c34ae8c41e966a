// Package tui provides the interactive catalog console
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/logger"
	"github.com/medsupply/catadmin/internal/notify"
)

// ViewState represents the current view in the TUI
type ViewState int

const (
	MainMenuView ViewState = iota
	DashboardView
	BrandsView
	CategoriesView
	ProvidersView
	RegistriesView
	ProductsView
	ProductDetailView
)

// screen is one console view. Screens keep their own state behind a
// pointer; the Model only routes messages to the active one.
type screen interface {
	// Open is called every time the view becomes active
	Open() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	Title() string
	Help() string
	// Capturing reports whether keys go to a text input, so that esc and
	// q are not taken as navigation
	Capturing() bool
}

// Model represents the main TUI application state
type Model struct {
	currentView ViewState
	width       int
	height      int

	ctx      context.Context
	catalog  *catalog.Catalog
	notifier *notify.Notifier
	log      *logger.Logger

	// notices tracks the last sequence number seen per notifier so a clear
	// tick is scheduled once per message
	notices []*noticeTracker

	mainMenu *MainMenuModel
	screens  map[ViewState]screen
	detail   *ProductDetailModel
}

// NewModel creates the console over the catalog
func NewModel(ctx context.Context, cat *catalog.Catalog, log *logger.Logger) *Model {
	if log == nil {
		log = logger.Discard()
	}

	dashboard := NewDashboardModel(ctx, cat.Client, log)
	detail := NewProductDetailModel(cat.Notifier())

	m := &Model{
		currentView: MainMenuView,
		ctx:         ctx,
		catalog:     cat,
		notifier:    cat.Notifier(),
		log:         log,
		mainMenu:    NewMainMenuModel(),
		detail:      detail,
		screens: map[ViewState]screen{
			DashboardView:     dashboard,
			BrandsView:        newBrandScreen(ctx, cat),
			CategoriesView:    newCategoryScreen(ctx, cat),
			ProvidersView:     newProviderScreen(ctx, cat),
			RegistriesView:    newRegistryScreen(ctx, cat),
			ProductsView:      NewProductsModel(ctx, cat.Products),
			ProductDetailView: detail,
		},
	}
	m.notices = []*noticeTracker{
		{notifier: cat.Notifier()},
		{notifier: dashboard.Notifier()},
	}
	return m
}

// Init returns initial commands for the application
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, s := range m.screens {
			s.Update(msg)
		}
		return m, nil

	case tea.KeyMsg:
		capturing := m.currentView != MainMenuView && m.screens[m.currentView].Capturing()
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if capturing {
				break
			}
			if m.currentView == MainMenuView {
				return m, tea.Quit
			}
			return m.navigate(MainMenuView)

		case "esc":
			if capturing {
				break
			}
			if m.currentView == ProductDetailView {
				return m.navigate(ProductsView)
			}
			return m.navigate(MainMenuView)
		}

	case NavigateMsg:
		return m.navigate(ViewState(msg))

	case productLoadedMsg:
		m.screens[ProductsView].Update(msg)
		m.detail.SetProduct(msg.product)
		m.currentView = ProductDetailView
		return m, m.trackNotices()

	case clearNoticeMsg:
		msg.notifier.Dismiss(msg.seq)
		return m, nil

	case entityDoneMsg, refsLoadedMsg, productsDoneMsg, amountsMsg:
		// Operations finish on the screen that started them, even after
		// the user navigated away.
		for _, s := range m.screens {
			cmds = append(cmds, s.Update(msg))
		}
		cmds = append(cmds, m.trackNotices())
		return m, tea.Batch(cmds...)
	}

	if m.currentView == MainMenuView {
		var menu tea.Model
		var cmd tea.Cmd
		menu, cmd = m.mainMenu.Update(msg)
		if mm, ok := menu.(MainMenuModel); ok {
			m.mainMenu = &mm
		}
		cmds = append(cmds, cmd)
	} else {
		cmds = append(cmds, m.screens[m.currentView].Update(msg))
	}

	cmds = append(cmds, m.trackNotices())
	return m, tea.Batch(cmds...)
}

func (m Model) navigate(view ViewState) (tea.Model, tea.Cmd) {
	m.log.Debug("navigate from view %d to %d", m.currentView, view)
	m.currentView = view
	if view == MainMenuView {
		return m, nil
	}
	return m, tea.Batch(m.screens[view].Open(), m.trackNotices())
}

// trackNotices schedules a clear for every notifier that raised a new
// message since the last update
func (m Model) trackNotices() tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range m.notices {
		if cmd := t.track(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// View renders the current view
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	if m.currentView == MainMenuView {
		content = m.mainMenu.View()
	} else {
		content = m.screens[m.currentView].View()
	}

	parts := []string{m.headerView(), content}
	if notice := noticeView(m.notifier); notice != "" {
		parts = append(parts, notice)
	}
	parts = append(parts, m.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// headerView renders the application header
func (m Model) headerView() string {
	title := titleStyle.Render("catadmin")

	subtitle := "Main Menu"
	if m.currentView != MainMenuView {
		subtitle = m.screens[m.currentView].Title()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitleStyle.Render(subtitle))
}

// footerView renders the application footer with help
func (m Model) footerView() string {
	help := "↑/↓: navigate • enter: select • q: quit"
	if m.currentView != MainMenuView {
		help = m.screens[m.currentView].Help()
	}
	return helpStyle.Render(help)
}

// noticeView renders the current notification, if any
func noticeView(n *notify.Notifier) string {
	msg, ok := n.Current()
	if !ok {
		return ""
	}
	switch msg.Severity {
	case notify.Success:
		return successStyle.Render("✓ " + msg.Text)
	case notify.Error:
		return errorStyle.Render("✗ " + msg.Text)
	default:
		return infoStyle.Render("ℹ " + msg.Text)
	}
}

type noticeTracker struct {
	notifier *notify.Notifier
	seq      uint64
}

func (t *noticeTracker) track() tea.Cmd {
	seq := t.notifier.Seq()
	if seq == t.seq {
		return nil
	}
	t.seq = seq
	return clearNoticeAfter(t.notifier, seq)
}

func clearNoticeAfter(n *notify.Notifier, seq uint64) tea.Cmd {
	return tea.Tick(n.TTL(), func(time.Time) tea.Msg {
		return clearNoticeMsg{notifier: n, seq: seq}
	})
}

// Custom messages
type NavigateMsg ViewState

// clearNoticeMsg dismisses a notification once its lifetime is over
type clearNoticeMsg struct {
	notifier *notify.Notifier
	seq      uint64
}

// productLoadedMsg opens the detail view for a fetched product
type productLoadedMsg struct {
	product *api.Product
}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
