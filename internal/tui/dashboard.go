package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/logger"
	"github.com/medsupply/catadmin/internal/notify"
)

// DashboardModel shows how many records each collection holds
type DashboardModel struct {
	ctx      context.Context
	client   *api.Client
	log      *logger.Logger
	notifier *notify.Notifier

	amounts catalog.Amounts
	loaded  bool
	busy    bool
}

// amountsMsg carries the result of a dashboard refresh
type amountsMsg struct {
	amounts catalog.Amounts
	err     error
}

// NewDashboardModel creates the dashboard. It has its own notifier because
// its messages stay up longer than the other screens'.
func NewDashboardModel(ctx context.Context, client *api.Client, log *logger.Logger) *DashboardModel {
	return &DashboardModel{
		ctx:      ctx,
		client:   client,
		log:      log,
		notifier: notify.New(catalog.DashboardTTL),
	}
}

// Notifier returns the dashboard's notifier
func (m *DashboardModel) Notifier() *notify.Notifier {
	return m.notifier
}

func (m *DashboardModel) Title() string { return "Dashboard" }

func (m *DashboardModel) Help() string { return "r: refresh • esc: back" }

func (m *DashboardModel) Capturing() bool { return false }

// Open refreshes the counters every time the dashboard is shown
func (m *DashboardModel) Open() tea.Cmd {
	return m.refresh()
}

func (m *DashboardModel) refresh() tea.Cmd {
	m.busy = true
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		amounts, err := catalog.FetchAmounts(ctx, client)
		return amountsMsg{amounts: amounts, err: err}
	}
}

// Update handles messages for the dashboard
func (m *DashboardModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case amountsMsg:
		m.busy = false
		if msg.err != nil {
			m.log.Warn("dashboard refresh failed: %v", msg.err)
			m.notifier.Error("could not load the dashboard: %s", api.Message(msg.err))
			return nil
		}
		m.amounts = msg.amounts
		m.loaded = true

	case tea.KeyMsg:
		if msg.String() == "r" && !m.busy {
			return m.refresh()
		}
	}
	return nil
}

// View renders one card per collection
func (m *DashboardModel) View() string {
	var body string
	switch {
	case !m.loaded && m.busy:
		body = "Loading dashboard..."
	case !m.loaded:
		body = noItemsStyle.Render("No data. Press 'r' to retry")
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			card("Products", m.amounts.Products),
			card("Brands", m.amounts.Brands),
			card("Providers", m.amounts.Providers),
			card("Categories", m.amounts.Categories),
			card("Registries", m.amounts.Registries),
		)
	}

	if notice := noticeView(m.notifier); notice != "" {
		body += "\n\n" + notice
	}
	return "\n" + body + "\n"
}

func card(label string, n int) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		cardValueStyle.Render(fmt.Sprintf("%d", n)),
		labelStyle.Render(label),
	))
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2).
			MarginRight(1).
			Width(16).
			Align(lipgloss.Center)

	cardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
)
