package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/notify"
	"github.com/medsupply/catadmin/internal/output"
)

// ProductDetailModel shows one product in a scrollable viewport. Long
// texts are cut until the user expands them.
type ProductDetailModel struct {
	notifier *notify.Notifier
	product  *api.Product
	expand   bool
	failed   bool

	viewport viewport.Model
}

// NewProductDetailModel creates the product detail view
func NewProductDetailModel(notifier *notify.Notifier) *ProductDetailModel {
	return &ProductDetailModel{
		notifier: notifier,
		viewport: viewport.New(80, 20),
	}
}

// SetProduct replaces the shown product and collapses the long texts
func (m *ProductDetailModel) SetProduct(p *api.Product) {
	m.product = p
	m.expand = false
	m.render()
}

// render writes the product into the viewport. A rendering failure is
// contained to this view.
func (m *ProductDetailModel) render() {
	var sb strings.Builder
	err := output.WriteProduct(&sb, m.product, m.expand)
	m.failed = err != nil
	if err != nil {
		msg := err.Error()
		if errors.Is(err, output.ErrRender) {
			msg = output.ErrRender.Error()
		}
		m.notifier.Error("%s", msg)
		m.viewport.SetContent(errorStyle.Render(msg))
		return
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoTop()
}

func (m *ProductDetailModel) Title() string {
	if m.product == nil || m.failed {
		return "Product"
	}
	return "Product " + m.product.ID
}

func (m *ProductDetailModel) Help() string {
	if m.expand {
		return "↑/↓: scroll • e: collapse • esc: back to results"
	}
	return "↑/↓: scroll • e: show full texts • esc: back to results"
}

func (m *ProductDetailModel) Capturing() bool { return false }

func (m *ProductDetailModel) Open() tea.Cmd { return nil }

// Update handles messages for the detail view
func (m *ProductDetailModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		// header, notice and footer lines
		if h := msg.Height - 6; h > 3 {
			m.viewport.Height = h
		}
		return nil

	case tea.KeyMsg:
		if msg.String() == "e" && m.product != nil {
			m.expand = !m.expand
			m.render()
			return nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// View renders the detail
func (m *ProductDetailModel) View() string {
	if m.product == nil {
		return noItemsStyle.Render("\nNo product selected.")
	}
	return "\n" + m.viewport.View()
}
