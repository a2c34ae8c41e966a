package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/output"
)

// ProductsModel shows the random selection or server-side search results
// and opens a product detail
type ProductsModel struct {
	ctx      context.Context
	products *catalog.Products

	query     textinput.Model
	searching bool
	busy      bool
	loaded    bool
	cursor    int
}

// productsDoneMsg reports the end of a search, random or get request
type productsDoneMsg struct {
	err error
}

// NewProductsModel creates the product search screen
func NewProductsModel(ctx context.Context, products *catalog.Products) *ProductsModel {
	query := textinput.New()
	query.Prompt = "Search: "
	query.Placeholder = "generic or commercial name"
	query.CharLimit = 100
	query.Width = 40

	return &ProductsModel{ctx: ctx, products: products, query: query}
}

func (m *ProductsModel) Title() string { return "Products" }

func (m *ProductsModel) Help() string {
	if m.searching {
		return "enter: search • esc: cancel"
	}
	return "↑/↓: navigate • ←/→: page • enter: details • /: search • r: random • esc: back"
}

func (m *ProductsModel) Capturing() bool { return m.searching }

// Open shows the random selection the first time
func (m *ProductsModel) Open() tea.Cmd {
	if m.loaded {
		return nil
	}
	return m.random()
}

func (m *ProductsModel) random() tea.Cmd {
	m.busy = true
	m.query.SetValue("")
	products, ctx := m.products, m.ctx
	return func() tea.Msg {
		return productsDoneMsg{err: products.Random(ctx)}
	}
}

func (m *ProductsModel) search(q string) tea.Cmd {
	m.busy = true
	products, ctx := m.products, m.ctx
	return func() tea.Msg {
		return productsDoneMsg{err: products.Search(ctx, q)}
	}
}

// open fetches the full product and hands it to the detail view
func (m *ProductsModel) open(id string) tea.Cmd {
	m.busy = true
	products, ctx := m.products, m.ctx
	return func() tea.Msg {
		p, err := products.Get(ctx, id)
		if err != nil {
			return productsDoneMsg{err: err}
		}
		return productLoadedMsg{product: p}
	}
}

// Update handles messages for the product screen
func (m *ProductsModel) Update(msg tea.Msg) tea.Cmd {
	results := m.products.Results

	switch msg := msg.(type) {
	case productsDoneMsg:
		m.busy = false
		if msg.err == nil {
			m.loaded = true
			m.cursor = 0
		}
		return nil

	case productLoadedMsg:
		m.busy = false
		return nil

	case tea.KeyMsg:
		if m.busy {
			return nil
		}
		if m.searching {
			switch msg.String() {
			case "enter":
				m.searching = false
				m.query.Blur()
				q := strings.TrimSpace(m.query.Value())
				if q == "" {
					return m.random()
				}
				return m.search(q)
			case "esc":
				m.searching = false
				m.query.Blur()
				m.query.SetValue(m.products.Query())
				return nil
			}
			var cmd tea.Cmd
			m.query, cmd = m.query.Update(msg)
			return cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(results.Visible())-1 {
				m.cursor++
			}
		case "left", "h":
			results.SetPage(results.Page() - 1)
			m.cursor = 0
		case "right", "l":
			results.SetPage(results.Page() + 1)
			m.cursor = 0
		case "/":
			m.searching = true
			return m.query.Focus()
		case "r":
			return m.random()
		case "enter":
			visible := results.Visible()
			if m.cursor < len(visible) {
				return m.open(visible[m.cursor].ID)
			}
		}
	}
	return nil
}

// View renders the result list
func (m *ProductsModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n")

	if m.searching || m.products.Query() != "" {
		sb.WriteString(m.query.View() + "\n\n")
	}
	if m.busy {
		sb.WriteString("Loading products...\n")
		return sb.String()
	}

	results := m.products.Results
	visible := results.Visible()
	if len(visible) == 0 {
		if q := m.products.Query(); q != "" {
			sb.WriteString(noItemsStyle.Render(fmt.Sprintf("No products match %q.", q)))
		} else {
			sb.WriteString(noItemsStyle.Render("No products to show.\n\nPress '/' to search"))
		}
		return sb.String() + "\n"
	}

	header := pad("NAME", 32) + " " + pad("BRAND", 18) + " " + pad("CATEGORY", 18) + " " + pad("STATUS", 8)
	sb.WriteString("  " + headerRowStyle.Render(header) + "\n")
	for i, p := range visible {
		line := pad(productName(p), 32) + " " +
			pad(refLabel(p.Brand), 18) + " " +
			pad(refLabel(p.Category), 18) + " " +
			pad(activeLabel(bool(p.Status)), 8)
		if i == m.cursor {
			sb.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			sb.WriteString(normalItemStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + labelStyle.Render(fmt.Sprintf("%s  (%d products)",
		output.PageBar(results.PageWindow(5), results.Page(), results.TotalPages()),
		len(results.Filtered()))) + "\n")
	return sb.String()
}

func productName(p api.Product) string {
	if p.CommercialName != "" && !strings.EqualFold(p.CommercialName, p.GenericName) {
		return catalog.Capitalize(p.GenericName) + " (" + catalog.Capitalize(p.CommercialName) + ")"
	}
	return catalog.Capitalize(p.GenericName)
}

func refLabel(r *api.Ref) string {
	if r == nil || r.Name == "" {
		return "-"
	}
	return catalog.Capitalize(r.Name)
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
