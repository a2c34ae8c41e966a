package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuChoice struct {
	label string
	view  ViewState
	quit  bool
}

// MainMenuModel represents the main menu state
type MainMenuModel struct {
	choices []menuChoice
	cursor  int
}

// NewMainMenuModel creates a new main menu model
func NewMainMenuModel() *MainMenuModel {
	return &MainMenuModel{
		choices: []menuChoice{
			{label: "Dashboard", view: DashboardView},
			{label: "Products", view: ProductsView},
			{label: "Brands", view: BrandsView},
			{label: "Categories", view: CategoriesView},
			{label: "Providers", view: ProvidersView},
			{label: "Sanitary Registries", view: RegistriesView},
			{label: "Exit", quit: true},
		},
	}
}

// Init returns the initial command for the main menu
func (m MainMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the main menu
func (m MainMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "enter", " ":
			choice := m.choices[m.cursor]
			if choice.quit {
				return m, tea.Quit
			}
			return m, func() tea.Msg { return NavigateMsg(choice.view) }
		}
	}

	return m, nil
}

// View renders the main menu
func (m MainMenuModel) View() string {
	s := "\nChoose an option:\n\n"

	for i, choice := range m.choices {
		if m.cursor == i {
			s += selectedItemStyle.Render("> " + choice.label)
		} else {
			s += normalItemStyle.Render("  " + choice.label)
		}
		s += "\n"
	}

	return s
}

// Styles for lists and menus
var (
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	noItemsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)
