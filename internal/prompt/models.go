package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("12")).Bold(true).Padding(0, 1)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// confirmModel is a yes/no question. The selection starts on the default.
type confirmModel struct {
	title     string
	selection bool
	result    bool
	done      bool
	cancelled bool
}

func newConfirmModel(title string, def bool) *confirmModel {
	return &confirmModel{title: title, selection: def}
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.done, m.cancelled = true, true
		return m, tea.Quit
	case "y", "Y":
		m.result, m.done = true, true
		return m, tea.Quit
	case "n", "N":
		m.result, m.done = false, true
		return m, tea.Quit
	case "enter", " ":
		m.result, m.done = m.selection, true
		return m, tea.Quit
	case "left", "h":
		m.selection = true
	case "right", "l":
		m.selection = false
	case "up", "down", "tab", "shift+tab":
		m.selection = !m.selection
	}
	return m, nil
}

func (m *confirmModel) View() string {
	if m.done {
		return ""
	}
	yes, no := inactiveStyle.Render("Yes"), inactiveStyle.Render("No")
	if m.selection {
		yes = activeStyle.Render("Yes")
	} else {
		no = activeStyle.Render("No")
	}
	return strings.Join([]string{
		titleStyle.Render(m.title),
		yes + "  " + no,
		helpStyle.Render("enter submit • y yes • n no • esc cancel"),
	}, "\n") + "\n"
}

// inputModel is a single-line value prefilled with the default.
type inputModel struct {
	title     string
	input     textinput.Model
	result    string
	done      bool
	cancelled bool
}

func newInputModel(title, def string) *inputModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.SetValue(def)
	ti.CursorEnd()
	return &inputModel{title: title, input: ti}
}

func (m *inputModel) Init() tea.Cmd { return m.input.Focus() }

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.done, m.cancelled = true, true
			return m, tea.Quit
		case "enter":
			m.result = strings.TrimSpace(m.input.Value())
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inputModel) View() string {
	if m.done {
		return ""
	}
	return strings.Join([]string{
		titleStyle.Render(m.title),
		m.input.View(),
		helpStyle.Render("enter submit • esc cancel"),
	}, "\n") + "\n"
}
