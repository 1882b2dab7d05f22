package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studytutor/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are full labels such as
// "A) Paris"; the first character is the option letter.
type MultiChoice struct {
	Question    string
	Options     []string
	Selected    int
	ChosenIndex int
	Locked      bool
}

// NewMultiChoice creates a new multiple-choice component with nothing chosen.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question:    question,
		Options:     options,
		ChosenIndex: -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Choosing again replaces
// the previous choice until the component is locked.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", "space", " ":
		m.ChosenIndex = m.Selected
	case "a", "b", "c", "d":
		idx := int(key[0] - 'a')
		if idx < len(m.Options) {
			m.Selected = idx
			m.ChosenIndex = idx
		}
	}

	return m, nil
}

// Chosen returns the chosen option label, or "".
func (m MultiChoice) Chosen() string {
	if m.ChosenIndex < 0 || m.ChosenIndex >= len(m.Options) {
		return ""
	}
	return m.Options[m.ChosenIndex]
}

// View renders the question and its options.
func (m MultiChoice) View(focused bool) string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n"

	for i, opt := range m.Options {
		prefix := "  "
		if focused && i == m.Selected && !m.Locked {
			prefix = "▸ "
		}
		mark := "( ) "
		if i == m.ChosenIndex {
			mark = "(•) "
		}
		line := prefix + mark + opt

		switch {
		case focused && i == m.Selected && !m.Locked:
			s += theme.Selected.Render(line) + "\n"
		case i == m.ChosenIndex:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}
