package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CountPrompt asks for the number of rows to select
type CountPrompt struct {
	visible bool
	input   textinput.Model
}

// NewCountPrompt creates a hidden prompt
func NewCountPrompt() CountPrompt {
	ti := textinput.New()
	ti.Placeholder = "e.g. 25"
	ti.CharLimit = 6
	ti.Width = 12
	ti.Prompt = "> "
	ti.TextStyle = lipgloss.NewStyle().Foreground(White)
	ti.PlaceholderStyle = DimStyle
	ti.Validate = func(s string) error {
		if strings.Trim(s, "0123456789") != "" {
			return fmt.Errorf("digits only")
		}
		return nil
	}

	return CountPrompt{input: ti}
}

// Show displays the prompt with an empty input
func (p *CountPrompt) Show() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

// Hide dismisses the prompt
func (p *CountPrompt) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible returns whether the prompt is shown
func (p CountPrompt) IsVisible() bool {
	return p.visible
}

// Count parses the entered number. An empty input counts as zero.
func (p CountPrompt) Count() (int, error) {
	v := strings.TrimSpace(p.input.Value())
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid row count %q", v)
	}
	return n, nil
}

// Update handles input events, returns (prompt, cmd, submitted)
func (p CountPrompt) Update(msg tea.Msg) (CountPrompt, tea.Cmd, bool) {
	if !p.visible {
		return p, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return p, nil, true
		case "esc":
			p.Hide()
			return p, nil, false
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

// View renders the prompt
func (p CountPrompt) View() string {
	if !p.visible {
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(White).Bold(true).Render("Select number of rows"),
		DimStyle.Render("starting at the current page"),
		"",
		p.input.View(),
		"",
		DimStyle.Render("enter confirm · esc cancel"),
	)
	return ModalStyle.Render(content)
}
