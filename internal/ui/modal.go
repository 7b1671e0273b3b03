package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lightpanel/internal/device"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// noticeModal is a dismissable message box.
type noticeModal struct {
	title  string
	lines  []string
	danger bool
}

func newRestartNotice(saveErr error) noticeModal {
	m := noticeModal{title: "Settings sent", lines: []string{device.RestartNotice}}
	if saveErr != nil {
		m.title = "Save failed"
		m.lines = append(m.lines, "", truncate(saveErr.Error(), 60))
		m.danger = true
	}
	return m
}

func (m noticeModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}
	switch {
	case key.Matches(km, keys.Quit):
		return m, tea.Quit, true
	case key.Matches(km, keys.Confirm), key.Matches(km, keys.Escape):
		return m, nil, true
	}
	return m, nil, false
}

func (m noticeModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(m.title))
	b.WriteString("\n\n")
	for i, line := range m.lines {
		style := styles.Text
		if m.danger && i > 0 {
			style = styles.DangerText
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("enter to close"))

	border := theme.Accent
	if m.danger {
		border = theme.Danger
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(48).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
