package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chainpad/layout"
	"chainpad/theme"
	"chainpad/widgets"
)

// Status is one snapshot of the controller's state for display.
type Status struct {
	DeviceName string
	ViewName   string
	ChainName  string
	Slots      []layout.Slot
	LastEvent  string
}

// Source feeds the mirror. The controller implements it.
type Source interface {
	Status() Status
	Updates() <-chan struct{}
}

type Model struct {
	src      Source
	status   Status
	quitting bool
}

type UpdateMsg struct{}

func NewModel(src Source) Model {
	return Model{src: src, status: src.Status()}
}

func ListenForUpdates(src Source) tea.Cmd {
	return func() tea.Msg {
		<-src.Updates()
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.src)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case UpdateMsg:
		m.status = m.src.Status()
		return m, ListenForUpdates(m.src)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(theme.Nav.Lipgloss())
	dimStyle := lipgloss.NewStyle().Foreground(theme.RoleNeutral.Lipgloss())

	title := fmt.Sprintf("chainpad  %s  view:%s", m.status.DeviceName, m.status.ViewName)
	if m.status.ChainName != "" {
		title += "  chain:" + m.status.ChainName
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(title))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderDeckGrid(m.status.Slots))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderSlotLegend(m.status.Slots))
	out.WriteString("\n\n")
	if m.status.LastEvent != "" {
		out.WriteString(dimStyle.Render("last: " + m.status.LastEvent))
		out.WriteString("\n")
	}
	out.WriteString(dimStyle.Render("q:quit"))
	return out.String()
}
