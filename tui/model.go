// Package tui is the display renderer: it consumes read-only snapshots
// of the parameter store and, when running against a simulated knob,
// feeds key presses back into the encoder and button.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/valivia/staas/button"
	"github.com/valivia/staas/device"
	"github.com/valivia/staas/encoder"
	"github.com/valivia/staas/theme"
)

const barWidth = 32

type Model struct {
	rt       *device.Runtime
	knob     *encoder.PulseCounter // nil when driven by real hardware
	btn      *button.SimLine       // nil when driven by real hardware
	linkName string
	quitting bool
	onQuit   func()
}

type UpdateMsg struct{}

func NewModel(rt *device.Runtime, knob *encoder.PulseCounter, btn *button.SimLine, linkName string, onQuit func()) Model {
	return Model{rt: rt, knob: knob, btn: btn, linkName: linkName, onQuit: onQuit}
}

func ListenForUpdates(rt *device.Runtime) tea.Cmd {
	return func() tea.Msg {
		<-rt.Updates()
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.rt)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit

		case "up", "k", "right", "l":
			m.turn(1)
		case "down", "j", "left", "h":
			m.turn(-1)
		case "K", "L":
			m.turn(5)
		case "J", "H":
			m.turn(-5)

		case " ", "enter", "tab":
			if m.btn != nil {
				m.btn.Press()
			}
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.rt)
	}

	return m, nil
}

func (m Model) turn(steps int16) {
	if m.knob != nil {
		m.knob.Add(steps)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.rt.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(theme.Muted())
	nameStyle := lipgloss.NewStyle().Foreground(theme.FG())
	selStyle := lipgloss.NewStyle().Foreground(theme.Accent()).Bold(true)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("staas  link:%s", m.linkName)))
	out.WriteString("\n\n")

	for i, p := range snap.Params {
		cursor := "  "
		style := nameStyle
		if i == snap.Selected {
			cursor = "> "
			style = selStyle
		}
		out.WriteString(style.Render(fmt.Sprintf("%s%-10s %s", cursor, p.Name, p.Human())))
		out.WriteString("\n")
		out.WriteString("  ")
		out.WriteString(bar(p.Min, p.Max, p.Value))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("j/k:turn  J/K:turn x5  space:select  q:quit"))
	return out.String()
}

// bar renders the value as a filled gauge colored by its level.
func bar(min, max, value uint8) string {
	span := int(max) - int(min)
	filled := 0
	norm := 0.0
	if span > 0 {
		filled = (int(value) - int(min)) * barWidth / span
		norm = float64(value-min) / float64(span)
	}
	fill := lipgloss.NewStyle().Foreground(theme.Color(theme.RoleAccent + norm*(theme.RoleLevel-theme.RoleAccent)))
	empty := lipgloss.NewStyle().Foreground(theme.Muted())
	return fill.Render(strings.Repeat("█", filled)) + empty.Render(strings.Repeat("░", barWidth-filled))
}
