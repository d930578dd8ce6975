package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chainpad/layout"
	"chainpad/theme"
)

const gridCols = 8

// RenderButton renders a single colored button cell.
func RenderButton(c theme.RGB) string {
	style := lipgloss.NewStyle().Foreground(c.Lipgloss())
	return style.Render("■")
}

// RenderDeckGrid renders the 32 button faces as a 4x8 grid, top row
// first. Unbound indices show as off.
func RenderDeckGrid(slots []layout.Slot) string {
	byIndex := make(map[int]layout.Slot, len(slots))
	for _, s := range slots {
		byIndex[s.Index] = s
	}

	var lines []string
	for row := 0; row < layout.ButtonCount/gridCols; row++ {
		var line strings.Builder
		for col := 0; col < gridCols; col++ {
			c := theme.Off
			if s, ok := byIndex[row*gridCols+col]; ok {
				c = s.Color
			}
			line.WriteString(RenderButton(c))
			line.WriteString(" ")
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderSlotLegend lists the bound slots: "  2 ■ Synth A [5]".
func RenderSlotLegend(slots []layout.Slot) string {
	var lines []string
	for _, s := range slots {
		label := s.Text
		if s.Overlay != "" {
			label = fmt.Sprintf("%s [%s]", label, s.Overlay)
		}
		lines = append(lines, fmt.Sprintf(" %2d %s %s", s.Index, RenderButton(s.Color), label))
	}
	return strings.Join(lines, "\n")
}
