package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type RGB [3]uint8

// Panel accents. Nav and Chain are the two fixed accent colors used
// for the system button and chain buttons; the Role* colors back the
// module role table in the layout engine.
var (
	Nav   = RGB{0x20, 0x60, 0xa0} // system navigation (accent A)
	Chain = RGB{0x60, 0x30, 0x80} // chain buttons and headers (accent B)

	RoleSource  = RGB{0x10, 0x28, 0x60} // dark blue
	RoleProc    = RGB{0x70, 0x40, 0x08} // dark orange
	RoleDest    = RGB{0x10, 0x50, 0x20} // dark green
	RoleNeutral = RGB{0x38, 0x38, 0x38} // anything else

	Text    = RGB{0xf0, 0xf0, 0xf0}
	Overlay = RGB{0xc0, 0xc0, 0x60}
	Off     = RGB{0x00, 0x00, 0x00}
)

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

func (c RGB) Lipgloss() lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
