package layout

import (
	"strconv"

	"chainpad/catalog"
	"chainpad/theme"
)

// Deck geometry. Indices 0 and 1 are reserved (system nav and, in
// chain view, the chain header), leaving 30 content slots.
const (
	ButtonCount  = 32
	ContentStart = 2
	ContentSlots = ButtonCount - ContentStart
)

type SlotKind int

const (
	SystemNav SlotKind = iota
	ChainHeader
	ModuleEntry
)

// Slot is the render spec for one button face. It is pure data; the
// navigation session attaches actions per index after layout.
type Slot struct {
	Index   int
	Text    string
	Kind    SlotKind
	Color   theme.RGB
	Overlay string
}

const navLabel = "Show Chains"

// CatalogView lays out the chain list: slot 0 is the system nav
// button, slots 2.. hold chains in catalog order. Chains beyond the
// content capacity are dropped.
func CatalogView(c *catalog.Catalog) []Slot {
	slots := []Slot{navSlot()}
	for i := range c.Chains {
		if i >= ContentSlots {
			break
		}
		ch := &c.Chains[i]
		slots = append(slots, Slot{
			Index:   ContentStart + i,
			Text:    ch.Name,
			Kind:    ChainHeader,
			Color:   theme.Chain,
			Overlay: midiOverlay(ch.MIDIChannel),
		})
	}
	return slots
}

// ChainView lays out one chain: slot 0 system nav, slot 1 the chain
// header, slots 2.. the chain's modules in order, truncated the same
// way as the catalog view.
func ChainView(ch *catalog.Chain) []Slot {
	slots := []Slot{
		navSlot(),
		{
			Index:   1,
			Text:    ch.Name,
			Kind:    ChainHeader,
			Color:   theme.Chain,
			Overlay: midiOverlay(ch.MIDIChannel),
		},
	}
	for i := range ch.Modules {
		if i >= ContentSlots {
			break
		}
		m := &ch.Modules[i]
		slots = append(slots, Slot{
			Index: ContentStart + i,
			Text:  m.DeviceName,
			Kind:  ModuleEntry,
			Color: RoleColor(m.Role),
		})
	}
	return slots
}

// RoleColor maps a module role to its fixed accent. Roles are
// normalized at load time, so the default arm only sees RoleOther.
func RoleColor(r catalog.Role) theme.RGB {
	switch r {
	case catalog.RoleSource:
		return theme.RoleSource
	case catalog.RoleProc:
		return theme.RoleProc
	case catalog.RoleDest:
		return theme.RoleDest
	}
	return theme.RoleNeutral
}

func navSlot() Slot {
	return Slot{Index: 0, Text: navLabel, Kind: SystemNav, Color: theme.Nav}
}

func midiOverlay(channel *int) string {
	if channel == nil {
		return ""
	}
	return strconv.Itoa(*channel)
}
