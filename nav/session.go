package nav

import (
	"go.uber.org/zap"

	"chainpad/catalog"
	"chainpad/layout"
)

// View is the current navigation state: the chain list, or one
// selected chain's module list.
type View int

const (
	ViewCatalog View = iota
	ViewChain
)

// Renderer pushes a complete slot set to the panel. A transition
// always replaces the whole face set; partial redraws would leave
// stale button/action pairs.
type Renderer interface {
	ShowSlots(slots []layout.Slot) error
}

// ActivateFunc is invoked when a module button is pressed. The
// activation effect itself (MIDI, logging) lives with the caller.
type ActivateFunc func(*catalog.Chain, *catalog.Module)

type action struct {
	press   func()
	release func()
}

// Session owns the catalog, the current view and the live slot
// table. It is mutated only on the event-loop goroutine.
type Session struct {
	log      *zap.Logger
	renderer Renderer
	activate ActivateFunc

	cat      *catalog.Catalog
	view     View
	selected *catalog.Chain
	slots    []layout.Slot
	actions  map[int]action
}

func NewSession(r Renderer, activate ActivateFunc, log *zap.Logger) *Session {
	return &Session{
		log:      log,
		renderer: r,
		activate: activate,
		actions:  map[int]action{},
	}
}

// SetCatalog replaces the catalog wholesale and re-enters the chain
// list. Passing an empty or nil catalog leaves the session degraded:
// the panel is blank and every press is a no-op.
func (s *Session) SetCatalog(c *catalog.Catalog) error {
	s.cat = c
	s.selected = nil
	return s.ShowCatalog()
}

func (s *Session) View() View               { return s.view }
func (s *Session) Selected() *catalog.Chain { return s.selected }

// Slots returns a copy of the current slot table.
func (s *Session) Slots() []layout.Slot {
	out := make([]layout.Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// ShowCatalog enters (or re-renders) the chain list view.
func (s *Session) ShowCatalog() error {
	if s.cat == nil || len(s.cat.Chains) == 0 {
		return s.install(ViewCatalog, nil, nil, nil)
	}

	slots := layout.CatalogView(s.cat)
	actions := map[int]action{
		0: {press: func() { s.rerender() }},
	}
	for _, slot := range slots[1:] {
		name := slot.Text
		actions[slot.Index] = action{press: func() { s.openChain(name) }}
	}
	return s.install(ViewCatalog, nil, slots, actions)
}

// openChain resolves a pressed chain button by its displayed name.
// First match wins on duplicate names.
func (s *Session) openChain(name string) {
	ch := s.cat.FindChainByName(name)
	if ch == nil {
		s.log.Warn("no chain for pressed slot", zap.String("name", name))
		return
	}
	s.ShowChain(ch)
}

// ShowChain enters the module list for one chain.
func (s *Session) ShowChain(ch *catalog.Chain) error {
	s.log.Info("chain selected",
		zap.String("chain", ch.Name),
		zap.String("id", ch.ID),
		zap.Int("modules", len(ch.Modules)))

	slots := layout.ChainView(ch)
	actions := map[int]action{
		0: {press: func() { s.ShowCatalog() }},
		// Header press re-shows the chain metadata, no navigation.
		1: {press: func() { s.rerender() }},
	}
	for _, slot := range slots {
		if slot.Kind != layout.ModuleEntry {
			continue
		}
		m := &ch.Modules[slot.Index-layout.ContentStart]
		actions[slot.Index] = action{press: func() { s.fireActivate(ch, m) }}
	}
	return s.install(ViewChain, ch, slots, actions)
}

func (s *Session) fireActivate(ch *catalog.Chain, m *catalog.Module) {
	s.log.Info("module pressed",
		zap.String("chain", ch.Name),
		zap.String("module", m.DeviceName),
		zap.String("role", string(m.Role)))
	if s.activate != nil {
		s.activate(ch, m)
	}
}

// install replaces the slot/action tables and pushes the full slot
// set to the renderer. The tables are swapped before rendering so a
// stale slot is never addressable.
func (s *Session) install(v View, selected *catalog.Chain, slots []layout.Slot, actions map[int]action) error {
	s.view = v
	s.selected = selected
	s.slots = slots
	if actions == nil {
		actions = map[int]action{}
	}
	s.actions = actions
	return s.renderer.ShowSlots(slots)
}

func (s *Session) rerender() {
	s.renderer.ShowSlots(s.slots)
}

// Press fires the action installed at index, if any.
func (s *Session) Press(index int) {
	a, ok := s.actions[index]
	if !ok || a.press == nil {
		return
	}
	a.press()
}

// Release fires an installed release handler; most slots have none.
func (s *Session) Release(index int) {
	if a, ok := s.actions[index]; ok && a.release != nil {
		a.release()
	}
}
