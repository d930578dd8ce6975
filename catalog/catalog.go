package catalog

import (
	"errors"

	"github.com/google/uuid"
)

// Role categorizes a module within a chain. Unknown roles from the
// source document normalize to RoleOther so downstream color lookup
// is total.
type Role string

const (
	RoleSource Role = "source"
	RoleProc   Role = "proc"
	RoleDest   Role = "dest"
	RoleOther  Role = "other"
)

// Channel is the stereo side an item slot belongs to.
type Channel string

const (
	ChannelLeft  Channel = "L"
	ChannelRight Channel = "R"
)

// Placeholders substituted during normalization. A Module always has
// a non-empty DeviceName and a Chain a non-empty Name after Load.
const (
	PlaceholderDevice = "No Device"
	PlaceholderChain  = "Untitled"
)

// ErrEmptyCatalog is returned when the decoded document yields zero
// chains. The caller keeps its previous catalog in that case.
var ErrEmptyCatalog = errors.New("catalog: no chains in document")

// Module is one routable unit inside a chain.
type Module struct {
	Name       string
	DeviceName string
	Role       Role
	MIDINote   *int
	Channel    Channel
	Tags       []string
	ABGroup    string
}

// Chain is a named, ordered collection of modules. Modules keep
// source order: cell order, then item order, Left before Right.
type Chain struct {
	Name        string
	ID          string
	MIDIChannel *int
	Active      bool
	Modules     []Module
}

// Catalog is the full set of chains, rebuilt wholesale on each load.
type Catalog struct {
	Chains []Chain
}

// FindChainByName returns the first chain whose name matches exactly,
// or nil. Names are not required to be unique; first match wins.
func (c *Catalog) FindChainByName(name string) *Chain {
	for i := range c.Chains {
		if c.Chains[i].Name == name {
			return &c.Chains[i]
		}
	}
	return nil
}

func normalizeChain(raw map[string]any) Chain {
	state := asMap(raw["state"])
	cond := asMap(raw["cond"])

	ch := Chain{
		Name:        strOr(state["name"], PlaceholderChain),
		ID:          strOr(state["id"], ""),
		MIDIChannel: intOpt(state["midiChannel"]),
		Active:      boolOr(cond["active"], false),
	}
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}

	lanes := asList(raw["lanes"])
	if len(lanes) == 0 {
		return ch
	}
	for _, cellRaw := range asList(asMap(lanes[0])["cells"]) {
		cell := asMap(cellRaw)
		abGroup := strOr(cell["abGroup"], "")
		for _, itemRaw := range asList(cell["items"]) {
			item := asMap(itemRaw)
			if sub := asMap(item["L"]); sub != nil {
				ch.Modules = append(ch.Modules, normalizeModule(sub, ChannelLeft, abGroup))
			}
			if sub := asMap(item["R"]); sub != nil {
				ch.Modules = append(ch.Modules, normalizeModule(sub, ChannelRight, abGroup))
			}
		}
	}
	return ch
}

func normalizeModule(raw map[string]any, side Channel, abGroup string) Module {
	return Module{
		Name:       strOr(raw["name"], ""),
		DeviceName: strOr(raw["deviceName"], PlaceholderDevice),
		Role:       normalizeRole(strOr(raw["role"], "")),
		MIDINote:   intOpt(raw["midiNote"]),
		Channel:    side,
		Tags:       strList(raw["tags"]),
		ABGroup:    abGroup,
	}
}

func normalizeRole(s string) Role {
	switch Role(s) {
	case RoleSource, RoleProc, RoleDest:
		return Role(s)
	}
	return RoleOther
}
