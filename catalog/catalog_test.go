package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNormalizesModules(t *testing.T) {
	raw := map[string]any{
		"chains": map[string]any{
			"c1": map[string]any{
				"state": map[string]any{"name": "Drums", "midiChannel": 5, "id": "ch-1"},
				"cond":  map[string]any{"active": true},
				"lanes": []any{
					map[string]any{
						"cells": []any{
							map[string]any{
								"abGroup": "grp-a",
								"items": []any{
									map[string]any{
										"L": map[string]any{"name": "kick", "deviceName": "Synth A", "role": "source", "midiNote": 36},
										"R": map[string]any{"name": "snare", "role": "weird", "tags": []any{"drum", "hit"}},
									},
									map[string]any{
										"R": map[string]any{"deviceName": "Comp 1", "role": "proc"},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	cat, err := Load(raw)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cat.Chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(cat.Chains))
	}

	ch := cat.Chains[0]
	if ch.Name != "Drums" || ch.ID != "ch-1" || !ch.Active {
		t.Errorf("chain metadata wrong: %+v", ch)
	}
	if ch.MIDIChannel == nil || *ch.MIDIChannel != 5 {
		t.Errorf("expected midiChannel 5, got %v", ch.MIDIChannel)
	}

	if len(ch.Modules) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(ch.Modules))
	}

	// Cell order, item order, Left before Right.
	m0, m1, m2 := ch.Modules[0], ch.Modules[1], ch.Modules[2]
	if m0.DeviceName != "Synth A" || m0.Channel != ChannelLeft || m0.Role != RoleSource {
		t.Errorf("module 0 wrong: %+v", m0)
	}
	if m0.MIDINote == nil || *m0.MIDINote != 36 {
		t.Errorf("expected midiNote 36, got %v", m0.MIDINote)
	}
	if m1.Channel != ChannelRight || m1.DeviceName != PlaceholderDevice {
		t.Errorf("module 1 should use device placeholder: %+v", m1)
	}
	if m1.Role != RoleOther {
		t.Errorf("unknown role should normalize to other, got %q", m1.Role)
	}
	if len(m1.Tags) != 2 || m1.Tags[0] != "drum" {
		t.Errorf("tags wrong: %v", m1.Tags)
	}
	if m2.DeviceName != "Comp 1" || m2.Channel != ChannelRight {
		t.Errorf("module 2 wrong: %+v", m2)
	}

	for _, m := range ch.Modules {
		if m.ABGroup != "grp-a" {
			t.Errorf("module should inherit cell abGroup, got %q", m.ABGroup)
		}
	}
}

func TestLoadFallbacks(t *testing.T) {
	raw := map[string]any{
		"chains": map[string]any{
			"c1": map[string]any{},
		},
	}

	cat, err := Load(raw)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	ch := cat.Chains[0]
	if ch.Name != PlaceholderChain {
		t.Errorf("expected chain name placeholder, got %q", ch.Name)
	}
	if ch.ID == "" {
		t.Error("expected generated chain id")
	}
	if ch.MIDIChannel != nil {
		t.Errorf("expected nil midiChannel, got %v", ch.MIDIChannel)
	}
	if ch.Active {
		t.Error("expected inactive by default")
	}
	if len(ch.Modules) != 0 {
		t.Errorf("expected no modules, got %d", len(ch.Modules))
	}
}

func TestLoadEmptyCatalog(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"no chains key", map[string]any{}},
		{"empty chains", map[string]any{"chains": map[string]any{}}},
		{"chains not a map", map[string]any{"chains": "nope"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.raw); !errors.Is(err, ErrEmptyCatalog) {
				t.Fatalf("expected ErrEmptyCatalog, got %v", err)
			}
		})
	}
}

func TestFindChainByNameFirstMatch(t *testing.T) {
	cat := &Catalog{Chains: []Chain{
		{Name: "Drums", ID: "a"},
		{Name: "Bass", ID: "b"},
		{Name: "Drums", ID: "c"},
	}}

	if got := cat.FindChainByName("Drums"); got == nil || got.ID != "a" {
		t.Fatalf("expected first Drums (id a), got %+v", got)
	}
	if got := cat.FindChainByName("drums"); got != nil {
		t.Fatalf("lookup must be case-sensitive, got %+v", got)
	}
	if got := cat.FindChainByName("Keys"); got != nil {
		t.Fatalf("expected nil for unknown name, got %+v", got)
	}
}

func TestLoadFileKeepsDocumentOrder(t *testing.T) {
	doc := `
chains:
  zeta:
    state: {name: Zeta}
  alpha:
    state: {name: Alpha}
  mid:
    state: {name: Mid}
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	want := []string{"Zeta", "Alpha", "Mid"}
	if len(cat.Chains) != len(want) {
		t.Fatalf("expected %d chains, got %d", len(want), len(cat.Chains))
	}
	for i, name := range want {
		if cat.Chains[i].Name != name {
			t.Errorf("chain %d: expected %q, got %q", i, name, cat.Chains[i].Name)
		}
	}
}

func TestLoadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("chains: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}
