package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and decodes a catalog document. Chains follow the
// document's mapping order.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	cat := &Catalog{}
	for _, chainNode := range chainValueNodes(&doc) {
		var raw map[string]any
		if err := chainNode.Decode(&raw); err != nil {
			continue
		}
		cat.Chains = append(cat.Chains, normalizeChain(raw))
	}
	if len(cat.Chains) == 0 {
		return nil, ErrEmptyCatalog
	}
	return cat, nil
}

// chainValueNodes finds the top-level "chains" mapping and returns
// its value nodes in document order. Key names are ignored.
func chainValueNodes(doc *yaml.Node) []*yaml.Node {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "chains" {
			continue
		}
		chains := root.Content[i+1]
		if chains.Kind != yaml.MappingNode {
			return nil
		}
		var values []*yaml.Node
		for j := 1; j < len(chains.Content); j += 2 {
			values = append(values, chains.Content[j])
		}
		return values
	}
	return nil
}

// Load builds a Catalog from an already-decoded generic tree. The
// generic map form carries no document order, so chains are walked in
// sorted key order to stay reproducible.
func Load(raw map[string]any) (*Catalog, error) {
	chains := asMap(raw["chains"])

	keys := make([]string, 0, len(chains))
	for k := range chains {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cat := &Catalog{}
	for _, k := range keys {
		if m := asMap(chains[k]); m != nil {
			cat.Chains = append(cat.Chains, normalizeChain(m))
		}
	}
	if len(cat.Chains) == 0 {
		return nil, ErrEmptyCatalog
	}
	return cat, nil
}

// Generic tree accessors. Each tolerates a missing or mistyped value
// and degrades to the zero form so one bad field never fails a load.

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out
	}
	return nil
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func strOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func intOpt(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	}
	return nil
}

func boolOr(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func strList(v any) []string {
	var out []string
	for _, item := range asList(v) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
