// Package merge fuses the canonical datasets for one sport and date into
// unified game records.
package merge

import (
	"encoding/json"
	"fmt"
)

// Tree is a decoded JSON object.
type Tree = map[string]any

// DeepMerge returns the structural union of base and overlay. Where both hold
// objects under the same key they are merged recursively; otherwise the
// overlay value replaces the base value. A nil overlay value is treated as
// absent. Neither input is modified.
func DeepMerge(base, overlay Tree) Tree {
	out := make(Tree, len(base)+len(overlay))
	for k, v := range base {
		out[k] = clone(v)
	}
	for k, ov := range overlay {
		if ov == nil {
			continue
		}
		if oTree, ok := ov.(Tree); ok {
			if bTree, ok := out[k].(Tree); ok {
				out[k] = DeepMerge(bTree, oTree)
				continue
			}
		}
		out[k] = clone(ov)
	}
	return out
}

func clone(v any) any {
	switch t := v.(type) {
	case Tree:
		out := make(Tree, len(t))
		for k, child := range t {
			out[k] = clone(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = clone(child)
		}
		return out
	default:
		return v
	}
}

// ToTree converts v to its JSON object form.
func ToTree(v any) (Tree, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if t == nil {
		t = Tree{}
	}
	return t, nil
}

// FromTree decodes t into out.
func FromTree(t Tree, out any) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode tree: %w", err)
	}
	return nil
}
