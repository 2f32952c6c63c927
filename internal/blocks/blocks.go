// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blocks models the nested block tree embedded in container-type
// section blocks and provides the search and mutation primitives the theme
// editor is built on. Children live in a single typed Children field
// (serialized as "blocks"); the legacy layout that mirrored children under
// settings.blocks is accepted on read and rewritten canonically on write.
package blocks

import "encoding/json"

// Container block types. A container owns an ordered, arbitrarily deep
// list of child blocks inside its settings payload.
const (
	TypeContainer      = "container"
	TypeIconGroup      = "icon-group"
	TypeMegaMenu       = "mega-menu"
	TypeMegaMenuColumn = "mega-menu-column"
)

var containerTypes = map[string]bool{
	TypeContainer:      true,
	TypeIconGroup:      true,
	TypeMegaMenu:       true,
	TypeMegaMenuColumn: true,
}

// IsContainerType reports whether the given block type may hold children.
func IsContainerType(t string) bool {
	return containerTypes[t]
}

// ContainerTypes returns the container type tags in a stable order,
// suitable for SQL IN clauses.
func ContainerTypes() []string {
	return []string{TypeContainer, TypeIconGroup, TypeMegaMenu, TypeMegaMenuColumn}
}

// Block is a single node in a section's nested block tree. Position orders
// a block among its immediate siblings and is kept contiguous zero-based
// by every mutation.
type Block struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Settings map[string]any `json:"settings,omitempty"`
	Enabled  bool           `json:"enabled"`
	Position int            `json:"position"`
	Children []Block        `json:"blocks,omitempty"`
}

// IsContainer reports whether this block may hold children.
func (b *Block) IsContainer() bool {
	return IsContainerType(b.Type)
}

// UnmarshalJSON decodes a block, lifting children out of a legacy
// settings.blocks array when no top-level blocks field is present.
// Nested legacy payloads are handled by the recursion through Children.
func (b *Block) UnmarshalJSON(data []byte) error {
	type alias Block
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	if len(a.Children) == 0 && a.Settings != nil {
		if raw, ok := a.Settings["blocks"]; ok {
			buf, err := json.Marshal(raw)
			if err != nil {
				return err
			}
			var kids []Block
			if err := json.Unmarshal(buf, &kids); err != nil {
				return err
			}
			a.Children = kids
			delete(a.Settings, "blocks")
		}
	}

	*b = Block(a)
	return nil
}

// DecodeTree extracts the nested block tree from a container row's settings
// payload. The remaining settings keys are returned untouched so they can
// be written back byte-for-byte alongside the mutated tree.
func DecodeTree(settings json.RawMessage) ([]Block, map[string]json.RawMessage, error) {
	rest := map[string]json.RawMessage{}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &rest); err != nil {
			return nil, nil, err
		}
	}

	var tree []Block
	if raw, ok := rest["blocks"]; ok {
		if err := json.Unmarshal(raw, &tree); err != nil {
			return nil, nil, err
		}
		delete(rest, "blocks")
	}
	return tree, rest, nil
}

// EncodeTree writes a block tree back into a settings payload under the
// canonical "blocks" key, preserving the unrelated settings keys. The
// given map is left untouched.
func EncodeTree(rest map[string]json.RawMessage, tree []Block) (json.RawMessage, error) {
	if tree == nil {
		tree = []Block{}
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]json.RawMessage, len(rest)+1)
	for k, v := range rest {
		merged[k] = v
	}
	merged["blocks"] = raw
	return json.Marshal(merged)
}
