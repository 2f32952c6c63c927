// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

// Patch describes a partial update to a block. Nil fields are left
// unchanged on the target node.
type Patch struct {
	Settings map[string]any
	Enabled  *bool
	Position *int
}

// IsZero reports whether the patch would change nothing.
func (p Patch) IsZero() bool {
	return p.Settings == nil && p.Enabled == nil && p.Position == nil
}

// Clone returns a deep copy of the tree. Mutations always operate on a
// clone so the caller's in-memory state stays untouched until a match is
// confirmed and persisted.
func Clone(tree []Block) []Block {
	if tree == nil {
		return nil
	}
	out := make([]Block, len(tree))
	for i, b := range tree {
		b.Settings = copyMap(b.Settings)
		b.Children = Clone(b.Children)
		out[i] = b
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

// FindByID locates a block anywhere in the tree by pre-order depth-first
// search. The returned pointer aliases the given tree; callers that intend
// to mutate should work on a Clone. Returns nil when no node matches.
func FindByID(tree []Block, id string) *Block {
	for i := range tree {
		if tree[i].ID == id {
			return &tree[i]
		}
		if found := FindByID(tree[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Update applies the patch to the first block matching id, scanning
// pre-order depth-first. Returns the mutated clone and true on a match, or
// the original tree and false when no node matches.
func Update(tree []Block, id string, p Patch) ([]Block, bool) {
	c := Clone(tree)
	if applyPatch(c, id, p) {
		return c, true
	}
	return tree, false
}

func applyPatch(nodes []Block, id string, p Patch) bool {
	for i := range nodes {
		if nodes[i].ID == id {
			if p.Settings != nil {
				nodes[i].Settings = p.Settings
			}
			if p.Enabled != nil {
				nodes[i].Enabled = *p.Enabled
			}
			if p.Position != nil {
				nodes[i].Position = *p.Position
			}
			return true
		}
		if applyPatch(nodes[i].Children, id, p) {
			return true
		}
	}
	return false
}

// Remove splices the first block matching id out of its immediate sibling
// list and renumbers that level to a contiguous zero-based sequence.
// Sibling lists at other levels are left untouched. Returns the mutated
// clone and true, or the original tree and false when no node matches.
func Remove(tree []Block, id string) ([]Block, bool) {
	c := Clone(tree)
	out, ok := removeNode(c, id)
	if !ok {
		return tree, false
	}
	return out, true
}

func removeNode(nodes []Block, id string) ([]Block, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			out := make([]Block, 0, len(nodes)-1)
			out = append(out, nodes[:i]...)
			out = append(out, nodes[i+1:]...)
			Renumber(out)
			return out, true
		}
		if kids, ok := removeNode(nodes[i].Children, id); ok {
			nodes[i].Children = kids
			return nodes, true
		}
	}
	return nodes, false
}

// Insert appends a block to the children of the container matching
// parentID, or to the top level of the tree when parentID is empty, and
// renumbers the affected level. The caller is responsible for checking
// that the parent is a container type. Returns the mutated clone and true,
// or the original tree and false when the parent is absent.
func Insert(tree []Block, parentID string, blk Block) ([]Block, bool) {
	c := Clone(tree)
	if parentID == "" {
		c = append(c, blk)
		Renumber(c)
		return c, true
	}
	if insertChild(c, parentID, blk) {
		return c, true
	}
	return tree, false
}

func insertChild(nodes []Block, parentID string, blk Block) bool {
	for i := range nodes {
		if nodes[i].ID == parentID {
			nodes[i].Children = append(nodes[i].Children, blk)
			Renumber(nodes[i].Children)
			return true
		}
		if insertChild(nodes[i].Children, parentID, blk) {
			return true
		}
	}
	return false
}

// Renumber assigns contiguous zero-based positions to the given sibling
// list, preserving relative order. It does not recurse.
func Renumber(nodes []Block) {
	for i := range nodes {
		nodes[i].Position = i
	}
}

// CollectIDs appends every block id in the tree, pre-order, to dst and
// returns the result.
func CollectIDs(tree []Block, dst []string) []string {
	for i := range tree {
		dst = append(dst, tree[i].ID)
		dst = CollectIDs(tree[i].Children, dst)
	}
	return dst
}

// ContainsID reports whether any block in the tree has the given id.
func ContainsID(tree []Block, id string) bool {
	return FindByID(tree, id) != nil
}
