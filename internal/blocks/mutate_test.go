package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree builds the reference tree:
//
//	[A(pos0), B(pos1), D(pos2)] where D is a container holding [E(pos0)].
func testTree() []Block {
	return []Block{
		{ID: "A", Type: "text", Settings: map[string]any{"text": "hello"}, Enabled: true, Position: 0},
		{ID: "B", Type: "button", Settings: map[string]any{"label": "Buy"}, Enabled: true, Position: 1},
		{ID: "D", Type: TypeContainer, Settings: map[string]any{"gap": float64(8)}, Enabled: true, Position: 2,
			Children: []Block{
				{ID: "E", Type: "image", Settings: map[string]any{"src": "/e.png"}, Enabled: true, Position: 0},
			},
		},
	}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestUpdate_NestedSettingsOnly(t *testing.T) {
	tree := testTree()

	out, ok := Update(tree, "B", Patch{Settings: map[string]any{"color": "red"}})
	require.True(t, ok)

	b := FindByID(out, "B")
	require.NotNil(t, b)
	assert.Equal(t, map[string]any{"color": "red"}, b.Settings)
	assert.True(t, b.Enabled, "enabled must be unchanged")
	assert.Equal(t, 1, b.Position, "position must be unchanged")

	// Siblings and ancestors untouched.
	assert.Equal(t, map[string]any{"text": "hello"}, FindByID(out, "A").Settings)
	assert.Equal(t, map[string]any{"gap": float64(8)}, FindByID(out, "D").Settings)

	// The original tree must not have been mutated.
	assert.Equal(t, map[string]any{"label": "Buy"}, FindByID(tree, "B").Settings)
}

func TestUpdate_EnabledAndPosition(t *testing.T) {
	out, ok := Update(testTree(), "E", Patch{Enabled: boolPtr(false), Position: intPtr(3)})
	require.True(t, ok)

	e := FindByID(out, "E")
	assert.False(t, e.Enabled)
	assert.Equal(t, 3, e.Position)
	assert.Equal(t, map[string]any{"src": "/e.png"}, e.Settings, "settings must be unchanged")
}

func TestUpdate_NotFound(t *testing.T) {
	tree := testTree()
	out, ok := Update(tree, "nope", Patch{Enabled: boolPtr(false)})
	assert.False(t, ok)
	assert.Equal(t, tree, out, "miss must return the original tree")

	// Idempotent: a second miss behaves identically.
	_, ok = Update(tree, "nope", Patch{Enabled: boolPtr(false)})
	assert.False(t, ok)
}

func TestRemove_TopLevelClosesGap(t *testing.T) {
	out, ok := Remove(testTree(), "B")
	require.True(t, ok)

	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].ID)
	assert.Equal(t, 0, out[0].Position)
	assert.Equal(t, "D", out[1].ID)
	assert.Equal(t, 1, out[1].Position, "gap after delete must be closed")

	// D's children are a different level and must be untouched.
	require.Len(t, out[1].Children, 1)
	assert.Equal(t, "E", out[1].Children[0].ID)
	assert.Equal(t, 0, out[1].Children[0].Position)
}

func TestRemove_NestedLeavesOtherLevelsAlone(t *testing.T) {
	out, ok := Remove(testTree(), "E")
	require.True(t, ok)

	d := FindByID(out, "D")
	require.NotNil(t, d)
	assert.Empty(t, d.Children, "E removed from D")

	// The top level [A, B, D] keeps its members and positions.
	require.Len(t, out, 3)
	for i, id := range []string{"A", "B", "D"} {
		assert.Equal(t, id, out[i].ID)
		assert.Equal(t, i, out[i].Position)
	}
}

func TestRemove_MiddleOfNestedLevel(t *testing.T) {
	tree := []Block{
		{ID: "C1", Type: TypeContainer, Position: 0, Children: []Block{
			{ID: "x", Type: "text", Position: 0},
			{ID: "y", Type: "text", Position: 1},
			{ID: "z", Type: "text", Position: 2},
		}},
	}

	out, ok := Remove(tree, "y")
	require.True(t, ok)

	kids := out[0].Children
	require.Len(t, kids, 2)
	assert.Equal(t, "x", kids[0].ID)
	assert.Equal(t, 0, kids[0].Position)
	assert.Equal(t, "z", kids[1].ID)
	assert.Equal(t, 1, kids[1].Position)
}

func TestRemove_NotFound(t *testing.T) {
	tree := testTree()
	out, ok := Remove(tree, "nope")
	assert.False(t, ok)
	assert.Equal(t, tree, out)
}

func TestInsert_TopLevel(t *testing.T) {
	out, ok := Insert(testTree(), "", Block{ID: "F", Type: "text", Enabled: true})
	require.True(t, ok)
	require.Len(t, out, 4)
	assert.Equal(t, "F", out[3].ID)
	assert.Equal(t, 3, out[3].Position)
}

func TestInsert_IntoContainer(t *testing.T) {
	out, ok := Insert(testTree(), "D", Block{ID: "F", Type: "text", Enabled: true})
	require.True(t, ok)

	d := FindByID(out, "D")
	require.Len(t, d.Children, 2)
	assert.Equal(t, "E", d.Children[0].ID)
	assert.Equal(t, "F", d.Children[1].ID)
	assert.Equal(t, 1, d.Children[1].Position)
}

func TestInsert_UnknownParent(t *testing.T) {
	tree := testTree()
	out, ok := Insert(tree, "nope", Block{ID: "F"})
	assert.False(t, ok)
	assert.Equal(t, tree, out)
}

func TestFindByID_PreOrder(t *testing.T) {
	tree := testTree()
	assert.Nil(t, FindByID(tree, "missing"))
	assert.Equal(t, "E", FindByID(tree, "E").ID)
	assert.Equal(t, TypeContainer, FindByID(tree, "D").Type)
}

func TestClone_Deep(t *testing.T) {
	tree := testTree()
	c := Clone(tree)

	c[2].Children[0].Settings["src"] = "/mutated.png"
	c[0].Settings["text"] = "changed"

	assert.Equal(t, "/e.png", tree[2].Children[0].Settings["src"])
	assert.Equal(t, "hello", tree[0].Settings["text"])
}

func TestCollectIDs(t *testing.T) {
	ids := CollectIDs(testTree(), nil)
	assert.Equal(t, []string{"A", "B", "D", "E"}, ids)
	assert.True(t, ContainsID(testTree(), "E"))
	assert.False(t, ContainsID(testTree(), "Q"))
}

func TestPatchIsZero(t *testing.T) {
	assert.True(t, Patch{}.IsZero())
	assert.False(t, Patch{Enabled: boolPtr(true)}.IsZero())
	assert.False(t, Patch{Settings: map[string]any{}}.IsZero())
}
