package blocks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_CanonicalChildren(t *testing.T) {
	raw := `{
		"id": "m1", "type": "mega-menu", "enabled": true, "position": 0,
		"settings": {"title": "Shop"},
		"blocks": [
			{"id": "c1", "type": "mega-menu-column", "enabled": true, "position": 0}
		]
	}`

	var b Block
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	require.Len(t, b.Children, 1)
	assert.Equal(t, "c1", b.Children[0].ID)
	assert.Equal(t, map[string]any{"title": "Shop"}, b.Settings)
}

func TestUnmarshal_LegacySettingsBlocks(t *testing.T) {
	// Pre-migration container payloads carried children under
	// settings.blocks. They must be lifted into Children and the mirror
	// key dropped, at every nesting level.
	raw := `{
		"id": "m1", "type": "mega-menu", "enabled": true, "position": 0,
		"settings": {
			"title": "Shop",
			"blocks": [
				{"id": "c1", "type": "mega-menu-column", "enabled": true, "position": 0,
				 "settings": {"blocks": [{"id": "g1", "type": "icon-group", "enabled": false, "position": 0}]}}
			]
		}
	}`

	var b Block
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	require.Len(t, b.Children, 1)
	assert.NotContains(t, b.Settings, "blocks")
	assert.Equal(t, "Shop", b.Settings["title"])

	col := b.Children[0]
	require.Len(t, col.Children, 1)
	assert.NotContains(t, col.Settings, "blocks")
	assert.Equal(t, "g1", col.Children[0].ID)
	assert.False(t, col.Children[0].Enabled)
}

func TestMarshal_CanonicalOnly(t *testing.T) {
	b := Block{
		ID: "m1", Type: TypeMegaMenu, Enabled: true,
		Settings: map[string]any{"title": "Shop"},
		Children: []Block{{ID: "c1", Type: TypeMegaMenuColumn, Enabled: true}},
	}

	out, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Contains(t, decoded, "blocks")
	settings := decoded["settings"].(map[string]any)
	assert.NotContains(t, settings, "blocks", "children must not be mirrored into settings")
}

func TestDecodeEncodeTree_RoundTrip(t *testing.T) {
	settings := json.RawMessage(`{"gap": 8, "align": "center", "blocks": [
		{"id": "a", "type": "text", "enabled": true, "position": 0, "settings": {"text": "hi"}}
	]}`)

	tree, rest, err := DecodeTree(settings)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "a", tree[0].ID)
	assert.Contains(t, rest, "gap")
	assert.Contains(t, rest, "align")
	assert.NotContains(t, rest, "blocks")

	encoded, err := EncodeTree(rest, tree)
	require.NoError(t, err)

	tree2, rest2, err := DecodeTree(encoded)
	require.NoError(t, err)
	assert.Equal(t, tree, tree2)
	assert.Equal(t, rest, rest2)
}

func TestEncodeTree_LeavesRestUntouched(t *testing.T) {
	rest := map[string]json.RawMessage{"gap": json.RawMessage(`8`)}

	_, err := EncodeTree(rest, []Block{{ID: "a", Type: "text"}})
	require.NoError(t, err)

	assert.NotContains(t, rest, "blocks")
	assert.Len(t, rest, 1)
}

func TestDecodeTree_EmptySettings(t *testing.T) {
	tree, rest, err := DecodeTree(nil)
	require.NoError(t, err)
	assert.Nil(t, tree)
	assert.Empty(t, rest)
}

func TestEncodeTree_NilTreeKeepsKey(t *testing.T) {
	encoded, err := EncodeTree(nil, nil)
	require.NoError(t, err)

	tree, _, err := DecodeTree(encoded)
	require.NoError(t, err)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestIsContainerType(t *testing.T) {
	for _, ct := range ContainerTypes() {
		assert.True(t, IsContainerType(ct), ct)
	}
	assert.False(t, IsContainerType("text"))
	assert.False(t, IsContainerType(""))
}
