package tiled

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacogrande/wayfare/internal/tile"
)

// baseMap builds the canonical 2x2 test document: a tileset mapping local id
// 0 to water and local id 1 to path (collides), a ground layer placing path
// at (0,0) and water at (1,0), and a collision layer marking (0,1).
func baseMap() string {
	return `{
		"width": 2, "height": 2,
		"tilewidth": 16, "tileheight": 16,
		"tilesets": [{
			"firstgid": 1,
			"name": "terrain",
			"tiles": [
				{"id": 0, "properties": [{"name": "kind", "type": "string", "value": "water"}]},
				{"id": 1, "properties": [
					{"name": "kind", "type": "string", "value": "path"},
					{"name": "collides", "type": "bool", "value": true}
				]}
			]
		}],
		"layers": [
			{"name": "ground", "width": 2, "height": 2, "data": [2, 1, 0, 0]},
			{"name": "collision", "width": 2, "height": 2, "data": [0, 0, 2, 0]}
		]
	}`
}

func TestConvertRoundTrip(t *testing.T) {
	g, err := Convert([]byte(baseMap()), tile.Builtin())
	require.NoError(t, err)

	assert.Equal(t, 2, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, 16, g.TileEdge())

	ground, err := g.Layer("ground")
	require.NoError(t, err)
	assert.Equal(t, tile.KindPath, ground.TileAt(0, 0).Kind)
	assert.Equal(t, tile.KindWater, ground.TileAt(1, 0).Kind)
	assert.True(t, ground.TileAt(1, 1).IsEmpty(), "unreferenced cell stays empty")

	// Collision layers become bitmap bits, not tile layers.
	_, err = g.Layer("collision")
	assert.Error(t, err)

	assert.True(t, g.IsBlocked(0, 0), "path's own collide flag")
	assert.True(t, g.IsBlocked(0, 1), "collision layer cell")
	assert.False(t, g.IsBlocked(1, 0), "water does not block")
	assert.False(t, g.IsBlocked(1, 1))
}

func TestConvertIgnoreLayer(t *testing.T) {
	doc := `{
		"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
		"tilesets": [],
		"layers": [{"name": "ignore", "width": 1, "height": 1, "data": [99]}]
	}`
	g, err := Convert([]byte(doc), tile.Builtin())
	require.NoError(t, err, "ignored layers skip gid validation entirely")
	assert.Empty(t, g.LayersByZ())
}

func TestConvertZOrderProperty(t *testing.T) {
	doc := `{
		"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
		"tilesets": [{
			"firstgid": 1,
			"tiles": [{"id": 0, "properties": [{"name": "kind", "type": "string", "value": "grass"}]}]
		}],
		"layers": [
			{"name": "top", "width": 1, "height": 1, "data": [1],
			 "properties": [{"name": "z", "type": "int", "value": 9}]},
			{"name": "bottom", "width": 1, "height": 1, "data": [1]}
		]
	}`
	g, err := Convert([]byte(doc), tile.Builtin())
	require.NoError(t, err)

	byZ := g.LayersByZ()
	require.Len(t, byZ, 2)
	assert.Equal(t, "bottom", byZ[0].Name, "implicit z from declaration order sorts below z=9")
	assert.Equal(t, "top", byZ[1].Name)
}

func TestConvertVariantAndHeightOverrides(t *testing.T) {
	doc := `{
		"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
		"tilesets": [{
			"firstgid": 1,
			"tiles": [{"id": 0, "properties": [
				{"name": "kind", "type": "string", "value": "fence"},
				{"name": "variant", "type": "int", "value": 2},
				{"name": "height", "type": "float", "value": 12.5}
			]}]
		}],
		"layers": [{"name": "ground", "width": 1, "height": 1, "data": [1]}]
	}`
	g, err := Convert([]byte(doc), tile.Builtin())
	require.NoError(t, err)

	ground, err := g.Layer("ground")
	require.NoError(t, err)
	got := ground.TileAt(0, 0)
	assert.Equal(t, 2, got.Variant)
	assert.Equal(t, 12.5, got.HeightOverride)
	assert.Equal(t, 12.5, g.ObstacleHeightAt(0, 0))
}

func TestConvertRejections(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			"non-square tiles",
			`{"width":1,"height":1,"tilewidth":16,"tileheight":8,"tilesets":[],"layers":[]}`,
			ErrNonSquareTile,
		},
		{
			"external tileset",
			`{"width":1,"height":1,"tilewidth":16,"tileheight":16,
			  "tilesets":[{"firstgid":1,"source":"terrain.tsx"}],"layers":[]}`,
			ErrExternalTileset,
		},
		{
			"flip flags",
			`{"width":1,"height":1,"tilewidth":16,"tileheight":16,
			  "tilesets":[{"firstgid":1,"tiles":[{"id":0,"properties":[{"name":"kind","type":"string","value":"grass"}]}]}],
			  "layers":[{"name":"ground","width":1,"height":1,"data":[2147483649]}]}`,
			ErrFlipFlags,
		},
		{
			"layer width mismatch",
			`{"width":2,"height":1,"tilewidth":16,"tileheight":16,
			  "tilesets":[],
			  "layers":[{"name":"ground","width":1,"height":1,"data":[0]}]}`,
			ErrLayerSize,
		},
		{
			"missing kind property",
			`{"width":1,"height":1,"tilewidth":16,"tileheight":16,
			  "tilesets":[{"firstgid":1,"tiles":[{"id":0,"properties":[]}]}],
			  "layers":[{"name":"ground","width":1,"height":1,"data":[1]}]}`,
			ErrMissingKind,
		},
		{
			"unknown kind name",
			`{"width":1,"height":1,"tilewidth":16,"tileheight":16,
			  "tilesets":[{"firstgid":1,"tiles":[{"id":0,"properties":[{"name":"kind","type":"string","value":"nope"}]}]}],
			  "layers":[]}`,
			ErrUnknownKind,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert([]byte(tt.doc), tile.Builtin())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConvertFlipFlagsInCollisionLayer(t *testing.T) {
	doc := `{
		"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
		"tilesets": [],
		"layers": [{"name": "collision", "width": 1, "height": 1, "data": [1073741825]}]
	}`
	_, err := Convert([]byte(doc), tile.Builtin())
	assert.ErrorIs(t, err, ErrFlipFlags)
}
