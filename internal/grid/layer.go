package grid

import (
	"fmt"

	"github.com/jacogrande/wayfare/internal/tile"
)

// Tile is one cell of a layer. Variant and HeightOverride use -1 for
// "unset": an explicit variant beats deterministic selection, an explicit
// height beats the kind's default obstacle height.
type Tile struct {
	Kind           tile.Kind
	Variant        int
	HeightOverride float64
}

// NewTile returns a tile of the given kind with no overrides.
func NewTile(kind tile.Kind) Tile {
	return Tile{Kind: kind, Variant: -1, HeightOverride: -1}
}

// IsEmpty reports whether the tile is the empty kind.
func (t Tile) IsEmpty() bool { return t.Kind == tile.KindEmpty }

// Layer is a dense row-major tile array with a name and an explicit z-order.
type Layer struct {
	Name  string
	Z     int
	w, h  int
	tiles []Tile
}

// NewLayer builds a layer sized w×h filled with empty tiles.
func NewLayer(name string, z, w, h int) *Layer {
	tiles := make([]Tile, w*h)
	for i := range tiles {
		tiles[i] = NewTile(tile.KindEmpty)
	}
	return &Layer{Name: name, Z: z, w: w, h: h, tiles: tiles}
}

// NewLayerFromTiles builds a layer over an existing row-major tile slice.
// A tile count that disagrees with w×h is a caller bug and fails loudly.
func NewLayerFromTiles(name string, z, w, h int, tiles []Tile) (*Layer, error) {
	if len(tiles) != w*h {
		return nil, fmt.Errorf("layer %q: %d tiles for %dx%d grid", name, len(tiles), w, h)
	}
	return &Layer{Name: name, Z: z, w: w, h: h, tiles: tiles}, nil
}

func (l *Layer) Width() int  { return l.w }
func (l *Layer) Height() int { return l.h }

// TileAt returns the tile at (tx, ty), or an empty tile out of bounds.
func (l *Layer) TileAt(tx, ty int) Tile {
	if tx < 0 || ty < 0 || tx >= l.w || ty >= l.h {
		return NewTile(tile.KindEmpty)
	}
	return l.tiles[ty*l.w+tx]
}

// SetTile writes the tile at (tx, ty). Out of bounds is a no-op.
func (l *Layer) SetTile(tx, ty int, t Tile) {
	if tx < 0 || ty < 0 || tx >= l.w || ty >= l.h {
		return
	}
	l.tiles[ty*l.w+tx] = t
}
