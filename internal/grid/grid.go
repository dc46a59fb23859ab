// Package grid holds the spatial world model: named tile layers over a shared
// collision bitmap, plus world↔tile coordinate mapping. Out-of-bounds queries
// are always treated as blocked so entities cannot walk off the map.
package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/jacogrande/wayfare/internal/tile"
	"github.com/jacogrande/wayfare/internal/vec"
)

// Grid is the tile world: width×height cells of edge×edge pixels.
type Grid struct {
	w, h  int
	edge  int // tile edge length in pixels
	kinds *tile.Registry

	layers    []*Layer // insertion order
	byName    map[string]*Layer
	collision []bool // flat row-major, len w*h
}

func New(w, h, edge int, kinds *tile.Registry) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("grid: invalid size %dx%d", w, h)
	}
	if edge <= 0 {
		return nil, fmt.Errorf("grid: invalid tile edge %d", edge)
	}
	return &Grid{
		w:         w,
		h:         h,
		edge:      edge,
		kinds:     kinds,
		byName:    make(map[string]*Layer, 4),
		collision: make([]bool, w*h),
	}, nil
}

func (g *Grid) Width() int            { return g.w }
func (g *Grid) Height() int           { return g.h }
func (g *Grid) TileEdge() int         { return g.edge }
func (g *Grid) Kinds() *tile.Registry { return g.kinds }

// AddLayer registers a layer. A repeated name overwrites the previous layer
// in place; a shape mismatch against the grid is a caller bug.
func (g *Grid) AddLayer(l *Layer) error {
	if l.Width() != g.w || l.Height() != g.h {
		return fmt.Errorf("layer %q: size %dx%d does not match grid %dx%d",
			l.Name, l.Width(), l.Height(), g.w, g.h)
	}
	if old, exists := g.byName[l.Name]; exists {
		for i, existing := range g.layers {
			if existing == old {
				g.layers[i] = l
				break
			}
		}
	} else {
		g.layers = append(g.layers, l)
	}
	g.byName[l.Name] = l
	return nil
}

// Layer returns the named layer.
func (g *Grid) Layer(name string) (*Layer, error) {
	l, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("layer %q: not found", name)
	}
	return l, nil
}

// LayersByZ returns layers sorted ascending by z-order. Ties keep insertion
// order (stable sort).
func (g *Grid) LayersByZ() []*Layer {
	out := make([]*Layer, len(g.layers))
	copy(out, g.layers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// IsBlocked reports whether the tile is collidable. Everything outside the
// grid is blocked.
func (g *Grid) IsBlocked(tx, ty int) bool {
	if tx < 0 || ty < 0 || tx >= g.w || ty >= g.h {
		return true
	}
	return g.collision[ty*g.w+tx]
}

// SetCollision writes one collision bit. Out of bounds is a no-op.
func (g *Grid) SetCollision(tx, ty int, blocked bool) {
	if tx < 0 || ty < 0 || tx >= g.w || ty >= g.h {
		return
	}
	g.collision[ty*g.w+tx] = blocked
}

// WorldToTile maps a world pixel position to its containing tile.
func (g *Grid) WorldToTile(x, y float64) (int, int) {
	return int(math.Floor(x / float64(g.edge))), int(math.Floor(y / float64(g.edge)))
}

// TileToWorldCenter maps a tile coordinate to the pixel center of that tile.
func (g *Grid) TileToWorldCenter(tx, ty int) (float64, float64) {
	half := float64(g.edge) / 2
	return float64(tx*g.edge) + half, float64(ty*g.edge) + half
}

// TopTileAt scans layers from highest to lowest z and returns the first
// non-empty tile at (tx, ty).
func (g *Grid) TopTileAt(tx, ty int) (Tile, bool) {
	byZ := g.LayersByZ()
	for i := len(byZ) - 1; i >= 0; i-- {
		t := byZ[i].TileAt(tx, ty)
		if !t.IsEmpty() {
			return t, true
		}
	}
	return Tile{}, false
}

// ObstacleHeightAt returns the effective obstacle height of the top tile at
// (tx, ty): the per-tile override when set, else the kind's configured
// height. Zero means nothing to clear.
func (g *Grid) ObstacleHeightAt(tx, ty int) float64 {
	t, ok := g.TopTileAt(tx, ty)
	if !ok {
		return 0
	}
	if t.HeightOverride >= 0 {
		return t.HeightOverride
	}
	cfg, ok := g.kinds.Get(t.Kind)
	if !ok {
		return 0
	}
	return cfg.Height
}

// SyncCollisionFromTiles recomputes the whole collision bitmap from the
// top-most non-empty tile of every cell. O(w·h·layers) — run after bulk
// authoring, not per tick.
func (g *Grid) SyncCollisionFromTiles() {
	for i := range g.collision {
		g.collision[i] = false
	}
	for ty := 0; ty < g.h; ty++ {
		for tx := 0; tx < g.w; tx++ {
			t, ok := g.TopTileAt(tx, ty)
			if !ok {
				continue
			}
			if cfg, ok := g.kinds.Get(t.Kind); ok && cfg.BlocksMovement {
				g.collision[ty*g.w+tx] = true
			}
		}
	}
}

// BlockedAt is the pixel-space blocking predicate consumed by the motion
// controller.
func (g *Grid) BlockedAt(x, y float64) bool {
	tx, ty := g.WorldToTile(x, y)
	return g.IsBlocked(tx, ty)
}

// TileOf is a convenience wrapper returning vec coordinates.
func (g *Grid) TileOf(p vec.Vec2F) vec.Vec2 {
	tx, ty := g.WorldToTile(p.X, p.Y)
	return vec.Vec2{X: tx, Y: ty}
}
