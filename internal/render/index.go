// Package render partitions tile layers into fixed-size chunks and tracks
// which chunks need re-batching (dirty) and which are on screen (visible).
// Only chunks that are both visible and dirty are ever re-rendered, so a
// static camera over static terrain costs nothing per frame.
package render

import (
	"math"

	"go.uber.org/zap"

	"github.com/jacogrande/wayfare/internal/grid"
	"github.com/jacogrande/wayfare/internal/tile"
	"github.com/jacogrande/wayfare/internal/vec"
)

// DefaultChunkEdge is the chunk size in tiles.
const DefaultChunkEdge = 16

type chunkKey struct {
	layer  int // layer index in build order
	cx, cy int
}

// Chunk is one (layer, chunk-coordinate) render unit. Created once at build
// time, never destroyed; the batch handle is reused across visibility flips.
type Chunk struct {
	key     chunkKey
	dirty   bool
	visible bool
	batch   Batch
}

// Index owns every chunk and drives culling from the camera rectangle.
type Index struct {
	grid    *grid.Grid
	atlas   Atlas
	factory BatchFactory
	log     *zap.Logger

	chunkEdge int     // tiles per chunk side
	padding   float64 // camera expansion in pixels

	layers   []*grid.Layer
	layerIdx map[string]int
	chunks   map[chunkKey]*Chunk
	chunksX  int
	chunksY  int
}

// NewIndex builds the chunk arena for every layer of the grid. chunkEdge ≤ 0
// falls back to DefaultChunkEdge.
func NewIndex(g *grid.Grid, atlas Atlas, factory BatchFactory, chunkEdge int, padding float64, log *zap.Logger) *Index {
	if chunkEdge <= 0 {
		chunkEdge = DefaultChunkEdge
	}
	idx := &Index{
		grid:      g,
		atlas:     atlas,
		factory:   factory,
		log:       log,
		chunkEdge: chunkEdge,
		padding:   padding,
		layerIdx:  make(map[string]int),
		chunks:    make(map[chunkKey]*Chunk),
	}
	idx.chunksX = (g.Width() + chunkEdge - 1) / chunkEdge
	idx.chunksY = (g.Height() + chunkEdge - 1) / chunkEdge

	idx.layers = g.LayersByZ()
	for i, l := range idx.layers {
		idx.layerIdx[l.Name] = i
		for cy := 0; cy < idx.chunksY; cy++ {
			for cx := 0; cx < idx.chunksX; cx++ {
				key := chunkKey{layer: i, cx: cx, cy: cy}
				idx.chunks[key] = &Chunk{
					key:   key,
					dirty: true,
					batch: factory.NewBatch(),
				}
			}
		}
	}
	return idx
}

// renderChunk rebuilds the chunk's batch from its tile sub-range and clears
// the dirty flag.
func (idx *Index) renderChunk(c *Chunk) {
	layer := idx.layers[c.key.layer]
	edge := float64(idx.grid.TileEdge())

	c.batch.Clear()
	x0 := c.key.cx * idx.chunkEdge
	y0 := c.key.cy * idx.chunkEdge
	x1 := min(x0+idx.chunkEdge, idx.grid.Width())
	y1 := min(y0+idx.chunkEdge, idx.grid.Height())

	for ty := y0; ty < y1; ty++ {
		for tx := x0; tx < x1; tx++ {
			t := layer.TileAt(tx, ty)
			if t.IsEmpty() {
				continue
			}
			cfg, ok := idx.grid.Kinds().Get(t.Kind)
			if !ok {
				idx.log.Warn("tile references unregistered kind",
					zap.Uint16("kind", uint16(t.Kind)),
					zap.Int("tx", tx), zap.Int("ty", ty))
				continue
			}
			variant := t.Variant
			if variant < 0 {
				variant = tile.SelectVariant(cfg, tx, ty)
			}
			tex, ok := idx.atlas.Texture(t.Kind, variant)
			if !ok {
				// Missing art is a content bug: warn and skip the tile,
				// never abort the frame.
				idx.log.Warn("no texture for kind variant",
					zap.String("kind", cfg.Name),
					zap.Int("variant", variant))
				continue
			}
			c.batch.Add(tex, vec.Rect{
				X: float64(tx) * edge,
				Y: float64(ty) * edge,
				W: edge,
				H: edge,
			})
		}
	}
	c.dirty = false
}

// UpdateCulling converts the camera rectangle into an inclusive chunk range
// with a one-chunk buffer on every side, shows newly-visible chunks
// (rendering them first if dirty) and hides newly-invisible ones. Batches
// persist when hidden.
func (idx *Index) UpdateCulling(camera vec.Rect) {
	padded := camera.Expand(idx.padding)
	chunkPx := float64(idx.chunkEdge * idx.grid.TileEdge())

	minCx := int(math.Floor(padded.X/chunkPx)) - 1
	minCy := int(math.Floor(padded.Y/chunkPx)) - 1
	maxCx := int(math.Floor(padded.MaxX()/chunkPx)) + 1
	maxCy := int(math.Floor(padded.MaxY()/chunkPx)) + 1

	for _, c := range idx.chunks {
		inRange := c.key.cx >= minCx && c.key.cx <= maxCx &&
			c.key.cy >= minCy && c.key.cy <= maxCy
		switch {
		case inRange && !c.visible:
			if c.dirty {
				idx.renderChunk(c)
			}
			c.batch.Show()
			c.visible = true
		case !inRange && c.visible:
			c.batch.Hide()
			c.visible = false
		case inRange && c.dirty:
			// Visible chunk dirtied since last frame.
			idx.renderChunk(c)
		}
	}
}

// MarkTileDirty flags the chunk owning (tx, ty) on the named layer. A
// visible chunk re-renders immediately so terrain edits show without waiting
// for the next camera move.
func (idx *Index) MarkTileDirty(layerName string, tx, ty int) {
	li, ok := idx.layerIdx[layerName]
	if !ok {
		return
	}
	key := chunkKey{layer: li, cx: tx / idx.chunkEdge, cy: ty / idx.chunkEdge}
	c, ok := idx.chunks[key]
	if !ok {
		return
	}
	c.dirty = true
	if c.visible {
		idx.renderChunk(c)
	}
}

// RebuildLayer dirties every chunk of one layer, re-rendering the visible
// ones. Used after bulk authoring changes.
func (idx *Index) RebuildLayer(layerName string) {
	li, ok := idx.layerIdx[layerName]
	if !ok {
		return
	}
	for _, c := range idx.chunks {
		if c.key.layer != li {
			continue
		}
		c.dirty = true
		if c.visible {
			idx.renderChunk(c)
		}
	}
}

// RebuildAll dirties every chunk across all layers.
func (idx *Index) RebuildAll() {
	for _, c := range idx.chunks {
		c.dirty = true
		if c.visible {
			idx.renderChunk(c)
		}
	}
}

// VisibleCount reports how many chunks are currently shown.
func (idx *Index) VisibleCount() int {
	n := 0
	for _, c := range idx.chunks {
		if c.visible {
			n++
		}
	}
	return n
}
