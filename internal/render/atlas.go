package render

import (
	"github.com/jacogrande/wayfare/internal/tile"
	"github.com/jacogrande/wayfare/internal/vec"
)

// TextureID is an opaque handle into the renderer's texture storage.
type TextureID uint32

// Atlas resolves a tile kind to its ordered variant textures. A lookup miss
// means missing art — a content bug the index logs and skips, never a frame
// abort.
type Atlas interface {
	// Texture returns the handle for the given kind and variant index.
	Texture(kind tile.Kind, variant int) (TextureID, bool)
}

// Batch accumulates draw primitives for one chunk. Handles persist across
// visibility flips so hiding a chunk never reallocates.
type Batch interface {
	Clear()
	Add(tex TextureID, dst vec.Rect)
	Show()
	Hide()
}

// BatchFactory is the renderer-side constructor for chunk batches.
type BatchFactory interface {
	NewBatch() Batch
}
