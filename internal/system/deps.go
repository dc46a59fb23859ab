// Package system implements the per-tick simulation pipeline. Execution
// order is fixed by phase: input → jump → motion → behavior → culling →
// cleanup. All systems run on the game-loop goroutine.
package system

import (
	"github.com/jacogrande/wayfare/internal/component"
	"github.com/jacogrande/wayfare/internal/vec"
)

// BlockChecker is the pixel-space blocking predicate supplied by the world.
type BlockChecker interface {
	BlockedAt(x, y float64) bool
}

// InputSource supplies the controlled entity's input intent once per tick.
// The windowing layer implements this; the core never touches raw events.
type InputSource interface {
	Poll() component.InputIntent
}

// CameraSource supplies the camera's world-pixel view rectangle once per
// tick for render culling.
type CameraSource interface {
	ViewRect() vec.Rect
}
