// Package component holds plain data attached to entities. Logic lives in
// the systems; components are state only.
package component

import (
	"time"

	"github.com/jacogrande/wayfare/internal/vec"
)

// Transform is an entity's position in world pixels plus its cached tile
// coordinate (updated by the motion system, read by tile behaviors).
type Transform struct {
	Pos  vec.Vec2F
	Tile vec.Vec2
}

// Motion is the horizontal movement state.
type Motion struct {
	Vel    vec.Vec2F // px/s
	Hitbox vec.Vec2F // width/height in px, centered on Pos
}

// InputIntent is one tick's sampled input. Move is pre-normalized: diagonal
// input has unit length.
type InputIntent struct {
	Move        vec.Vec2F
	Sprint      bool
	JumpPressed bool // edge: went down this tick
	JumpHeld    bool
}

// Health is the damage/heal target for tile behaviors.
type Health struct {
	HP    int
	MaxHP int
}

// JumpPhase is the jump state machine's current state.
type JumpPhase uint8

const (
	JumpGrounded JumpPhase = iota
	JumpRising
	JumpFalling
	JumpLanding
)

func (p JumpPhase) String() string {
	switch p {
	case JumpGrounded:
		return "grounded"
	case JumpRising:
		return "rising"
	case JumpFalling:
		return "falling"
	case JumpLanding:
		return "landing"
	}
	return "unknown"
}

// JumpState is the vertical movement state. Height is pixels off the ground
// plane; VVel is positive downward (height decreases as VVel integrates in).
type JumpState struct {
	Phase  JumpPhase
	Height float64
	VVel   float64

	SinceGrounded    time.Duration // time since last grounded instant
	BufferRemaining  time.Duration // live jump-buffer window, 0 = none
	LandingRemaining time.Duration // countdown while Phase == JumpLanding
}

// Airborne reports whether the entity is off the ground (air control and
// obstacle clearance apply).
func (j *JumpState) Airborne() bool {
	return j.Phase == JumpRising || j.Phase == JumpFalling
}

// CanClearObstacle reports whether the current jump height passes over an
// obstacle of the given height. Tolerance leaves a margin so grazing the top
// of an obstacle still clears it.
func (j *JumpState) CanClearObstacle(obstacleHeight, tolerance float64) bool {
	return j.Height >= obstacleHeight*tolerance
}
