package system

import (
	"time"

	"github.com/jacogrande/wayfare/internal/component"
	"github.com/jacogrande/wayfare/internal/config"
	"github.com/jacogrande/wayfare/internal/core/ecs"
	"github.com/jacogrande/wayfare/internal/core/event"
	coresys "github.com/jacogrande/wayfare/internal/core/system"
	"github.com/jacogrande/wayfare/internal/vec"
)

// ClearanceTolerance leaves a margin on obstacle heights so a jump that just
// reaches an obstacle's top still clears it.
const ClearanceTolerance = 0.9

// hangZone is the fraction of max height counted as the apex for hang-time
// damping.
const hangZone = 0.15

// JumpSystem advances every jumping entity's state machine and vertical
// physics, fires buffered jumps, and runs the landing-position search.
type JumpSystem struct {
	jumps      *ecs.Store[component.JumpState]
	intents    *ecs.Store[component.InputIntent]
	transforms *ecs.Store[component.Transform]
	blocked    BlockChecker // hitbox-position validity for landing assist
	bus        *event.Bus
	cfg        config.JumpConfig
}

func NewJumpSystem(
	jumps *ecs.Store[component.JumpState],
	intents *ecs.Store[component.InputIntent],
	transforms *ecs.Store[component.Transform],
	blocked BlockChecker,
	bus *event.Bus,
	cfg config.JumpConfig,
) *JumpSystem {
	return &JumpSystem{
		jumps:      jumps,
		intents:    intents,
		transforms: transforms,
		blocked:    blocked,
		bus:        bus,
		cfg:        cfg,
	}
}

func (s *JumpSystem) Phase() coresys.Phase { return coresys.PhaseJump }

func (s *JumpSystem) Update(dt time.Duration) {
	ecs.Each3(s.jumps, s.intents, s.transforms,
		func(id ecs.EntityID, js *component.JumpState, in *component.InputIntent, tr *component.Transform) {
			if in.JumpPressed {
				if CanJump(js, s.cfg.CoyoteTime) {
					StartJump(js, s.cfg.Strength)
				} else {
					// Remember the press so it fires on landing.
					js.BufferRemaining = s.cfg.BufferTime
				}
			}

			wasLanding := js.Phase == component.JumpLanding
			Advance(js, s.cfg, dt)

			// Landing entry: correct a blocked landing position.
			if js.Phase == component.JumpLanding && !wasLanding {
				s.correctLanding(tr)
			}

			if js.Phase == component.JumpGrounded {
				if wasLanding {
					event.Emit(s.bus, event.EntityLanded{EntityID: id, Pos: tr.Pos})
				}
				// Buffered jump fires immediately on grounding if still held.
				if js.BufferRemaining > 0 && in.JumpHeld {
					StartJump(js, s.cfg.Strength)
				}
			}
		})
}

func (s *JumpSystem) correctLanding(tr *component.Transform) {
	if !s.blocked.BlockedAt(tr.Pos.X, tr.Pos.Y) {
		return
	}
	corrected, ok := AssistLanding(tr.Pos, s.blocked, s.cfg.AssistStep, s.cfg.AssistRadius, s.cfg.AssistSnap)
	if ok {
		tr.Pos = corrected.Round()
	}
	// No valid position within range: leave the entity in place. It may be
	// stuck — a documented limitation, preferable to teleporting far away.
}

// CanJump reports jump eligibility: grounded, or within the coyote window
// since last grounded.
func CanJump(js *component.JumpState, coyote time.Duration) bool {
	if js.Phase == component.JumpGrounded {
		return true
	}
	return js.SinceGrounded <= coyote
}

// StartJump initiates a jump: upward velocity, Rising phase, timers reset.
func StartJump(js *component.JumpState, strength float64) {
	js.VVel = -strength
	js.Phase = component.JumpRising
	js.SinceGrounded = 0
	js.BufferRemaining = 0
}

// Advance runs one tick of the jump integrator and state machine. Height
// stays within [0, cfg.MaxHeight] for any call sequence.
func Advance(js *component.JumpState, cfg config.JumpConfig, dt time.Duration) {
	dts := dt.Seconds()

	if js.BufferRemaining > 0 {
		js.BufferRemaining -= dt
		if js.BufferRemaining < 0 {
			js.BufferRemaining = 0
		}
	}

	switch js.Phase {
	case component.JumpLanding:
		js.Height = 0
		js.VVel = 0
		js.LandingRemaining -= dt
		if js.LandingRemaining <= 0 {
			js.LandingRemaining = 0
			js.Phase = component.JumpGrounded
			js.SinceGrounded = 0
		} else {
			js.SinceGrounded += dt
		}

	case component.JumpGrounded:
		js.Height = 0
		js.VVel = 0
		js.SinceGrounded = 0

	default: // Rising or Falling
		js.VVel += cfg.Gravity * dts
		// Hang time: damp the descent at the apex for a floaty peak.
		if js.Height >= cfg.MaxHeight*(1-hangZone) && js.VVel > 0 {
			js.VVel *= cfg.HangFactor
		}
		js.Height -= js.VVel * dts

		if js.Height <= 0 {
			js.Height = 0
			js.VVel = 0
			js.Phase = component.JumpLanding
			js.LandingRemaining = cfg.LandingDuration
		} else {
			if js.Height >= cfg.MaxHeight {
				js.Height = cfg.MaxHeight
				if js.VVel < 0 {
					js.VVel = 0 // ceiling: kill upward velocity
				}
			}
			if js.VVel < 0 {
				js.Phase = component.JumpRising
			} else {
				js.Phase = component.JumpFalling
			}
		}
		js.SinceGrounded += dt
	}
}

// assistDirs are the 8 compass/diagonal search directions.
var assistDirs = [8]vec.Vec2F{
	{X: 0, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
	{X: 0, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: 0}, {X: -1, Y: -1},
}

// AssistLanding searches outward from a blocked landing point in fixed steps
// over 8 directions per radius. A candidate within snap distance accepts
// after the current radius finishes its 8 directions (never expanding to
// larger radii); otherwise the globally closest valid candidate within
// maxRadius wins. Returns false when nothing in range is free.
func AssistLanding(pos vec.Vec2F, blocked BlockChecker, step, maxRadius, snap float64) (vec.Vec2F, bool) {
	if step <= 0 || maxRadius <= 0 {
		return vec.Vec2F{}, false
	}

	var best vec.Vec2F
	bestDist := maxRadius + 1

	for r := step; r <= maxRadius; r += step {
		for _, d := range assistDirs {
			cand := vec.Vec2F{X: pos.X + d.X*r, Y: pos.Y + d.Y*r}
			if blocked.BlockedAt(cand.X, cand.Y) {
				continue
			}
			dist := cand.DistanceTo(pos)
			if dist > maxRadius {
				continue // diagonal offsets overshoot the radius bound
			}
			if dist < bestDist {
				best = cand
				bestDist = dist
			}
		}
		// Sub-snap hit: stop expanding, but only after this radius's full
		// 8-direction sweep so equally-near candidates compete.
		if bestDist <= snap {
			return best, true
		}
	}

	if bestDist <= maxRadius {
		return best, true
	}
	return vec.Vec2F{}, false
}
