package system

import (
	"math"
	"time"

	"github.com/jacogrande/wayfare/internal/component"
	"github.com/jacogrande/wayfare/internal/config"
	"github.com/jacogrande/wayfare/internal/core/ecs"
	"github.com/jacogrande/wayfare/internal/core/event"
	coresys "github.com/jacogrande/wayfare/internal/core/system"
	"github.com/jacogrande/wayfare/internal/grid"
	"github.com/jacogrande/wayfare/internal/vec"
)

// hitboxEpsilon insets the probe points so a hitbox flush against a tile
// boundary doesn't register as colliding through float error.
const hitboxEpsilon = 0.1

// MotionSystem integrates acceleration/drag movement and resolves collisions
// against the world's blocking predicate with axis-independent sliding.
type MotionSystem struct {
	transforms *ecs.Store[component.Transform]
	motions    *ecs.Store[component.Motion]
	intents    *ecs.Store[component.InputIntent]
	jumps      *ecs.Store[component.JumpState]
	world      *grid.Grid
	blocked    BlockChecker
	bus        *event.Bus
	cfg        config.MovementConfig
}

func NewMotionSystem(
	transforms *ecs.Store[component.Transform],
	motions *ecs.Store[component.Motion],
	intents *ecs.Store[component.InputIntent],
	jumps *ecs.Store[component.JumpState],
	world *grid.Grid,
	blocked BlockChecker,
	bus *event.Bus,
	cfg config.MovementConfig,
) *MotionSystem {
	return &MotionSystem{
		transforms: transforms,
		motions:    motions,
		intents:    intents,
		jumps:      jumps,
		world:      world,
		blocked:    blocked,
		bus:        bus,
		cfg:        cfg,
	}
}

func (s *MotionSystem) Phase() coresys.Phase { return coresys.PhaseMotion }

func (s *MotionSystem) Update(dt time.Duration) {
	dts := dt.Seconds()
	ecs.Each3(s.transforms, s.motions, s.intents,
		func(id ecs.EntityID, tr *component.Transform, mo *component.Motion, in *component.InputIntent) {
			js, hasJump := s.jumps.Get(id)

			// Air control scales both acceleration and drag while airborne.
			mult := 1.0
			if hasJump && js.Airborne() {
				mult = s.cfg.AirControl
			}

			mo.Vel = mo.Vel.Add(in.Move.Scale(s.cfg.Accel * mult * dts))

			// Exponential drag is frame-rate independent.
			mo.Vel = mo.Vel.Scale(math.Exp(-s.cfg.Drag * mult * dts))

			maxSpeed := s.cfg.MaxSpeed
			if in.Sprint {
				maxSpeed *= s.cfg.SprintBoost
			}
			if speed := mo.Vel.Len(); speed > maxSpeed {
				mo.Vel = mo.Vel.Scale(maxSpeed / speed)
			}

			proposed := tr.Pos.Add(mo.Vel.Scale(dts))

			var js2 *component.JumpState
			if hasJump {
				js2 = js
			}
			resolved := s.resolve(tr.Pos, proposed, mo, js2)

			// Pixel-perfect snap; downstream collision queries next tick see
			// integer positions.
			tr.Pos = resolved.Round()

			// Occupied-tile change events for the behavior system.
			newTile := s.world.TileOf(tr.Pos)
			if newTile != tr.Tile {
				event.Emit(s.bus, event.TileLeft{EntityID: id, Tile: tr.Tile})
				event.Emit(s.bus, event.TileEntered{EntityID: id, Tile: newTile})
				tr.Tile = newTile
			}
		})
}

// resolve applies swept AABB collision with wall sliding: a blocked diagonal
// retries horizontal-only, then vertical-only. Velocity on a blocked axis is
// zeroed, not just the position.
func (s *MotionSystem) resolve(from, to vec.Vec2F, mo *component.Motion, js *component.JumpState) vec.Vec2F {
	if s.blocked == nil {
		return to
	}
	if s.canOccupy(to, mo.Hitbox, js) {
		return to
	}

	horiz := vec.Vec2F{X: to.X, Y: from.Y}
	if to.X != from.X && s.canOccupy(horiz, mo.Hitbox, js) {
		mo.Vel.Y = 0
		return horiz
	}

	vert := vec.Vec2F{X: from.X, Y: to.Y}
	if to.Y != from.Y && s.canOccupy(vert, mo.Hitbox, js) {
		mo.Vel.X = 0
		return vert
	}

	mo.Vel = vec.Vec2F{}
	return from
}

// canOccupy probes the hitbox rectangle at pos: center plus 8 boundary
// points, inset by a small epsilon.
func (s *MotionSystem) canOccupy(pos vec.Vec2F, hitbox vec.Vec2F, js *component.JumpState) bool {
	hw := hitbox.X/2 - hitboxEpsilon
	hh := hitbox.Y/2 - hitboxEpsilon
	if hw < 0 {
		hw = 0
	}
	if hh < 0 {
		hh = 0
	}
	points := [9]vec.Vec2F{
		{X: pos.X, Y: pos.Y},
		{X: pos.X - hw, Y: pos.Y - hh},
		{X: pos.X, Y: pos.Y - hh},
		{X: pos.X + hw, Y: pos.Y - hh},
		{X: pos.X + hw, Y: pos.Y},
		{X: pos.X + hw, Y: pos.Y + hh},
		{X: pos.X, Y: pos.Y + hh},
		{X: pos.X - hw, Y: pos.Y + hh},
		{X: pos.X - hw, Y: pos.Y},
	}
	for _, p := range points {
		if s.blockedFor(js, p.X, p.Y) {
			return false
		}
	}
	return true
}

// blockedFor is the jump-aware wrapper around the world predicate: a blocked
// cell whose obstacle height the current jump clears does not block.
func (s *MotionSystem) blockedFor(js *component.JumpState, x, y float64) bool {
	if !s.blocked.BlockedAt(x, y) {
		return false
	}
	if js == nil || !js.Airborne() {
		return true
	}
	tx, ty := s.world.WorldToTile(x, y)
	h := s.world.ObstacleHeightAt(tx, ty)
	if h <= 0 {
		return true // collision not backed by a tile obstacle (map edge, bitmap-only)
	}
	return !js.CanClearObstacle(h, ClearanceTolerance)
}
