package system

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacogrande/wayfare/internal/component"
	"github.com/jacogrande/wayfare/internal/config"
	"github.com/jacogrande/wayfare/internal/core/ecs"
	"github.com/jacogrande/wayfare/internal/core/event"
	"github.com/jacogrande/wayfare/internal/grid"
	"github.com/jacogrande/wayfare/internal/tile"
	"github.com/jacogrande/wayfare/internal/vec"
)

type motionRig struct {
	world      *grid.Grid
	transforms *ecs.Store[component.Transform]
	motions    *ecs.Store[component.Motion]
	intents    *ecs.Store[component.InputIntent]
	jumps      *ecs.Store[component.JumpState]
	bus        *event.Bus
	sys        *MotionSystem
	id         ecs.EntityID
}

// newMotionRig builds a 10x10 world with 32px tiles and one entity with a
// 20x24 hitbox at the given position.
func newMotionRig(t *testing.T, pos vec.Vec2F) *motionRig {
	t.Helper()
	world, err := grid.New(10, 10, 32, tile.Builtin())
	require.NoError(t, err)

	r := &motionRig{
		world:      world,
		transforms: ecs.NewStore[component.Transform](),
		motions:    ecs.NewStore[component.Motion](),
		intents:    ecs.NewStore[component.InputIntent](),
		jumps:      ecs.NewStore[component.JumpState](),
		bus:        event.NewBus(),
	}
	r.sys = NewMotionSystem(r.transforms, r.motions, r.intents, r.jumps,
		world, world, r.bus, config.Defaults().Movement)

	r.id = ecs.NewPool().Create()
	r.transforms.Set(r.id, &component.Transform{Pos: pos, Tile: world.TileOf(pos)})
	r.motions.Set(r.id, &component.Motion{Hitbox: vec.Vec2F{X: 20, Y: 24}})
	r.intents.Set(r.id, &component.InputIntent{})
	return r
}

func TestMotionDiagonalWallSlide(t *testing.T) {
	// A solid wall column at tx=5. An entity pushing into it diagonally
	// keeps its vertical progress while the horizontal axis stops dead.
	r := newMotionRig(t, vec.Vec2F{X: 149, Y: 149})
	for ty := 0; ty < 10; ty++ {
		r.world.SetCollision(5, ty, true)
	}
	mo, _ := r.motions.Get(r.id)
	mo.Vel = vec.Vec2F{X: 600, Y: 600}

	r.sys.Update(16 * time.Millisecond)

	tr, _ := r.transforms.Get(r.id)
	assert.Equal(t, 149.0, tr.Pos.X, "horizontal axis pinned at the wall")
	assert.Greater(t, tr.Pos.Y, 149.0, "vertical axis slides on")
	assert.Zero(t, mo.Vel.X, "velocity on the blocked axis is zeroed")
	assert.Greater(t, mo.Vel.Y, 0.0)
}

func TestMotionAirborneDiagonalWallSlide(t *testing.T) {
	// Same wall, but mid-jump. Bitmap-only collision has no obstacle height
	// to clear, so the wall still blocks and the slide still applies — with
	// air-control scaling the drag.
	r := newMotionRig(t, vec.Vec2F{X: 149, Y: 149})
	for ty := 0; ty < 10; ty++ {
		r.world.SetCollision(5, ty, true)
	}
	r.jumps.Set(r.id, &component.JumpState{Phase: component.JumpRising, Height: 10})
	mo, _ := r.motions.Get(r.id)
	mo.Vel = vec.Vec2F{X: 600, Y: 600}

	r.sys.Update(16 * time.Millisecond)

	tr, _ := r.transforms.Get(r.id)
	assert.Equal(t, 149.0, tr.Pos.X, "horizontal axis pinned at the wall")
	assert.Greater(t, tr.Pos.Y, 149.0, "vertical axis slides on")
	assert.Zero(t, mo.Vel.X)
	assert.Greater(t, mo.Vel.Y, 0.0)
}

func TestMotionAirControlScalesAccelAndDrag(t *testing.T) {
	cfg := config.Defaults().Movement
	dt := 16 * time.Millisecond
	dts := dt.Seconds()

	velAfterTick := func(t *testing.T, js *component.JumpState) float64 {
		r := newMotionRig(t, vec.Vec2F{X: 100, Y: 100})
		if js != nil {
			r.jumps.Set(r.id, js)
		}
		in, _ := r.intents.Get(r.id)
		in.Move = vec.Vec2F{X: 1, Y: 0}
		r.sys.Update(dt)
		mo, _ := r.motions.Get(r.id)
		return mo.Vel.X
	}

	grounded := velAfterTick(t, nil)
	airborne := velAfterTick(t, &component.JumpState{Phase: component.JumpRising, Height: 10})

	// One tick from rest: v = accel·mult·dt · exp(-drag·mult·dt), with the
	// multiplier applied to both terms.
	assert.InDelta(t, cfg.Accel*dts*math.Exp(-cfg.Drag*dts), grounded, 1e-9)
	assert.InDelta(t,
		cfg.Accel*cfg.AirControl*dts*math.Exp(-cfg.Drag*cfg.AirControl*dts),
		airborne, 1e-9)
	assert.Less(t, airborne, grounded, "air control blunts the speed gain")
}

func TestMotionFullStopInCorner(t *testing.T) {
	// Blocked ahead on both axes: the entity holds position and loses all
	// velocity.
	r := newMotionRig(t, vec.Vec2F{X: 149, Y: 148})
	for i := 0; i < 10; i++ {
		r.world.SetCollision(5, i, true)
		r.world.SetCollision(i, 5, true)
	}
	mo, _ := r.motions.Get(r.id)
	mo.Vel = vec.Vec2F{X: 600, Y: 600}

	r.sys.Update(16 * time.Millisecond)

	tr, _ := r.transforms.Get(r.id)
	assert.Equal(t, vec.Vec2F{X: 149, Y: 148}, tr.Pos)
	assert.Equal(t, vec.Vec2F{}, mo.Vel)
}

func TestMotionPixelSnap(t *testing.T) {
	r := newMotionRig(t, vec.Vec2F{X: 100, Y: 100})
	mo, _ := r.motions.Get(r.id)
	mo.Vel = vec.Vec2F{X: 85, Y: -42}

	for i := 0; i < 5; i++ {
		r.sys.Update(16 * time.Millisecond)
		tr, _ := r.transforms.Get(r.id)
		assert.Equal(t, math.Round(tr.Pos.X), tr.Pos.X, "positions stay integral")
		assert.Equal(t, math.Round(tr.Pos.Y), tr.Pos.Y)
	}
}

func TestMotionSpeedClamp(t *testing.T) {
	cfg := config.Defaults().Movement

	t.Run("walk", func(t *testing.T) {
		r := newMotionRig(t, vec.Vec2F{X: 100, Y: 100})
		mo, _ := r.motions.Get(r.id)
		mo.Vel = vec.Vec2F{X: 600, Y: 0}
		r.sys.Update(16 * time.Millisecond)
		assert.InDelta(t, cfg.MaxSpeed, mo.Vel.Len(), 1e-9)
	})

	t.Run("sprint", func(t *testing.T) {
		r := newMotionRig(t, vec.Vec2F{X: 100, Y: 100})
		mo, _ := r.motions.Get(r.id)
		in, _ := r.intents.Get(r.id)
		in.Sprint = true
		mo.Vel = vec.Vec2F{X: 600, Y: 0}
		r.sys.Update(16 * time.Millisecond)
		assert.InDelta(t, cfg.MaxSpeed*cfg.SprintBoost, mo.Vel.Len(), 1e-9)
	})
}

func TestMotionDragStopsCoasting(t *testing.T) {
	r := newMotionRig(t, vec.Vec2F{X: 100, Y: 100})
	mo, _ := r.motions.Get(r.id)
	mo.Vel = vec.Vec2F{X: 140, Y: 0}

	// No input: exponential drag bleeds speed every tick.
	prev := mo.Vel.Len()
	for i := 0; i < 60; i++ {
		r.sys.Update(16 * time.Millisecond)
		require.Less(t, mo.Vel.Len(), prev+1e-9)
		prev = mo.Vel.Len()
	}
	assert.Less(t, mo.Vel.Len(), 1.0, "coasting speed decays toward zero")
}

func TestMotionAirborneClearsLowObstacle(t *testing.T) {
	// A fence (8px tall) blocks grounded movement but not an entity at
	// 10px of jump height.
	obstacles := grid.NewLayer("obstacles", 1, 10, 10)
	obstacles.SetTile(5, 4, grid.NewTile(tile.KindFence))

	run := func(t *testing.T, js *component.JumpState) vec.Vec2F {
		r := newMotionRig(t, vec.Vec2F{X: 155, Y: 144})
		require.NoError(t, r.world.AddLayer(obstacles))
		r.world.SyncCollisionFromTiles()
		if js != nil {
			r.jumps.Set(r.id, js)
		}
		mo, _ := r.motions.Get(r.id)
		mo.Vel = vec.Vec2F{X: 140, Y: 0}
		r.sys.Update(16 * time.Millisecond)
		tr, _ := r.transforms.Get(r.id)
		return tr.Pos
	}

	t.Run("grounded is blocked", func(t *testing.T) {
		pos := run(t, nil)
		assert.Equal(t, 155.0, pos.X)
	})
	t.Run("airborne clears", func(t *testing.T) {
		pos := run(t, &component.JumpState{Phase: component.JumpRising, Height: 10})
		assert.Greater(t, pos.X, 155.0)
	})
	t.Run("airborne too low is blocked", func(t *testing.T) {
		pos := run(t, &component.JumpState{Phase: component.JumpRising, Height: 3})
		assert.Equal(t, 155.0, pos.X)
	})
}

func TestMotionEmitsTileChangeEvents(t *testing.T) {
	// Crossing from tile (3,3) into (4,3) emits a leave/enter pair.
	r := newMotionRig(t, vec.Vec2F{X: 126, Y: 112})
	mo, _ := r.motions.Get(r.id)
	mo.Vel = vec.Vec2F{X: 140, Y: 0}

	var entered []event.TileEntered
	var left []event.TileLeft
	event.Subscribe(r.bus, func(ev event.TileEntered) { entered = append(entered, ev) })
	event.Subscribe(r.bus, func(ev event.TileLeft) { left = append(left, ev) })

	for i := 0; i < 10; i++ {
		r.sys.Update(16 * time.Millisecond)
	}
	r.bus.SwapBuffers()
	r.bus.DispatchAll()

	require.NotEmpty(t, entered)
	require.NotEmpty(t, left)
	assert.Equal(t, vec.Vec2{X: 3, Y: 3}, left[0].Tile)
	assert.Equal(t, vec.Vec2{X: 4, Y: 3}, entered[0].Tile)

	tr, _ := r.transforms.Get(r.id)
	assert.Equal(t, vec.Vec2{X: 4, Y: 3}, tr.Tile, "cached tile tracks position")
}
