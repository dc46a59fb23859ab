package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/jacogrande/wayfare/internal/component"
	"github.com/jacogrande/wayfare/internal/core/ecs"
	"github.com/jacogrande/wayfare/internal/core/event"
	coresys "github.com/jacogrande/wayfare/internal/core/system"
	"github.com/jacogrande/wayfare/internal/grid"
	"github.com/jacogrande/wayfare/internal/tile"
	"github.com/jacogrande/wayfare/internal/vec"
)

// BehaviorSystem dispatches per-kind tile callbacks: enter/leave via bus
// events, stand every tick an entity occupies the tile. It is also the
// Effects sink behaviors act through.
type BehaviorSystem struct {
	transforms *ecs.Store[component.Transform]
	healths    *ecs.Store[component.Health]
	world      *grid.Grid
	log        *zap.Logger
}

func NewBehaviorSystem(
	transforms *ecs.Store[component.Transform],
	healths *ecs.Store[component.Health],
	world *grid.Grid,
	bus *event.Bus,
	log *zap.Logger,
) *BehaviorSystem {
	s := &BehaviorSystem{
		transforms: transforms,
		healths:    healths,
		world:      world,
		log:        log,
	}
	// Enter/leave ride the double-buffered bus, so they land one tick after
	// the move: on the entry tick OnStand runs before OnEnter. Behaviors
	// with accumulators reset them in OnEnter.
	event.Subscribe(bus, func(ev event.TileEntered) {
		if b, ctx, ok := s.behaviorAt(ev.Tile, ev.EntityID); ok {
			b.OnEnter(ctx, s)
		}
	})
	event.Subscribe(bus, func(ev event.TileLeft) {
		if b, ctx, ok := s.behaviorAt(ev.Tile, ev.EntityID); ok {
			b.OnLeave(ctx, s)
		}
	})
	return s
}

func (s *BehaviorSystem) Phase() coresys.Phase { return coresys.PhaseBehavior }

func (s *BehaviorSystem) Update(dt time.Duration) {
	s.transforms.Each(func(id ecs.EntityID, tr *component.Transform) {
		if b, ctx, ok := s.behaviorAt(tr.Tile, id); ok {
			b.OnStand(ctx, s, dt)
		}
	})
}

func (s *BehaviorSystem) behaviorAt(t vec.Vec2, id ecs.EntityID) (tile.Behavior, tile.Context, bool) {
	top, ok := s.world.TopTileAt(t.X, t.Y)
	if !ok {
		return nil, tile.Context{}, false
	}
	cfg, ok := s.world.Kinds().Get(top.Kind)
	if !ok || cfg.Behavior == nil {
		return nil, tile.Context{}, false
	}
	return cfg.Behavior, tile.Context{Entity: id, Tile: t, Kind: top.Kind}, true
}

// Damage implements tile.Effects. HP floors at zero; death handling is the
// caller's concern, not the tile's.
func (s *BehaviorSystem) Damage(e ecs.EntityID, amount int) {
	h, ok := s.healths.Get(e)
	if !ok {
		return
	}
	h.HP -= amount
	if h.HP < 0 {
		h.HP = 0
	}
	s.log.Debug("tile damage", zap.Uint64("entity", uint64(e)), zap.Int("amount", amount), zap.Int("hp", h.HP))
}

// Heal implements tile.Effects. HP caps at MaxHP.
func (s *BehaviorSystem) Heal(e ecs.EntityID, amount int) {
	h, ok := s.healths.Get(e)
	if !ok {
		return
	}
	h.HP += amount
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
}
