package tile

import (
	"time"

	"github.com/jacogrande/wayfare/internal/core/ecs"
	"github.com/jacogrande/wayfare/internal/vec"
)

// Context is the immutable snapshot handed to behavior callbacks. Behaviors
// never reach into world state directly; anything they affect goes through
// the Effects sink.
type Context struct {
	Entity ecs.EntityID
	Tile   vec.Vec2
	Kind   Kind
}

// Effects is the narrow sink behaviors use to act on an entity.
type Effects interface {
	Damage(e ecs.EntityID, amount int)
	Heal(e ecs.EntityID, amount int)
}

// Behavior is per-kind tile logic invoked by the behavior system. OnStand
// fires every tick while an entity occupies the tile.
type Behavior interface {
	OnEnter(ctx Context, fx Effects)
	OnLeave(ctx Context, fx Effects)
	OnStand(ctx Context, fx Effects, dt time.Duration)
}

// PeriodicDamage hurts an occupant every Interval while it stands on the
// tile. The accumulator is per-entity so two entities on lava tick
// independently.
type PeriodicDamage struct {
	Interval time.Duration
	Amount   int
	elapsed  map[ecs.EntityID]time.Duration
}

func NewPeriodicDamage(interval time.Duration, amount int) *PeriodicDamage {
	return &PeriodicDamage{
		Interval: interval,
		Amount:   amount,
		elapsed:  make(map[ecs.EntityID]time.Duration),
	}
}

func (p *PeriodicDamage) OnEnter(ctx Context, fx Effects) {
	p.elapsed[ctx.Entity] = 0
	fx.Damage(ctx.Entity, p.Amount) // first hit on contact
}

func (p *PeriodicDamage) OnLeave(ctx Context, fx Effects) {
	delete(p.elapsed, ctx.Entity)
}

func (p *PeriodicDamage) OnStand(ctx Context, fx Effects, dt time.Duration) {
	p.elapsed[ctx.Entity] += dt
	for p.elapsed[ctx.Entity] >= p.Interval {
		p.elapsed[ctx.Entity] -= p.Interval
		fx.Damage(ctx.Entity, p.Amount)
	}
}

// PeriodicHeal restores an occupant every Interval. No contact tick — healing
// starts after the first full interval.
type PeriodicHeal struct {
	Interval time.Duration
	Amount   int
	elapsed  map[ecs.EntityID]time.Duration
}

func NewPeriodicHeal(interval time.Duration, amount int) *PeriodicHeal {
	return &PeriodicHeal{
		Interval: interval,
		Amount:   amount,
		elapsed:  make(map[ecs.EntityID]time.Duration),
	}
}

func (p *PeriodicHeal) OnEnter(ctx Context, fx Effects) {
	p.elapsed[ctx.Entity] = 0
}

func (p *PeriodicHeal) OnLeave(ctx Context, fx Effects) {
	delete(p.elapsed, ctx.Entity)
}

func (p *PeriodicHeal) OnStand(ctx Context, fx Effects, dt time.Duration) {
	p.elapsed[ctx.Entity] += dt
	for p.elapsed[ctx.Entity] >= p.Interval {
		p.elapsed[ctx.Entity] -= p.Interval
		fx.Heal(ctx.Entity, p.Amount)
	}
}
