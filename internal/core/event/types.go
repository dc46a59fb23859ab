package event

import (
	"github.com/jacogrande/wayfare/internal/core/ecs"
	"github.com/jacogrande/wayfare/internal/vec"
)

// EntityLanded fires when a jump finishes its landing timer and the entity
// returns to the ground.
type EntityLanded struct {
	EntityID ecs.EntityID
	Pos      vec.Vec2F
}

// TileEntered fires when an entity's occupied tile changes.
type TileEntered struct {
	EntityID ecs.EntityID
	Tile     vec.Vec2
}

// TileLeft fires for the tile the entity just vacated.
type TileLeft struct {
	EntityID ecs.EntityID
	Tile     vec.Vec2
}
