// Package gen builds a playable tile grid procedurally when no authored map
// is configured. Terrain comes from seeded Perlin noise, so the same seed
// always generates the same world.
package gen

import (
	"github.com/aquilax/go-perlin"

	"github.com/jacogrande/wayfare/internal/grid"
	"github.com/jacogrande/wayfare/internal/tile"
)

// Elevation thresholds for the normalized noise value.
const (
	waterMax = 0.35
	sandMax  = 0.42
	grassMax = 0.75
	stoneMax = 0.92 // above this: wall peaks
)

// Generator produces tile grids deterministically from a seed.
type Generator struct {
	noise *perlin.Perlin
	scale float64
}

func New(seed int64) *Generator {
	return &Generator{
		noise: perlin.NewPerlin(2, 2, 3, seed),
		scale: 0.05,
	}
}

// Generate builds a w×h grid with a ground layer and an obstacle layer,
// then syncs the collision bitmap.
func (gn *Generator) Generate(w, h, edge int, kinds *tile.Registry) (*grid.Grid, error) {
	g, err := grid.New(w, h, edge, kinds)
	if err != nil {
		return nil, err
	}

	ground := grid.NewLayer("ground", 0, w, h)
	obstacles := grid.NewLayer("obstacles", 1, w, h)

	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			n := gn.elevation(tx, ty)
			switch {
			case n < waterMax:
				ground.SetTile(tx, ty, grid.NewTile(tile.KindWater))
			case n < sandMax:
				ground.SetTile(tx, ty, grid.NewTile(tile.KindSand))
			case n < grassMax:
				ground.SetTile(tx, ty, grid.NewTile(tile.KindGrass))
			case n < stoneMax:
				ground.SetTile(tx, ty, grid.NewTile(tile.KindGrass))
				obstacles.SetTile(tx, ty, grid.NewTile(tile.KindStone))
			default:
				ground.SetTile(tx, ty, grid.NewTile(tile.KindGrass))
				obstacles.SetTile(tx, ty, grid.NewTile(tile.KindWall))
			}
		}
	}

	// Scattered low fences on open grass, position-hashed so regeneration is
	// stable without touching the noise field.
	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			if ground.TileAt(tx, ty).Kind != tile.KindGrass {
				continue
			}
			if !obstacles.TileAt(tx, ty).IsEmpty() {
				continue
			}
			if tile.Hash2D(tx, ty) > 0.985 {
				obstacles.SetTile(tx, ty, grid.NewTile(tile.KindFence))
			}
		}
	}

	if err := g.AddLayer(ground); err != nil {
		return nil, err
	}
	if err := g.AddLayer(obstacles); err != nil {
		return nil, err
	}
	g.SyncCollisionFromTiles()
	return g, nil
}

// elevation returns noise normalized to [0, 1].
func (gn *Generator) elevation(tx, ty int) float64 {
	n := gn.noise.Noise2D(float64(tx)*gn.scale, float64(ty)*gn.scale)
	// Perlin output sits in roughly [-0.87, 0.87]; stretch and clamp.
	n = (n + 0.87) / 1.74
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	return n
}
