package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash2DDeterministic(t *testing.T) {
	for _, p := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {-5, 7}, {1000, -1000}, {123456, 654321}} {
		first := Hash2D(p[0], p[1])
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Hash2D(p[0], p[1]), "hash must be pure at (%d,%d)", p[0], p[1])
		}
		assert.GreaterOrEqual(t, first, -1.0)
		assert.LessOrEqual(t, first, 1.0)
	}
}

func TestHash2DVaries(t *testing.T) {
	// Not a distribution test — just that neighbours don't collapse to one
	// value, which would make "random" variants visibly uniform.
	seen := make(map[float64]struct{})
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			seen[Hash2D(x, y)] = struct{}{}
		}
	}
	assert.Greater(t, len(seen), 200)
}

func TestValueNoise2DRange(t *testing.T) {
	for x := -30; x < 30; x++ {
		for y := -30; y < 30; y++ {
			n := ValueNoise2D(float64(x)/7.3, float64(y)/7.3)
			require.GreaterOrEqual(t, n, -1.0)
			require.LessOrEqual(t, n, 1.0)
		}
	}
}

func TestValueNoise2DMatchesLatticeAtIntegers(t *testing.T) {
	// At integer coordinates the bilinear blend collapses to the corner hash.
	for _, p := range [][2]int{{0, 0}, {3, 4}, {-2, 9}} {
		assert.InDelta(t, Hash2D(p[0], p[1]), ValueNoise2D(float64(p[0]), float64(p[1])), 1e-12)
	}
}

func TestSelectVariantStatic(t *testing.T) {
	cfg := &KindConfig{Variants: 7, Strategy: StrategyStatic}
	for _, p := range [][2]int{{0, 0}, {13, 42}, {-1, -1}, {999, 0}} {
		assert.Equal(t, 0, SelectVariant(cfg, p[0], p[1]))
	}
}

func TestSelectVariantSingleCount(t *testing.T) {
	for _, strat := range []string{StrategyStatic, StrategyCheckerboard, StrategyRandom, StrategyNoise} {
		cfg := &KindConfig{Variants: 1, Strategy: strat, NoiseScale: 8}
		for _, p := range [][2]int{{0, 0}, {5, 5}, {-3, 17}} {
			assert.Equal(t, 0, SelectVariant(cfg, p[0], p[1]), "strategy %s", strat)
		}
	}
}

func TestSelectVariantCheckerboard(t *testing.T) {
	cfg := &KindConfig{Variants: 2, Strategy: StrategyCheckerboard}
	assert.Equal(t, 0, SelectVariant(cfg, 0, 0))
	assert.Equal(t, 1, SelectVariant(cfg, 1, 0))
	assert.Equal(t, 1, SelectVariant(cfg, 0, 1))
	assert.Equal(t, 0, SelectVariant(cfg, 1, 1))
	// Negative coordinates stay in range.
	assert.Contains(t, []int{0, 1}, SelectVariant(cfg, -1, 0))
}

func TestSelectVariantInRange(t *testing.T) {
	for _, strat := range []string{StrategyRandom, StrategyNoise} {
		cfg := &KindConfig{Variants: 5, Strategy: strat, NoiseScale: 8}
		for x := -20; x < 20; x++ {
			for y := -20; y < 20; y++ {
				v := SelectVariant(cfg, x, y)
				require.GreaterOrEqual(t, v, 0, "strategy %s", strat)
				require.Less(t, v, 5, "strategy %s", strat)
			}
		}
	}
}

func TestSelectVariantStableAcrossCalls(t *testing.T) {
	cfg := &KindConfig{Variants: 4, Strategy: StrategyRandom}
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			first := SelectVariant(cfg, x, y)
			assert.Equal(t, first, SelectVariant(cfg, x, y))
		}
	}
}
