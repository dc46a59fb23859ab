package tile

import "math"

// Variant strategies.
const (
	StrategyStatic       = "static"
	StrategyCheckerboard = "checkerboard"
	StrategyRandom       = "random"
	StrategyNoise        = "noise"
)

func validStrategy(s string) bool {
	switch s {
	case StrategyStatic, StrategyCheckerboard, StrategyRandom, StrategyNoise:
		return true
	}
	return false
}

// hashBits is the position mix underlying both the random strategy and the
// noise lattice. 32-bit wrapping arithmetic; the constants are load-bearing —
// variant selection must be stable across sessions, so the output has to be
// bit-for-bit reproducible.
func hashBits(x, y int) uint32 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return h
}

// Hash2D maps a tile position to a deterministic value in [-1, 1].
func Hash2D(x, y int) float64 {
	return float64(hashBits(x, y)&0x7fffffff)/float64(0x7fffffff)*2 - 1
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// smoothstep eases the interpolation weight so lattice seams don't show.
func smoothstep(t float64) float64 { return t * t * (3 - 2*t) }

// ValueNoise2D samples bilinear value noise at (x, y) using Hash2D at the
// four surrounding lattice corners. Output is in [-1, 1].
func ValueNoise2D(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix := int(x0)
	iy := int(y0)
	sx := smoothstep(x - x0)
	sy := smoothstep(y - y0)

	n00 := Hash2D(ix, iy)
	n10 := Hash2D(ix+1, iy)
	n01 := Hash2D(ix, iy+1)
	n11 := Hash2D(ix+1, iy+1)

	return lerp(lerp(n00, n10, sx), lerp(n01, n11, sx), sy)
}

// SelectVariant picks the texture variant for a kind at tile position (x, y).
// Pure and position-keyed: the same inputs always give the same output.
func SelectVariant(cfg *KindConfig, x, y int) int {
	if cfg.Variants <= 1 {
		return 0
	}
	switch cfg.Strategy {
	case StrategyCheckerboard:
		v := (x + y) % cfg.Variants
		if v < 0 {
			v += cfg.Variants
		}
		return v
	case StrategyRandom:
		return int(hashBits(x, y)&0x7fffffff) % cfg.Variants
	case StrategyNoise:
		n := ValueNoise2D(float64(x)/cfg.NoiseScale, float64(y)/cfg.NoiseScale)
		return int(math.Floor((n+1)/2*float64(cfg.Variants))) % cfg.Variants
	default: // static
		return 0
	}
}
