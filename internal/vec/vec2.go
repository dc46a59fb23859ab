package vec

import "math"

// Vec2 is an integer 2D coordinate (tile or pixel units depending on context).
type Vec2 struct {
	X, Y int
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// ToF converts to float coordinates.
func (v Vec2) ToF() Vec2F { return Vec2F{float64(v.X), float64(v.Y)} }

// Vec2F is a float 2D coordinate in world pixels.
type Vec2F struct {
	X, Y float64
}

func (v Vec2F) Add(o Vec2F) Vec2F          { return Vec2F{v.X + o.X, v.Y + o.Y} }
func (v Vec2F) Sub(o Vec2F) Vec2F          { return Vec2F{v.X - o.X, v.Y - o.Y} }
func (v Vec2F) Scale(s float64) Vec2F      { return Vec2F{v.X * s, v.Y * s} }
func (v Vec2F) Len() float64               { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vec2F) DistanceTo(o Vec2F) float64 { return v.Sub(o).Len() }

// Normalized returns a unit-length copy, or the zero vector unchanged.
func (v Vec2F) Normalized() Vec2F {
	l := v.Len()
	if l == 0 {
		return Vec2F{}
	}
	return Vec2F{v.X / l, v.Y / l}
}

// Round snaps both axes to the nearest integer pixel.
func (v Vec2F) Round() Vec2F {
	return Vec2F{math.Round(v.X), math.Round(v.Y)}
}

// Rect is an axis-aligned rectangle in world pixels.
type Rect struct {
	X, Y, W, H float64
}

// Expand grows the rect by m pixels on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{r.X - m, r.Y - m, r.W + 2*m, r.H + 2*m}
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }
