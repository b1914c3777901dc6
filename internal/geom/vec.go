package geom

import "math"

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }
func (a Vec2) Len2() float64        { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Finite reports whether both components are usable numbers.
func (a Vec2) Finite() bool { return IsFinite(a.X) && IsFinite(a.Y) }

func IsFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Distance(a, b Vec2) float64 { return a.Sub(b).Len() }

// Distance2 is the squared distance; prefer it in per-tick loops.
func Distance2(a, b Vec2) float64 { return a.Sub(b).Len2() }
