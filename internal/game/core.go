package game

import "math"

const degToRad = math.Pi / 180

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Rotated returns a rotated by deg degrees (clockwise on a y-down screen).
func (a Vec2) Rotated(deg float64) Vec2 {
	s, c := math.Sincos(deg * degToRad)
	return Vec2{X: a.X*c - a.Y*s, Y: a.X*s + a.Y*c}
}

type Circle struct {
	Center Vec2
	Radius float64
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Distance(a, b Vec2) float64 {
	return a.Sub(b).Len()
}

// Unit returns v scaled to length 1, or the zero vector when v has no length.
func Unit(v Vec2) Vec2 {
	l := v.Len()
	if l <= 1e-9 {
		return Vec2{}
	}
	return v.Scale(1.0 / l)
}

// Truncate caps the magnitude of v at max, keeping its direction.
func Truncate(v Vec2, max float64) Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// LineIntersectsCircle reports whether either end of the probe lies inside c.
// It is a cheap stand-in for a segment test, not exact geometry.
func LineIntersectsCircle(far, near Vec2, c Circle) bool {
	return Distance(c.Center, far) <= c.Radius || Distance(c.Center, near) <= c.Radius
}

// NormalizeDegrees wraps deg into [0,360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// angleDelta returns target-current folded into (-180,180].
func angleDelta(current, target float64) float64 {
	d := math.Mod(target-current, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// SmoothRotate turns current toward target along the shorter arc by at most maxStep degrees.
func SmoothRotate(current, target, maxStep float64) float64 {
	d := Clamp(angleDelta(current, target), -maxStep, maxStep)
	return current + d
}

// Heading is the unit vector for a rotation in degrees; 0 points along +X.
func Heading(deg float64) Vec2 {
	s, c := math.Sincos(deg * degToRad)
	return Vec2{X: c, Y: s}
}

func LerpVec(a, b Vec2, t float64) Vec2 {
	return Vec2{X: lerpFloat(a.X, b.X, t), Y: lerpFloat(a.Y, b.Y, t)}
}

func lerpFloat(a, b, t float64) float64 {
	return a + (b-a)*t
}
