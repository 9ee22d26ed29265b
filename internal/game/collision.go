package game

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"
)

// Region is a drawable rectangle placed in the world: a texture-sized box
// pivoting around Origin, scaled and rotated about that pivot.
type Region struct {
	Pos      Vec2
	Size     Vec2
	Origin   Vec2
	Scale    Vec2 // zero components count as 1
	Rotation float64
}

func (r Region) scale() Vec2 {
	s := r.Scale
	if s.X == 0 {
		s.X = 1
	}
	if s.Y == 0 {
		s.Y = 1
	}
	return s
}

func (r Region) corners() [4]Vec2 {
	s := r.scale()
	local := [4]Vec2{
		{0, 0},
		{r.Size.X, 0},
		{r.Size.X, r.Size.Y},
		{0, r.Size.Y},
	}
	var out [4]Vec2
	for i, p := range local {
		p = p.Sub(r.Origin)
		p = Vec2{X: p.X * s.X, Y: p.Y * s.Y}
		out[i] = p.Rotated(r.Rotation).Add(r.Pos)
	}
	return out
}

// Extent returns the min and max corners of the world-space bounding box.
func (r Region) Extent() (Vec2, Vec2) {
	cs := r.corners()
	lo := Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi := Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, c := range cs {
		lo.X = math.Min(lo.X, c.X)
		lo.Y = math.Min(lo.Y, c.Y)
		hi.X = math.Max(hi.X, c.X)
		hi.Y = math.Max(hi.Y, c.Y)
	}
	return lo, hi
}

// Bounds is the axis-aligned envelope of the rotated rectangle. A region with
// non-finite corners yields the empty envelope, which intersects nothing.
func (r Region) Bounds() geom.Envelope {
	lo, hi := r.Extent()
	env, err := geom.NewEnvelope([]geom.XY{{X: lo.X, Y: lo.Y}, {X: hi.X, Y: hi.Y}})
	if err != nil {
		return geom.Envelope{}
	}
	return env
}

// BoundsSize is the width and height of the world-space bounding box.
func (r Region) BoundsSize() Vec2 {
	lo, hi := r.Extent()
	return hi.Sub(lo)
}

// Collision is the coarse test: do the two bounding boxes overlap.
func Collision(a, b Region) bool {
	return a.Bounds().Intersects(b.Bounds())
}

// PixelTester is the fine-grained overlap predicate (sprite mask intersection).
// It is supplied from outside the simulation and must only be consulted after
// Collision has passed.
type PixelTester interface {
	PixelPerfect(a, b Region) bool
}

type PixelTestFunc func(a, b Region) bool

func (f PixelTestFunc) PixelPerfect(a, b Region) bool { return f(a, b) }

// BoundsOnly confirms every coarse hit.
type BoundsOnly struct{}

func (BoundsOnly) PixelPerfect(Region, Region) bool { return true }

// Detector gates the fine test behind the bounding test.
type Detector struct {
	Fine PixelTester
}

func (d Detector) Confirmed(a, b Region) bool {
	if !Collision(a, b) {
		return false
	}
	if d.Fine == nil {
		return true
	}
	return d.Fine.PixelPerfect(a, b)
}
