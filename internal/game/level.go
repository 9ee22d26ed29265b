package game

import "fmt"

// WallPlacement is one wall tile from the level layout.
type WallPlacement struct {
	Pos      Vec2    `json:"pos"`
	Rotation float64 `json:"rotation"`
}

type Placement struct {
	Pos   Vec2 `json:"pos"`
	Scale Vec2 `json:"scale"`
}

// Level is the immutable layout a match is built from.
type Level struct {
	Name  string          `json:"name"`
	Field Vec2            `json:"field"`
	Walls []WallPlacement `json:"walls"`
	Tank  Placement       `json:"tank"`
	AI    Placement       `json:"ai"`
}

var wallRect = Vec2{X: WallSize, Y: WallSize}

// WallRegions builds the collision rectangles for every wall tile, pivoting
// on the tile centre.
func (l Level) WallRegions() []Region {
	out := make([]Region, 0, len(l.Walls))
	for _, w := range l.Walls {
		out = append(out, Region{
			Pos:      w.Pos,
			Size:     wallRect,
			Origin:   wallRect.Scale(0.5),
			Rotation: w.Rotation,
		})
	}
	return out
}

func (l Level) Validate() error {
	if l.Field.X <= 0 || l.Field.Y <= 0 {
		return fmt.Errorf("level %q: field must be positive, got %vx%v", l.Name, l.Field.X, l.Field.Y)
	}
	for i, w := range l.Walls {
		if w.Pos.X < 0 || w.Pos.Y < 0 || w.Pos.X > l.Field.X || w.Pos.Y > l.Field.Y {
			return fmt.Errorf("level %q: wall %d at (%v,%v) is off the field", l.Name, i, w.Pos.X, w.Pos.Y)
		}
	}
	return nil
}

// DefaultLevel is a single arena: two wall columns with a gap in the middle
// and a short barrier in front of each spawn.
func DefaultLevel() Level {
	l := Level{
		Name:  "arena",
		Field: Vec2{X: FieldW, Y: FieldH},
		Tank:  Placement{Pos: Vec2{X: 200, Y: 450}, Scale: Vec2{X: 0.5, Y: 0.5}},
		AI:    Placement{Pos: Vec2{X: 1240, Y: 450}, Scale: Vec2{X: 0.5, Y: 0.5}},
	}
	for _, x := range []float64{560, 880} {
		for y := 120.0; y <= 780; y += WallSize {
			if y > 360 && y < 540 {
				continue
			}
			l.Walls = append(l.Walls, WallPlacement{Pos: Vec2{X: x, Y: y}})
		}
	}
	for _, x := range []float64{380, 1060} {
		for y := 300.0; y <= 360; y += WallSize {
			l.Walls = append(l.Walls, WallPlacement{Pos: Vec2{X: x, Y: y}, Rotation: 45})
		}
	}
	return l
}

var levels = map[string]func() Level{
	"arena": DefaultLevel,
}

// LevelByName looks up a built-in layout.
func LevelByName(name string) (Level, error) {
	build, ok := levels[name]
	if !ok {
		return Level{}, fmt.Errorf("unknown level %q", name)
	}
	return build(), nil
}
