package game

// Texture names an atlas known to the render collaborator; the simulation
// never loads or inspects it.
type Texture string

const TankAtlas Texture = "tankAtlas"

type SpriteKind string

const (
	SpriteTankBase   SpriteKind = "tank_base"
	SpriteTankTurret SpriteKind = "tank_turret"
	SpriteAIBase     SpriteKind = "ai_base"
	SpriteAITurret   SpriteKind = "ai_turret"
	SpriteProjectile SpriteKind = "projectile"
	SpriteWall       SpriteKind = "wall"
	SpriteObstacle   SpriteKind = "obstacle"
	SpriteProbe      SpriteKind = "probe"
)

// Sprite is one draw call: a read-only copy of a transform plus whatever the
// renderer needs to pick art for it.
type Sprite struct {
	Kind      SpriteKind `json:"kind"`
	Texture   Texture    `json:"texture,omitempty"`
	Pos       Vec2       `json:"pos"`
	Rotation  float64    `json:"rotation"`
	Size      Vec2       `json:"size"`
	Radius    float64    `json:"radius,omitempty"`
	Length    float64    `json:"length,omitempty"`
	Color     string     `json:"color,omitempty"`
	Highlight bool       `json:"highlight,omitempty"`
}

// Surface receives draw calls from a render pass. Implementations must not
// call back into the simulation.
type Surface interface {
	Draw(s Sprite)
}

// FrameRecorder is a Surface that keeps every draw call in order.
type FrameRecorder struct {
	Sprites []Sprite
}

func (f *FrameRecorder) Draw(s Sprite) { f.Sprites = append(f.Sprites, s) }

func (f *FrameRecorder) Count(kind SpriteKind) int {
	n := 0
	for _, s := range f.Sprites {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func regionSprite(kind SpriteKind, tex Texture, r Region) Sprite {
	s := r.scale()
	return Sprite{
		Kind:     kind,
		Texture:  tex,
		Pos:      r.Pos,
		Rotation: r.Rotation,
		Size:     Vec2{X: r.Size.X * s.X, Y: r.Size.Y * s.Y},
	}
}
