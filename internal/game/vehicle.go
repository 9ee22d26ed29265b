package game

import "math"

// Intents are the decoded per-tick controls for the player tank.
type Intents struct {
	Accelerate   bool `json:"accelerate"`
	Brake        bool `json:"brake"`
	RotateLeft   bool `json:"rotateLeft"`
	RotateRight  bool `json:"rotateRight"`
	TurretLeft   bool `json:"turretLeft"`
	TurretRight  bool `json:"turretRight"`
	CentreTurret bool `json:"centreTurret"`
	Fire         bool `json:"fire"`
}

type VehicleState int

const (
	VehicleNormal VehicleState = iota
	VehicleColliding
)

func (s VehicleState) String() string {
	if s == VehicleColliding {
		return "colliding"
	}
	return "normal"
}

var (
	tankBaseRect     = Vec2{X: 246, Y: 114}
	tankBaseOrigin   = Vec2{X: 96, Y: 57}
	tankTurretRect   = Vec2{X: 210, Y: 94}
	tankTurretOrigin = Vec2{X: 90, Y: 47}
)

// Tank is the player vehicle. Base and turret share a position; only their
// rotations differ.
type Tank struct {
	Pos            Vec2
	Rotation       float64
	TurretRotation float64
	Speed          float64
	Scale          Vec2
	State          VehicleState

	contactNormal Vec2
	shootTimer    float64
	fireRequested bool
	recentring    bool

	walls    []Region
	detector Detector
	pool     *ProjectilePool
}

func NewTank(walls []Region, detector Detector, field Vec2) *Tank {
	return &Tank{
		Scale:    Vec2{X: 1, Y: 1},
		walls:    walls,
		detector: detector,
		pool:     NewProjectilePool(field.X, field.Y),
	}
}

func (t *Tank) Init(pos, scale Vec2) {
	t.Pos = pos
	t.Scale = scale
}

func (t *Tank) Pool() *ProjectilePool { return t.pool }

func (t *Tank) Base() Region {
	return Region{Pos: t.Pos, Size: tankBaseRect, Origin: tankBaseOrigin, Scale: t.Scale, Rotation: t.Rotation}
}

func (t *Tank) Turret() Region {
	return Region{Pos: t.Pos, Size: tankTurretRect, Origin: tankTurretOrigin, Scale: t.Scale, Rotation: t.TurretRotation}
}

// ContactNormal is the unit push-out direction of the last wall contact. It is
// only meaningful while the tank is colliding.
func (t *Tank) ContactNormal() (Vec2, bool) {
	return t.contactNormal, t.State == VehicleColliding
}

// Recentring reports whether a centre-turret request is still being worked off.
func (t *Tank) Recentring() bool { return t.recentring }

// Update advances the tank one tick. Projectiles it owns are moved against
// the walls and target; victim is told about every hit on target.
func (t *Tank) Update(dt float64, in Intents, target Region, victim Damageable) {
	if dt <= 0 {
		return
	}
	if in.CentreTurret {
		t.recentring = true
	}

	if t.checkWallCollision() {
		t.State = VehicleColliding
	} else {
		t.State = VehicleNormal
	}

	switch t.State {
	case VehicleColliding:
		t.deflect(dt)
	case VehicleNormal:
		t.applyIntents(in)
		t.Speed = Clamp(t.Speed, MaxReverseSpeed, MaxForwardSpeed)
		t.Pos = t.Pos.Add(Heading(t.Rotation).Scale(t.Speed * dt))

		t.shootTimer = math.Max(0, t.shootTimer-dt)
		if t.fireRequested && t.shootTimer <= 0 {
			t.requestFire()
			t.shootTimer = TimeBetweenShots
			t.fireRequested = false
		}

		t.pool.Update(dt, t.walls, target, victim)
		t.Speed *= Friction
	}

	if t.recentring {
		t.recentring = t.centreTurret()
	}
}

func (t *Tank) applyIntents(in Intents) {
	if in.Accelerate {
		t.Speed++
	}
	if in.Brake {
		t.Speed--
	}
	if in.RotateLeft {
		t.Rotation = NormalizeDegrees(t.Rotation - 1)
		t.TurretRotation = NormalizeDegrees(t.TurretRotation - 1)
	}
	if in.RotateRight {
		t.Rotation = NormalizeDegrees(t.Rotation + 1)
		t.TurretRotation = NormalizeDegrees(t.TurretRotation + 1)
	}
	if in.TurretRight {
		t.TurretRotation = NormalizeDegrees(t.TurretRotation + 1)
	}
	if in.TurretLeft {
		t.TurretRotation = NormalizeDegrees(t.TurretRotation - 1)
	}
	if in.Fire {
		t.fireRequested = true
	}
}

// centreTurret turns the turret TurretRecentre degrees back toward the hull
// and reports whether it still has further to go.
func (t *Tank) centreTurret() bool {
	d := angleDelta(t.Rotation, t.TurretRotation)
	if math.Abs(d) < 1 {
		t.TurretRotation = t.Rotation
		return false
	}
	if d > 0 {
		t.TurretRotation = NormalizeDegrees(t.TurretRotation - TurretRecentre)
	} else {
		t.TurretRotation = NormalizeDegrees(t.TurretRotation + TurretRecentre)
	}
	return true
}

func (t *Tank) checkWallCollision() bool {
	turret, base := t.Turret(), t.Base()
	for _, w := range t.walls {
		if t.detector.Confirmed(turret, w) || t.detector.Confirmed(base, w) {
			t.contactNormal = Unit(t.Pos.Sub(w.Pos))
			return true
		}
	}
	return false
}

// deflect pushes the tank out along the contact normal by the distance its
// current speed would cover in dt. Speed itself is left alone.
func (t *Tank) deflect(dt float64) {
	impulse := math.Abs(t.Speed)
	t.Pos = t.Pos.Add(t.contactNormal.Scale(impulse * dt))
}

// requestFire launches from the turret tip along the turret heading.
func (t *Tank) requestFire() {
	size := t.Turret().BoundsSize()
	h := Heading(t.TurretRotation)
	tip := Vec2{
		X: t.Pos.X + h.X*size.X/2,
		Y: t.Pos.Y + h.Y*size.Y/2,
	}
	t.pool.Create(TankAtlas, tip.X, tip.Y, t.TurretRotation)
}

// Reset puts the tank back at pos with an empty pool.
func (t *Tank) Reset(pos Vec2) {
	t.Pos = pos
	t.Rotation = 0
	t.TurretRotation = 0
	t.Speed = 0
	t.State = VehicleNormal
	t.contactNormal = Vec2{}
	t.shootTimer = 0
	t.fireRequested = false
	t.recentring = false
	t.pool.Reset()
}

func (t *Tank) Render(s Surface) {
	s.Draw(regionSprite(SpriteTankBase, TankAtlas, t.Base()))
	s.Draw(regionSprite(SpriteTankTurret, TankAtlas, t.Turret()))
	t.pool.Render(s)
}
