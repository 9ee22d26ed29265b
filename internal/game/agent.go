package game

import (
	"fmt"
	"math"
)

type AgentBehavior int

const (
	BehaviorSeekPlayer AgentBehavior = iota
	BehaviorStop
	// BehaviorRetreat is never entered: no transition leads to it. Update
	// leaves velocity untouched while in it.
	BehaviorRetreat
)

func (b AgentBehavior) String() string {
	switch b {
	case BehaviorSeekPlayer:
		return "seek_player"
	case BehaviorStop:
		return "stop"
	case BehaviorRetreat:
		return "retreat"
	default:
		return "unknown"
	}
}

var (
	aiBaseRect     = Vec2{X: 246, Y: 114}
	aiBaseOrigin   = Vec2{X: 88, Y: 57}
	aiTurretRect   = Vec2{X: 212, Y: 94}
	aiTurretOrigin = Vec2{X: 45, Y: 47}
)

// Probe is a debug segment from the agent to one of its look-ahead points.
type Probe struct {
	From, To Vec2
	Color    string
}

// Agent is the autonomous tank: it seeks the player, steers around the
// obstacle field and stops once the player is within MaxSeeAhead.
type Agent struct {
	Pos      Vec2
	Rotation float64
	Velocity Vec2
	Steering Vec2
	Behavior AgentBehavior
	Scale    Vec2

	health     int
	healthText string

	walls     []Region
	obstacles []Circle
	// index into obstacles, -1 when nothing is in the way; rebuilt every call
	mostThreatening int

	ahead, halfAhead, aheadLeft, aheadRight Vec2
	probes                                  [3]Probe

	filtered Vec2
}

// NewAgent keeps a reference to the wall layout; obstacles are derived from
// it once in Init.
func NewAgent(walls []Region) *Agent {
	a := &Agent{
		Behavior:        BehaviorSeekPlayer,
		walls:           walls,
		mostThreatening: -1,
		Scale:           Vec2{X: 1, Y: 1},
	}
	a.setHealth(AgentMaxHealth)
	return a
}

// Init places the agent and snapshots the obstacle circles from the walls.
func (a *Agent) Init(pos, scale Vec2) {
	a.Pos = pos
	a.Scale = scale
	a.Resnapshot()
}

// Resnapshot rebuilds the obstacle set from the current wall layout. Walls
// changing after Init are invisible to the agent until this is called.
func (a *Agent) Resnapshot() {
	a.obstacles = a.obstacles[:0]
	for _, w := range a.walls {
		a.obstacles = append(a.obstacles, Circle{Center: w.Pos, Radius: w.Size.X * ObstacleRadiusK})
	}
	a.mostThreatening = -1
}

func (a *Agent) Obstacles() []Circle { return a.obstacles }

// MostThreatening returns the index of the obstacle selected by the last
// avoidance pass.
func (a *Agent) MostThreatening() (int, bool) {
	return a.mostThreatening, a.mostThreatening >= 0
}

func (a *Agent) Probes() [3]Probe { return a.probes }

func (a *Agent) Health() int { return a.health }

func (a *Agent) HealthText() string { return a.healthText }

func (a *Agent) Defeated() bool { return a.health == 0 }

func (a *Agent) setHealth(h int) {
	a.health = h
	a.healthText = fmt.Sprintf("health : %d", h)
}

func (a *Agent) Base() Region {
	return Region{Pos: a.Pos, Size: aiBaseRect, Origin: aiBaseOrigin, Scale: a.Scale, Rotation: a.Rotation}
}

func (a *Agent) Turret() Region {
	return Region{Pos: a.Pos, Size: aiTurretRect, Origin: aiTurretOrigin, Scale: a.Scale, Rotation: a.Rotation}
}

// Update runs one steering tick toward playerPos.
func (a *Agent) Update(playerPos Vec2, dt float64) {
	if dt <= 0 {
		return
	}
	toPlayer := playerPos.Sub(a.Pos)

	switch a.Behavior {
	case BehaviorSeekPlayer:
		a.Steering = a.Steering.Add(Unit(toPlayer))
		a.Steering = a.Steering.Add(a.collisionAvoidance())
		a.Steering = Truncate(a.Steering, MaxForce)
		a.Velocity = Truncate(a.Velocity.Add(a.Steering), AgentMaxSpeed)
	case BehaviorStop:
		a.Velocity = Vec2{}
	}

	if a.Velocity.Len() > 0 {
		dest := math.Atan2(-a.Velocity.Y, -a.Velocity.X)/degToRad + 180
		dest = NormalizeDegrees(dest)
		a.turnToward(dest)
	}

	if toPlayer.Len() < MaxSeeAhead {
		a.Behavior = BehaviorStop
	} else {
		a.Behavior = BehaviorSeekPlayer
	}

	a.updateMovement(dt)
}

// turnToward moves the heading one degree along the shorter arc, or zeroes
// the steering force once the heading already matches.
func (a *Agent) turnToward(dest float64) {
	if math.Round(angleDelta(a.Rotation, dest)) == 0 {
		a.Steering = Vec2{}
		return
	}
	diff := int(math.Round(dest-a.Rotation+360)) % 360
	if diff < 0 {
		diff += 360
	}
	if diff < 180 {
		a.Rotation = NormalizeDegrees(a.Rotation + 1)
	} else {
		a.Rotation = NormalizeDegrees(a.Rotation - 1)
	}
}

func (a *Agent) updateMovement(dt float64) {
	speed := a.Velocity.Len()
	a.Pos = a.Pos.Add(Heading(a.Rotation).Scale(speed * dt))
}

// buildProbes lays out the look-ahead points for the current heading.
func (a *Agent) buildProbes() {
	heading := Heading(a.Rotation).Scale(MaxSeeAhead)
	half := heading.Scale(0.5)

	a.ahead = a.Pos.Add(heading)
	a.halfAhead = a.Pos.Add(half)
	a.aheadLeft = a.Pos.Add(half.Rotated(45))
	a.aheadRight = a.Pos.Add(half.Rotated(-45))

	a.probes = [3]Probe{
		{From: a.Pos, To: a.ahead, Color: "red"},
		{From: a.Pos, To: a.aheadLeft, Color: "green"},
		{From: a.Pos, To: a.aheadRight, Color: "blue"},
	}
}

func (a *Agent) collisionAvoidance() Vec2 {
	a.buildProbes()
	contact, idx := a.findMostThreateningObstacle()

	avoidance := Vec2{}
	if idx >= 0 {
		avoidance = Unit(contact.Sub(a.obstacles[idx].Center)).Scale(MaxAvoidForce)
	}
	return LerpVec(a.Steering, avoidance, AvoidanceBlend)
}

// findMostThreateningObstacle returns the nearest obstacle touched by any
// probe, with the probe point that touched it. Ties keep the first found.
func (a *Agent) findMostThreateningObstacle() (Vec2, int) {
	a.mostThreatening = -1
	var contact Vec2
	best := math.Inf(1)
	for i, obs := range a.obstacles {
		var point Vec2
		switch {
		case LineIntersectsCircle(a.ahead, a.halfAhead, obs):
			point = a.ahead
		case LineIntersectsCircle(a.aheadLeft, a.halfAhead, obs):
			point = a.aheadLeft
		case LineIntersectsCircle(a.aheadRight, a.halfAhead, obs):
			point = a.aheadRight
		default:
			continue
		}
		if d := Distance(a.Pos, obs.Center); d < best {
			best = d
			a.mostThreatening = i
			contact = point
		}
	}
	return contact, a.mostThreatening
}

// FindMostThreateningObstacle recomputes the probes for the current heading
// and returns the selected obstacle index.
func (a *Agent) FindMostThreateningObstacle() (int, bool) {
	a.buildProbes()
	_, idx := a.findMostThreateningObstacle()
	return idx, idx >= 0
}

// ApplyDamage lowers health, never below zero.
func (a *Agent) ApplyDamage(amount int) {
	h := a.health - amount
	if h < 0 {
		h = 0
	}
	a.setHealth(h)
}

// CheckProjectileCollision applies and retires every in-flight projectile
// overlapping the body or turret. It returns the number of hits.
func (a *Agent) CheckProjectileCollision(projectiles []Projectile) int {
	hits := 0
	base, turret := a.Base(), a.Turret()
	for i := range projectiles {
		p := &projectiles[i]
		if !p.Active() {
			continue
		}
		r := p.Region()
		if Collision(base, r) || Collision(turret, r) {
			a.ApplyDamage(p.Damage)
			p.Deactivate()
			hits++
		}
	}
	return hits
}

// CollidesWithPlayer checks this turret against the player's turret and base.
func (a *Agent) CollidesWithPlayer(t *Tank) bool {
	turret := a.Turret()
	return Collision(turret, t.Turret()) || Collision(turret, t.Base())
}

// FilterOutput is an exponential smoother over successive inputs; its state
// lives on the agent.
func (a *Agent) FilterOutput(input Vec2, alpha float64) Vec2 {
	a.filtered = a.filtered.Scale(alpha).Add(input.Scale(1 - alpha))
	return a.filtered
}

// Reset restores health and motion; the obstacle snapshot is kept.
func (a *Agent) Reset(pos Vec2) {
	a.Pos = pos
	a.Rotation = 0
	a.Velocity = Vec2{}
	a.Steering = Vec2{}
	a.Behavior = BehaviorSeekPlayer
	a.mostThreatening = -1
	a.filtered = Vec2{}
	a.setHealth(AgentMaxHealth)
}

// Render draws the tank, its probes and the obstacle circles, highlighting
// the current threat.
func (a *Agent) Render(s Surface) {
	s.Draw(regionSprite(SpriteAIBase, TankAtlas, a.Base()))
	s.Draw(regionSprite(SpriteAITurret, TankAtlas, a.Turret()))
	for _, p := range a.probes {
		d := p.To.Sub(p.From)
		s.Draw(Sprite{
			Kind:     SpriteProbe,
			Pos:      p.From,
			Rotation: NormalizeDegrees(math.Atan2(d.Y, d.X) / degToRad),
			Length:   d.Len(),
			Color:    p.Color,
		})
	}
	for i, obs := range a.obstacles {
		s.Draw(Sprite{
			Kind:      SpriteObstacle,
			Pos:       obs.Center,
			Radius:    obs.Radius,
			Highlight: i == a.mostThreatening,
		})
	}
}
