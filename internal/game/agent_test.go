package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(pos Vec2, walls ...Region) *Agent {
	a := NewAgent(walls)
	a.Init(pos, Vec2{X: 1, Y: 1})
	return a
}

func TestAgentSeekFirstTick(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100})
	a.Update(Vec2{X: 1000, Y: 100}, Dt)

	// unit(toPlayer) plus lerp(steering, 0, 0.9) of that same steering
	assert.InDelta(t, 1.1, a.Velocity.X, 1e-9)
	assert.InDelta(t, 0, a.Velocity.Y, 1e-9)
	assert.Equal(t, Vec2{}, a.Steering, "steering resets once heading matches")
	assert.InDelta(t, 0, a.Rotation, 1e-9)
	assert.InDelta(t, 100+1.1*Dt, a.Pos.X, 1e-9)
	assert.Equal(t, BehaviorSeekPlayer, a.Behavior)
}

func TestAgentSeekApproachesMaxSpeed(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100})
	player := Vec2{X: 5000, Y: 100}

	prev := 0.0
	for i := 0; i < 200; i++ {
		a.Update(player, Dt)
		speed := a.Velocity.Len()
		require.GreaterOrEqual(t, speed, prev, "tick %d", i)
		require.LessOrEqual(t, speed, AgentMaxSpeed+1e-9, "tick %d", i)
		prev = speed
	}
	assert.InDelta(t, AgentMaxSpeed, prev, 1e-9)
	assert.Equal(t, BehaviorSeekPlayer, a.Behavior)
}

func TestAgentStopsInsideSeeAhead(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100})
	player := Vec2{X: 200, Y: 100}

	a.Update(player, Dt)
	require.Equal(t, BehaviorStop, a.Behavior)

	pos := a.Pos
	a.Update(player, Dt)
	assert.Equal(t, Vec2{}, a.Velocity)
	assert.Equal(t, pos, a.Pos)
	assert.Equal(t, BehaviorStop, a.Behavior)
}

func TestAgentTurnsOneDegreePerTick(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100})
	player := Vec2{X: 100, Y: 1000}

	for i := 1; i <= 10; i++ {
		a.Update(player, Dt)
		require.InDelta(t, float64(i), a.Rotation, 1e-9, "tick %d", i)
	}
}

func TestAgentTurnsShortWayAcrossZero(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 1000})
	a.Update(Vec2{X: 100, Y: 100}, Dt)
	assert.InDelta(t, 359, a.Rotation, 1e-9)
}

func TestAgentZeroDtIsNoop(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100})
	before := *a
	a.Update(Vec2{X: 1000, Y: 1000}, 0)
	assert.Equal(t, before.Pos, a.Pos)
	assert.Equal(t, before.Velocity, a.Velocity)
	assert.Equal(t, before.Rotation, a.Rotation)
}

func TestFindMostThreateningPicksNearest(t *testing.T) {
	// ahead (250,100) touches the first wall, half-ahead (175,100) the second
	a := newTestAgent(Vec2{X: 100, Y: 100}, wallAt(250, 100), wallAt(175, 130))
	idx, ok := a.FindMostThreateningObstacle()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	got, _ := a.MostThreatening()
	assert.Equal(t, idx, got)
}

func TestFindMostThreateningTieKeepsFirst(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100}, wallAt(250, 100), wallAt(175, 70), wallAt(175, 130))
	for i := 0; i < 3; i++ {
		idx, ok := a.FindMostThreateningObstacle()
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	}
}

func TestCollisionAvoidancePushesAwayFromObstacle(t *testing.T) {
	// ahead probe (250,100) sits 10 above the obstacle centre
	a := newTestAgent(Vec2{X: 100, Y: 100}, wallAt(250, 110))

	avoid := a.collisionAvoidance()
	idx, ok := a.MostThreatening()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	// unit(contact-centre) scaled to MaxAvoidForce, blended from zero steering
	assert.InDelta(t, 0, avoid.X, 1e-9)
	assert.InDelta(t, -MaxAvoidForce*AvoidanceBlend, avoid.Y, 1e-9)

	a.Steering = Vec2{X: 10, Y: 0}
	avoid = a.collisionAvoidance()
	assert.InDelta(t, 10*(1-AvoidanceBlend), avoid.X, 1e-9)
	assert.InDelta(t, -MaxAvoidForce*AvoidanceBlend, avoid.Y, 1e-9)
}

func TestCollisionAvoidanceWithoutThreatDecaysSteering(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100}, wallAt(900, 800))
	a.Steering = Vec2{X: 10, Y: -20}

	avoid := a.collisionAvoidance()
	assert.InDelta(t, 1, avoid.X, 1e-9)
	assert.InDelta(t, -2, avoid.Y, 1e-9)
}

func TestAgentHeadingStepBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := newTestAgent(Vec2{X: FieldW / 2, Y: FieldH / 2})

	player := Vec2{}
	for i := 0; i < 3000; i++ {
		if i%25 == 0 {
			player = Vec2{X: rng.Float64() * FieldW, Y: rng.Float64() * FieldH}
		}
		before := a.Rotation
		a.Update(player, Dt)
		step := math.Abs(angleDelta(before, a.Rotation))
		require.LessOrEqual(t, step, 1+1e-9, "tick %d", i)
		require.GreaterOrEqual(t, a.Rotation, 0.0)
		require.Less(t, a.Rotation, 360.0)
	}
}

func TestFindMostThreateningNone(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100}, wallAt(900, 800))
	idx, ok := a.FindMostThreateningObstacle()
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestAgentObstaclesFromWalls(t *testing.T) {
	walls := []Region{wallAt(300, 300)}
	a := newTestAgent(Vec2{X: 100, Y: 100}, walls...)
	require.Len(t, a.Obstacles(), 1)
	assert.Equal(t, Circle{Center: Vec2{X: 300, Y: 300}, Radius: 45}, a.Obstacles()[0])

	walls[0].Pos = Vec2{X: 600, Y: 600}
	assert.Equal(t, Vec2{X: 300, Y: 300}, a.Obstacles()[0].Center, "snapshot is not a live view")

	a.Resnapshot()
	assert.Equal(t, Vec2{X: 600, Y: 600}, a.Obstacles()[0].Center)
}

func TestAgentHealthSequence(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100})
	require.Equal(t, "health : 5", a.HealthText())

	a.ApplyDamage(2)
	assert.Equal(t, 3, a.Health())
	a.ApplyDamage(2)
	assert.Equal(t, 1, a.Health())
	a.ApplyDamage(2)
	assert.Equal(t, 0, a.Health())
	assert.Equal(t, "health : 0", a.HealthText())
	assert.True(t, a.Defeated())

	a.Reset(Vec2{X: 10, Y: 10})
	assert.Equal(t, AgentMaxHealth, a.Health())
	assert.Equal(t, Vec2{X: 10, Y: 10}, a.Pos)
}

func TestAgentCheckProjectileCollision(t *testing.T) {
	a := newTestAgent(Vec2{X: 700, Y: 450})
	pp := NewProjectilePool(FieldW, FieldH)
	pp.Create(TankAtlas, 700, 450, 0)

	assert.Equal(t, 1, a.CheckProjectileCollision(pp.Projectiles()))
	assert.Equal(t, 4, a.Health())
	assert.Zero(t, pp.ActiveCount())
	assert.Zero(t, a.CheckProjectileCollision(pp.Projectiles()))
}

func TestAgentCollidesWithPlayer(t *testing.T) {
	a := newTestAgent(Vec2{X: 700, Y: 450})
	tank := NewTank(nil, Detector{}, Vec2{X: FieldW, Y: FieldH})
	tank.Init(Vec2{X: 200, Y: 450}, Vec2{X: 1, Y: 1})
	assert.False(t, a.CollidesWithPlayer(tank))

	tank.Pos = Vec2{X: 600, Y: 450}
	assert.True(t, a.CollidesWithPlayer(tank))
}

func TestFilterOutputIsPerAgent(t *testing.T) {
	a := newTestAgent(Vec2{})
	b := newTestAgent(Vec2{})

	assert.InDelta(t, 1, a.FilterOutput(Vec2{X: 2}, 0.5).X, 1e-9)
	assert.InDelta(t, 1.5, a.FilterOutput(Vec2{X: 2}, 0.5).X, 1e-9)
	assert.InDelta(t, 1, b.FilterOutput(Vec2{X: 2}, 0.5).X, 1e-9)
}

func TestAgentRenderDrawsDebugGeometry(t *testing.T) {
	a := newTestAgent(Vec2{X: 100, Y: 100}, wallAt(250, 100), wallAt(900, 800))
	a.Update(Vec2{X: 1000, Y: 100}, Dt)

	var rec FrameRecorder
	a.Render(&rec)
	assert.Equal(t, 1, rec.Count(SpriteAIBase))
	assert.Equal(t, 1, rec.Count(SpriteAITurret))
	assert.Equal(t, 3, rec.Count(SpriteProbe))
	assert.Equal(t, 2, rec.Count(SpriteObstacle))

	highlighted := 0
	for _, s := range rec.Sprites {
		if s.Highlight {
			highlighted++
		}
	}
	assert.Equal(t, 1, highlighted)
}
