package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLevel(tank, ai Vec2) Level {
	return Level{
		Name:  "open",
		Field: Vec2{X: FieldW, Y: FieldH},
		Tank:  Placement{Pos: tank, Scale: Vec2{X: 0.5, Y: 0.5}},
		AI:    Placement{Pos: ai, Scale: Vec2{X: 0.5, Y: 0.5}},
	}
}

type outcomeLog struct {
	outcomes []Outcome
	shots    int
	hits     int
}

func (l *outcomeLog) hooks() MatchHooks {
	return MatchHooks{
		OnShot:    func(_ string, n int) { l.shots += n },
		OnHit:     func(_ string, n int, _ int) { l.hits += n },
		OnOutcome: func(o Outcome) { l.outcomes = append(l.outcomes, o) },
	}
}

func TestMatchHealthSequenceReportsOnce(t *testing.T) {
	var log outcomeLog
	m := NewMatch("m1", openLevel(Vec2{X: 200, Y: 450}, Vec2{X: 1240, Y: 450}), WithHooks(log.hooks()))

	for _, dmg := range []int{2, 2, 2} {
		m.Agent().ApplyDamage(dmg)
		m.Tick(Dt)
	}
	require.Equal(t, 0, m.Agent().Health())
	for i := 0; i < 10; i++ {
		m.Tick(Dt)
	}

	require.Len(t, log.outcomes, 1)
	assert.Equal(t, MatchWon, log.outcomes[0].State)
	assert.Equal(t, "m1", log.outcomes[0].MatchID)
	assert.Equal(t, MatchWon, m.State())
	assert.Equal(t, "You Won", m.Frame().HUD)
}

func TestMatchFrozenAfterOutcome(t *testing.T) {
	m := NewMatch("m1", openLevel(Vec2{X: 200, Y: 450}, Vec2{X: 1240, Y: 450}))
	m.Agent().ApplyDamage(AgentMaxHealth)
	m.Tick(Dt)
	require.Equal(t, MatchWon, m.State())

	ticks := m.Ticks
	pos := m.Agent().Pos
	m.Tick(Dt)
	assert.Equal(t, ticks, m.Ticks)
	assert.Equal(t, pos, m.Agent().Pos)
}

func TestMatchLosesOnBaseContact(t *testing.T) {
	var log outcomeLog
	m := NewMatch("m2", openLevel(Vec2{X: 600, Y: 450}, Vec2{X: 640, Y: 450}), WithHooks(log.hooks()))
	m.Tick(Dt)

	assert.Equal(t, MatchLost, m.State())
	require.Len(t, log.outcomes, 1)
	assert.Equal(t, MatchLost, log.outcomes[0].State)
	assert.Equal(t, "You Lost", m.Frame().HUD)
}

func TestMatchShotHitsAgent(t *testing.T) {
	var log outcomeLog
	m := NewMatch("m3", openLevel(Vec2{X: 200, Y: 450}, Vec2{X: 700, Y: 450}), WithHooks(log.hooks()))
	m.SetInput(Intents{Fire: true})

	for i := 0; i < 120 && m.Agent().Health() == AgentMaxHealth; i++ {
		m.Tick(Dt)
	}
	assert.Equal(t, AgentMaxHealth-1, m.Agent().Health())
	assert.Equal(t, 1, log.hits)
	assert.GreaterOrEqual(t, log.shots, 1)
	assert.Equal(t, MatchRunning, m.State())
}

func TestMatchZeroTickIsNoop(t *testing.T) {
	m := NewMatch("m4", openLevel(Vec2{X: 200, Y: 450}, Vec2{X: 1240, Y: 450}))
	m.SetInput(Intents{Accelerate: true})
	m.Tick(0)
	assert.Zero(t, m.Ticks)
	assert.Zero(t, m.Now)
	assert.Equal(t, Vec2{X: 200, Y: 450}, m.Tank().Pos)
}

func TestMatchResetStartsNewRound(t *testing.T) {
	var log outcomeLog
	m := NewMatch("m5", openLevel(Vec2{X: 200, Y: 450}, Vec2{X: 1240, Y: 450}), WithHooks(log.hooks()))
	m.Agent().ApplyDamage(AgentMaxHealth)
	m.Tick(Dt)
	require.Len(t, log.outcomes, 1)

	m.Reset()
	assert.Equal(t, MatchRunning, m.State())
	assert.Equal(t, AgentMaxHealth, m.Agent().Health())
	assert.Equal(t, Vec2{X: 1240, Y: 450}, m.Agent().Pos)
	assert.Zero(t, m.Ticks)

	m.Agent().ApplyDamage(AgentMaxHealth)
	m.Tick(Dt)
	assert.Len(t, log.outcomes, 2)
}

func TestMatchFrameSprites(t *testing.T) {
	level := DefaultLevel()
	m := NewMatch("m6", level)
	f := m.Frame()

	var rec FrameRecorder
	rec.Sprites = f.Sprites
	assert.Equal(t, len(level.Walls), rec.Count(SpriteWall))
	assert.Equal(t, len(level.Walls), rec.Count(SpriteObstacle))
	assert.Equal(t, 1, rec.Count(SpriteTankBase))
	assert.Equal(t, 1, rec.Count(SpriteAIBase))
	assert.Equal(t, "Game Running", f.HUD)
	assert.Equal(t, "health : 5", f.HealthText)
	assert.Equal(t, "running", f.State)
}

func TestMatchSinglePlayerSeat(t *testing.T) {
	m := NewMatch("m7", DefaultLevel())
	assert.True(t, m.ClaimPlayer())
	assert.False(t, m.ClaimPlayer())
	assert.True(t, m.Summary().HasPlayer)

	m.ReleasePlayer()
	assert.True(t, m.ClaimPlayer())
}

func TestDefaultLevelValid(t *testing.T) {
	l := DefaultLevel()
	require.NoError(t, l.Validate())
	assert.NotEmpty(t, l.Walls)

	l.Walls = append(l.Walls, WallPlacement{Pos: Vec2{X: -5, Y: 10}})
	assert.Error(t, l.Validate())
}

func TestDefaultLevelSpawnsClearOfWalls(t *testing.T) {
	m := NewMatch("m8", DefaultLevel())
	for _, w := range m.walls {
		assert.False(t, Collision(m.Tank().Base(), w))
		assert.False(t, Collision(m.Agent().Base(), w))
	}
}

func TestLevelByName(t *testing.T) {
	l, err := LevelByName("arena")
	require.NoError(t, err)
	assert.Equal(t, "arena", l.Name)

	_, err = LevelByName("maze")
	assert.Error(t, err)
}
