package game

import (
	"sync"

	"github.com/rs/zerolog"
)

type MatchState int

const (
	MatchRunning MatchState = iota
	MatchWon
	MatchLost
)

func (s MatchState) String() string {
	switch s {
	case MatchWon:
		return "won"
	case MatchLost:
		return "lost"
	default:
		return "running"
	}
}

// HUD is the status line shown to the player.
func (s MatchState) HUD() string {
	switch s {
	case MatchWon:
		return "You Won"
	case MatchLost:
		return "You Lost"
	default:
		return "Game Running"
	}
}

// Outcome describes a finished match.
type Outcome struct {
	MatchID     string
	Level       string
	State       MatchState
	Ticks       uint64
	Duration    float64
	AgentHealth int
	Pool        PoolStats
}

// MatchHooks are called outside the match lock, after the tick that caused
// them. Any of them may be nil.
type MatchHooks struct {
	OnShot    func(matchID string, fired int)
	OnHit     func(matchID string, hits int, agentHealth int)
	OnOutcome func(Outcome)
}

// Match is one player tank against one agent on a level.
type Match struct {
	ID    string
	Now   float64
	Ticks uint64
	Mu    sync.Mutex

	level Level
	walls []Region
	tank  *Tank
	agent *Agent
	trail *History
	state MatchState
	input Intents

	hasPlayer bool
	reported  bool

	hooks MatchHooks
	fine  PixelTester
	hz    float64
	log   zerolog.Logger
}

type MatchOption func(*Match)

func WithLogger(l zerolog.Logger) MatchOption {
	return func(m *Match) { m.log = l }
}

func WithHooks(h MatchHooks) MatchOption {
	return func(m *Match) { m.hooks = h }
}

// WithTickRate sizes per-tick buffers for a loop ticking hz times a second.
func WithTickRate(hz float64) MatchOption {
	return func(m *Match) {
		if hz > 0 {
			m.hz = hz
		}
	}
}

// WithPixelTester installs the fine wall test used by the player tank.
func WithPixelTester(p PixelTester) MatchOption {
	return func(m *Match) { m.fine = p }
}

func NewMatch(id string, level Level, opts ...MatchOption) *Match {
	m := &Match{
		ID:    id,
		level: level,
		walls: level.WallRegions(),
		fine:  BoundsOnly{},
		hz:    SimHz,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("match", id).Logger()

	m.tank = NewTank(m.walls, Detector{Fine: m.fine}, level.Field)
	m.tank.Init(level.Tank.Pos, level.Tank.Scale)
	m.agent = NewAgent(m.walls)
	m.agent.Init(level.AI.Pos, level.AI.Scale)
	m.trail = NewHistory(TrailSeconds, m.hz)
	m.log.Debug().Str("level", level.Name).Int("walls", len(m.walls)).Msg("match created")
	return m
}

// Tank and Agent expose the live actors. Callers must hold Mu while a run
// loop is ticking the match.
func (m *Match) Tank() *Tank   { return m.tank }
func (m *Match) Agent() *Agent { return m.agent }

func (m *Match) Level() Level { return m.level }

func (m *Match) State() MatchState {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.state
}

// SetInput replaces the intents applied on following ticks.
func (m *Match) SetInput(in Intents) {
	m.Mu.Lock()
	m.input = in
	m.Mu.Unlock()
}

// ClaimPlayer reserves the single player seat. It returns false when the
// seat is already taken.
func (m *Match) ClaimPlayer() bool {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.hasPlayer {
		return false
	}
	m.hasPlayer = true
	return true
}

func (m *Match) ReleasePlayer() {
	m.Mu.Lock()
	m.hasPlayer = false
	m.input = Intents{}
	m.Mu.Unlock()
}

func (m *Match) HasPlayer() bool {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.hasPlayer
}

type tickEvents struct {
	fired   int
	hits    int
	health  int
	outcome *Outcome
}

// Tick advances the match by dt seconds. Only a running match moves.
func (m *Match) Tick(dt float64) {
	m.Mu.Lock()
	ev := m.step(dt)
	m.Mu.Unlock()
	m.dispatch(ev)
}

func (m *Match) step(dt float64) tickEvents {
	var ev tickEvents
	if dt <= 0 {
		return ev
	}
	if m.agent.Defeated() {
		ev.outcome = m.finish(MatchWon)
	}
	if m.state != MatchRunning {
		return ev
	}

	m.Now += dt
	m.Ticks++

	pool := m.tank.Pool()
	fired := pool.Stats.Fired
	victim := DamageFunc(func(n int) {
		m.agent.ApplyDamage(n)
		ev.hits++
	})

	m.tank.Update(dt, m.input, m.agent.Base(), victim)
	m.agent.Update(m.tank.Pos, dt)
	ev.hits += m.agent.CheckProjectileCollision(pool.Projectiles())
	m.trail.Push(Snapshot{T: m.Now, Pos: m.tank.Pos, Rotation: m.tank.Rotation})

	ev.fired = pool.Stats.Fired - fired
	ev.health = m.agent.Health()
	if ev.fired > 0 {
		m.log.Debug().Int("fired", ev.fired).Float64("turret", m.tank.TurretRotation).Msg("shot")
	}
	if ev.hits > 0 {
		m.log.Debug().Int("hits", ev.hits).Int("health", ev.health).Msg("agent hit")
	}

	switch {
	case Collision(m.tank.Base(), m.agent.Base()):
		ev.outcome = m.finish(MatchLost)
	case m.agent.Defeated():
		ev.outcome = m.finish(MatchWon)
	}
	return ev
}

// finish moves a running match into its terminal state and returns the
// outcome the first time only.
func (m *Match) finish(s MatchState) *Outcome {
	if m.state == MatchRunning {
		m.state = s
	}
	if m.reported {
		return nil
	}
	m.reported = true
	o := Outcome{
		MatchID:     m.ID,
		Level:       m.level.Name,
		State:       m.state,
		Ticks:       m.Ticks,
		Duration:    m.Now,
		AgentHealth: m.agent.Health(),
		Pool:        m.tank.Pool().Stats,
	}
	m.log.Info().
		Str("state", o.State.String()).
		Uint64("ticks", o.Ticks).
		Int("agentHealth", o.AgentHealth).
		Int("fired", o.Pool.Fired).
		Msg("match finished")
	return &o
}

func (m *Match) dispatch(ev tickEvents) {
	if ev.fired > 0 && m.hooks.OnShot != nil {
		m.hooks.OnShot(m.ID, ev.fired)
	}
	if ev.hits > 0 && m.hooks.OnHit != nil {
		m.hooks.OnHit(m.ID, ev.hits, ev.health)
	}
	if ev.outcome != nil && m.hooks.OnOutcome != nil {
		m.hooks.OnOutcome(*ev.outcome)
	}
}

// Reset rebuilds both actors from the level and starts a fresh round.
func (m *Match) Reset() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.tank.Reset(m.level.Tank.Pos)
	m.tank.Init(m.level.Tank.Pos, m.level.Tank.Scale)
	m.agent.Reset(m.level.AI.Pos)
	m.agent.Init(m.level.AI.Pos, m.level.AI.Scale)
	m.trail.Clear()
	m.state = MatchRunning
	m.reported = false
	m.input = Intents{}
	m.Now = 0
	m.Ticks = 0
	m.log.Info().Msg("match reset")
}

// Frame is a read-only snapshot of one rendered tick.
type Frame struct {
	MatchID     string   `json:"matchId"`
	Tick        uint64   `json:"tick"`
	Now         float64  `json:"now"`
	State       string   `json:"state"`
	HUD         string   `json:"hud"`
	AgentHealth int      `json:"agentHealth"`
	HealthText  string   `json:"healthText"`
	Sprites     []Sprite `json:"sprites"`
	Trail       []Vec2   `json:"trail,omitempty"`
}

// Frame renders the current state: agent, walls, then the player tank and
// its projectiles.
func (m *Match) Frame() Frame {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var rec FrameRecorder
	m.render(&rec)
	return Frame{
		MatchID:     m.ID,
		Tick:        m.Ticks,
		Now:         m.Now,
		State:       m.state.String(),
		HUD:         m.state.HUD(),
		AgentHealth: m.agent.Health(),
		HealthText:  m.agent.HealthText(),
		Sprites:     rec.Sprites,
		Trail:       m.trail.Trail(m.Now, TrailStep, TrailSamples),
	}
}

func (m *Match) render(s Surface) {
	m.agent.Render(s)
	for _, w := range m.walls {
		s.Draw(regionSprite(SpriteWall, TankAtlas, w))
	}
	m.tank.Render(s)
}

// Summary is the lobby view of a match.
type Summary struct {
	ID          string `json:"id"`
	Level       string `json:"level"`
	State       string `json:"state"`
	Ticks       uint64 `json:"ticks"`
	AgentHealth int    `json:"agentHealth"`
	HasPlayer   bool   `json:"hasPlayer"`
}

func (m *Match) Summary() Summary {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return Summary{
		ID:          m.ID,
		Level:       m.level.Name,
		State:       m.state.String(),
		Ticks:       m.Ticks,
		AgentHealth: m.agent.Health(),
		HasPlayer:   m.hasPlayer,
	}
}
