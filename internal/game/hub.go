package game

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrMatchNotFound = errors.New("match not found")

// Hub owns every live match and the goroutine ticking each one.
type Hub struct {
	Matches map[string]*Match
	Mu      sync.Mutex

	level Level
	hz    float64
	opts  []MatchOption
	log   zerolog.Logger

	ctx     context.Context
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewHub creates matches on demand from level. Run loops stop when ctx is
// cancelled.
func NewHub(ctx context.Context, level Level, hz float64, log zerolog.Logger, opts ...MatchOption) *Hub {
	if hz <= 0 {
		hz = SimHz
	}
	return &Hub{
		Matches: map[string]*Match{},
		level:   level,
		hz:      hz,
		opts:    append([]MatchOption{WithLogger(log), WithTickRate(hz)}, opts...),
		log:     log,
		ctx:     ctx,
		cancels: map[string]context.CancelFunc{},
	}
}

// GetMatch returns the match with id, creating and starting it if needed.
func (h *Hub) GetMatch(id string) *Match {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return h.getLocked(id)
}

// JoinAsPlayer gets or creates the match and claims its player seat in the
// same critical section CleanupFinished uses, so a seated match is never
// collected. ok is false when the seat is already taken.
func (h *Hub) JoinAsPlayer(id string) (m *Match, ok bool) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	m = h.getLocked(id)
	return m, m.ClaimPlayer()
}

func (h *Hub) getLocked(id string) *Match {
	m, ok := h.Matches[id]
	if !ok {
		m = NewMatch(id, h.level, h.opts...)
		h.Matches[id] = m
		h.startLocked(m)
	}
	return m
}

// Lookup returns an existing match only.
func (h *Hub) Lookup(id string) (*Match, error) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	m, ok := h.Matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

func (h *Hub) Remove(id string) error {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	if _, ok := h.Matches[id]; !ok {
		return ErrMatchNotFound
	}
	h.removeLocked(id)
	return nil
}

func (h *Hub) removeLocked(id string) {
	if cancel, ok := h.cancels[id]; ok {
		cancel()
		delete(h.cancels, id)
	}
	delete(h.Matches, id)
	h.log.Info().Str("match", id).Msg("match removed")
}

// Summaries lists every match ordered by id.
func (h *Hub) Summaries() []Summary {
	h.Mu.Lock()
	matches := make([]*Match, 0, len(h.Matches))
	for _, m := range h.Matches {
		matches = append(matches, m)
	}
	h.Mu.Unlock()

	out := make([]Summary, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CleanupFinished drops matches that are over and have no player seated.
func (h *Hub) CleanupFinished() int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	n := 0
	for id, m := range h.Matches {
		if m.State() != MatchRunning && !m.HasPlayer() {
			h.removeLocked(id)
			n++
		}
	}
	return n
}

func (h *Hub) startLocked(m *Match) {
	ctx, cancel := context.WithCancel(h.ctx)
	h.cancels[m.ID] = cancel
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.run(ctx, m)
	}()
}

// run ticks m at the hub rate with a fixed step until ctx is done.
func (h *Hub) run(ctx context.Context, m *Match) {
	step := 1.0 / h.hz
	ticker := time.NewTicker(time.Duration(float64(time.Second) / h.hz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(step)
		}
	}
}

// Wait blocks until every run loop has returned.
func (h *Hub) Wait() { h.wg.Wait() }

func RandId(prefix string) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return prefix + "-" + string(b)
}
