package storage

import (
	"context"
	"encoding/json"
	"testing"

	"TankDuel/internal/game"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) Store {
	t.Helper()
	s, err := Open(Config{Type: "sqlite", SqlitePath: "file::memory:"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndListOutcomes(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.RecordOutcome(ctx, game.Outcome{
		MatchID: "alpha", Level: "arena", State: game.MatchLost, Ticks: 120, Duration: 2,
		AgentHealth: 5,
	}))
	require.NoError(t, s.RecordOutcome(ctx, game.Outcome{
		MatchID: "beta", Level: "arena", State: game.MatchWon, Ticks: 600, Duration: 10,
		Pool: game.PoolStats{Fired: 7, TargetHits: 5, WallHits: 2},
	}))

	rows, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "beta", rows[0].MatchID)
	assert.Equal(t, "won", rows[0].Outcome)
	assert.Equal(t, uint64(600), rows[0].Ticks)
	assert.Equal(t, "alpha", rows[1].MatchID)
	assert.Equal(t, "lost", rows[1].Outcome)
	assert.Equal(t, 5, rows[1].AgentHealth)

	var stats game.PoolStats
	require.NoError(t, json.Unmarshal(rows[0].Stats, &stats))
	assert.Equal(t, 7, stats.Fired)
	assert.Equal(t, 5, stats.TargetHits)
}

func TestRecentRespectsLimit(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.RecordOutcome(ctx, game.Outcome{MatchID: id, State: game.MatchWon}))
	}
	rows, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "c", rows[0].MatchID)
}

func TestOpenDisabledAndUnknown(t *testing.T) {
	s, err := Open(Config{Type: "none"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, Nop{}, s)
	assert.NoError(t, s.RecordOutcome(context.Background(), game.Outcome{}))

	_, err = Open(Config{Type: "mongo"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown storage type")
}

func TestPostgresDSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: "5432", Username: "u", Password: "p", Database: "tanks"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=tanks sslmode=disable", c.DSN())
}
