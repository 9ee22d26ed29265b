package telemetry

import (
	"context"
	"fmt"
	"time"

	"TankDuel/internal/game"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "TankDuel/internal/telemetry"

// Meter is the global meter when enabled, a no-op otherwise.
func Meter(enabled bool) metric.Meter {
	if !enabled {
		return noop.NewMeterProvider().Meter(instrumentationName)
	}
	return otel.Meter(instrumentationName)
}

// PointWriter is the slice of the InfluxDB blocking write API used here.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// NewInflux connects a blocking writer; the returned func closes the client.
func NewInflux(cfg InfluxConfig) (PointWriter, func()) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return client.WriteAPIBlocking(cfg.Org, cfg.Bucket), client.Close
}

// Recorder turns match events into counters and, optionally, InfluxDB points.
type Recorder struct {
	shots    metric.Int64Counter
	hits     metric.Int64Counter
	outcomes metric.Int64Counter
	recycles metric.Int64Counter

	points PointWriter
	log    zerolog.Logger
}

// New builds a Recorder. points may be nil.
func New(m metric.Meter, points PointWriter, log zerolog.Logger) (*Recorder, error) {
	r := &Recorder{points: points, log: log}
	var err error

	r.shots, err = m.Int64Counter("tankduel.shots", metric.WithDescription("Projectiles fired by the player tank"))
	if err != nil {
		return nil, fmt.Errorf("creating shots counter: %w", err)
	}
	r.hits, err = m.Int64Counter("tankduel.hits", metric.WithDescription("Projectile hits on the agent"))
	if err != nil {
		return nil, fmt.Errorf("creating hits counter: %w", err)
	}
	r.outcomes, err = m.Int64Counter("tankduel.outcomes", metric.WithDescription("Finished matches by result"))
	if err != nil {
		return nil, fmt.Errorf("creating outcomes counter: %w", err)
	}
	r.recycles, err = m.Int64Counter("tankduel.pool.recycles", metric.WithDescription("Projectile slots reused while still in flight"))
	if err != nil {
		return nil, fmt.Errorf("creating recycles counter: %w", err)
	}
	return r, nil
}

func (r *Recorder) Shot(matchID string, n int) {
	r.shots.Add(context.Background(), int64(n), metric.WithAttributes(attribute.String("match", matchID)))
}

func (r *Recorder) Hit(matchID string, n int, agentHealth int) {
	r.hits.Add(context.Background(), int64(n), metric.WithAttributes(attribute.String("match", matchID)))
	r.log.Trace().Str("match", matchID).Int("health", agentHealth).Msg("hit recorded")
}

// Outcome counts the result and writes a summary point when InfluxDB is
// configured. Write failures are logged, not returned.
func (r *Recorder) Outcome(ctx context.Context, o game.Outcome) {
	r.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", o.State.String())))
	if o.Pool.Recycled > 0 {
		r.recycles.Add(ctx, int64(o.Pool.Recycled), metric.WithAttributes(attribute.String("level", o.Level)))
	}
	if r.points == nil {
		return
	}
	if err := r.points.WritePoint(ctx, OutcomePoint(o, time.Now())); err != nil {
		r.log.Error().Err(err).Str("match", o.MatchID).Msg("writing outcome point")
	}
}

// OutcomePoint is the InfluxDB representation of a finished match.
func OutcomePoint(o game.Outcome, at time.Time) *write.Point {
	return influxdb2.NewPoint("match_outcome",
		map[string]string{
			"match":   o.MatchID,
			"level":   o.Level,
			"outcome": o.State.String(),
		},
		map[string]interface{}{
			"ticks":        int64(o.Ticks),
			"duration_s":   o.Duration,
			"agent_health": o.AgentHealth,
			"fired":        o.Pool.Fired,
			"recycled":     o.Pool.Recycled,
			"target_hits":  o.Pool.TargetHits,
			"wall_hits":    o.Pool.WallHits,
			"left_field":   o.Pool.LeftField,
		},
		at)
}
