package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"TankDuel/internal/game"
	"TankDuel/internal/logging"
	"TankDuel/internal/storage"
	"TankDuel/internal/telemetry"

	"github.com/rs/zerolog"
)

type app struct {
	ctx      context.Context
	hub      *game.Hub
	store    storage.Store
	log      zerolog.Logger
	updateHz float64
}

// outcomeHooks reports match events to telemetry and persists finished rounds.
func outcomeHooks(ctx context.Context, rec *telemetry.Recorder, store storage.Store, log zerolog.Logger) game.MatchHooks {
	return game.MatchHooks{
		OnShot: rec.Shot,
		OnHit:  rec.Hit,
		OnOutcome: func(o game.Outcome) {
			rec.Outcome(ctx, o)
			if err := store.RecordOutcome(ctx, o); err != nil {
				log.Error().Err(err).Str("match", o.MatchID).Msg("storing match result")
			}
		},
	}
}

func newApp(ctx context.Context, cfg AppConfig, level game.Level, store storage.Store, rec *telemetry.Recorder, log zerolog.Logger) *app {
	hooks := outcomeHooks(ctx, rec, store, log)
	return &app{
		ctx:      ctx,
		hub:      game.NewHub(ctx, level, cfg.SimHz, log, game.WithHooks(hooks)),
		store:    store,
		log:      log,
		updateHz: cfg.UpdateHz,
	}
}

// StartApp runs the server until ctx is cancelled.
func StartApp(ctx context.Context, cfg AppConfig) error {
	log, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logCloser.Close()

	level, err := game.LevelByName(cfg.LevelName)
	if err != nil {
		return err
	}
	if err := level.Validate(); err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage, log)
	if err != nil {
		log.Error().Err(err).Str("type", cfg.Storage.Type).Msg("results store disabled")
		store = storage.Nop{}
	}
	defer store.Close()

	var points telemetry.PointWriter
	if cfg.InfluxOn {
		w, closeInflux := telemetry.NewInflux(cfg.Influx)
		defer closeInflux()
		points = w
		log.Info().Str("url", cfg.Influx.URL).Str("bucket", cfg.Influx.Bucket).Msg("influx sink enabled")
	}
	rec, err := telemetry.New(telemetry.Meter(cfg.OtelOn), points, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	a := newApp(ctx, cfg, level, store, rec, log)

	// Periodic cleanup of finished, unattended matches
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := a.hub.CleanupFinished(); n > 0 {
					log.Info().Int("removed", n).Msg("cleaned up finished matches")
				}
			}
		}
	}()

	srv := &http.Server{Addr: cfg.Addr, Handler: a.routes()}
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Float64("simHz", cfg.SimHz).
			Float64("updateHz", cfg.UpdateHz).
			Str("level", level.Name).
			Msg("starting web server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}
	a.hub.Wait()
	log.Info().Msg("server stopped")
	return nil
}
