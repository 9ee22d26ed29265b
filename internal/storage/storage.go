package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TankDuel/internal/game"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists finished matches.
type Store interface {
	RecordOutcome(ctx context.Context, o game.Outcome) error
	Recent(ctx context.Context, limit int) ([]MatchResult, error)
	Close() error
}

// MatchResult is one finished round.
type MatchResult struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	MatchID     string         `gorm:"index;size:64" json:"matchId"`
	Level       string         `gorm:"size:64" json:"level"`
	Outcome     string         `gorm:"size:16" json:"outcome"`
	Ticks       uint64         `json:"ticks"`
	DurationS   float64        `json:"durationS"`
	AgentHealth int            `json:"agentHealth"`
	Stats       datatypes.JSON `json:"stats"`
}

func (MatchResult) TableName() string { return "match_results" }

type PostgresConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

type Config struct {
	Type       string // none, sqlite or postgres
	SqlitePath string
	Postgres   PostgresConfig
}

// Open returns the configured store. Type "none" (or empty) yields a store
// that drops everything.
func Open(cfg Config, log zerolog.Logger) (Store, error) {
	var (
		db  *gorm.DB
		err error
	)
	gcfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
	switch cfg.Type {
	case "", "none":
		return Nop{}, nil
	case "sqlite":
		path := cfg.SqlitePath
		if path == "" {
			path = "file::memory:"
		}
		db, err = gorm.Open(sqlite.Open(path), gcfg)
	case "postgres":
		log.Debug().Str("host", cfg.Postgres.Host).Str("database", cfg.Postgres.Database).Msg("connecting to postgres")
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.Postgres.DSN(),
			PreferSimpleProtocol: true,
		}), gcfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing sql interface: %w", err)
	}
	if cfg.Type == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging %s store: %w", cfg.Type, err)
	}
	if err := db.AutoMigrate(&MatchResult{}); err != nil {
		return nil, fmt.Errorf("migrating match results: %w", err)
	}
	log.Info().Str("type", cfg.Type).Msg("results store ready")
	return &GormStore{db: db, log: log}, nil
}

type GormStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

func (s *GormStore) RecordOutcome(ctx context.Context, o game.Outcome) error {
	stats, err := json.Marshal(o.Pool)
	if err != nil {
		return fmt.Errorf("encoding pool stats: %w", err)
	}
	row := MatchResult{
		MatchID:     o.MatchID,
		Level:       o.Level,
		Outcome:     o.State.String(),
		Ticks:       o.Ticks,
		DurationS:   o.Duration,
		AgentHealth: o.AgentHealth,
		Stats:       datatypes.JSON(stats),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("recording match %s: %w", o.MatchID, err)
	}
	s.log.Debug().Str("match", o.MatchID).Uint("id", row.ID).Msg("match result stored")
	return nil
}

// Recent returns up to limit results, newest first.
func (s *GormStore) Recent(ctx context.Context, limit int) ([]MatchResult, error) {
	var rows []MatchResult
	err := s.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing match results: %w", err)
	}
	return rows, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Nop is the store used when persistence is disabled.
type Nop struct{}

func (Nop) RecordOutcome(context.Context, game.Outcome) error { return nil }

func (Nop) Recent(context.Context, int) ([]MatchResult, error) { return nil, nil }

func (Nop) Close() error { return nil }
