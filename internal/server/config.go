package server

import (
	"errors"
	"fmt"

	"TankDuel/internal/game"
	"TankDuel/internal/logging"
	"TankDuel/internal/storage"
	"TankDuel/internal/telemetry"

	"github.com/spf13/viper"
)

const configFileName = "tankduel.cfg.json"

// AppConfig is everything StartApp needs, resolved from defaults, the
// optional config file and command-line overrides.
type AppConfig struct {
	Addr      string
	SimHz     float64
	UpdateHz  float64
	Logging   logging.Config
	Storage   storage.Config
	Influx    telemetry.InfluxConfig
	InfluxOn  bool
	OtelOn    bool
	LevelName string
}

// AppOverrides carries command-line values that win over the config file.
type AppOverrides struct {
	Addr     *string
	LogLevel *string
}

func setDefaults() {
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("sim.hz", game.SimHz)
	viper.SetDefault("sim.updateHz", game.UpdateRateHz)
	viper.SetDefault("sim.level", "arena")

	viper.SetDefault("storage.type", "none")
	viper.SetDefault("storage.sqlite.path", "./tankduel.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "tankduel")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "tankduel")
	viper.SetDefault("influx.bucket", "matches")

	viper.SetDefault("otel.enabled", false)
}

// LoadConfig reads tankduel.cfg.json from configDir on top of the defaults.
// A missing file is not an error.
func LoadConfig(configDir string) (AppConfig, error) {
	setDefaults()
	viper.SetConfigName(configFileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return currentConfig()
}

func currentConfig() (AppConfig, error) {
	cfg := AppConfig{
		Addr:     viper.GetString("addr"),
		SimHz:    viper.GetFloat64("sim.hz"),
		UpdateHz: viper.GetFloat64("sim.updateHz"),
		Logging: logging.Config{
			Level:          viper.GetString("logLevel"),
			File:           viper.GetString("logFile"),
			Dir:            viper.GetString("logsDir"),
			GraylogEnabled: viper.GetBool("graylog.enabled"),
			GraylogAddress: viper.GetString("graylog.address"),
		},
		Storage: storage.Config{
			Type:       viper.GetString("storage.type"),
			SqlitePath: viper.GetString("storage.sqlite.path"),
			Postgres: storage.PostgresConfig{
				Host:     viper.GetString("db.host"),
				Port:     viper.GetString("db.port"),
				Username: viper.GetString("db.username"),
				Password: viper.GetString("db.password"),
				Database: viper.GetString("db.database"),
			},
		},
		Influx: telemetry.InfluxConfig{
			URL:    viper.GetString("influx.url"),
			Token:  viper.GetString("influx.token"),
			Org:    viper.GetString("influx.org"),
			Bucket: viper.GetString("influx.bucket"),
		},
		InfluxOn:  viper.GetBool("influx.enabled"),
		OtelOn:    viper.GetBool("otel.enabled"),
		LevelName: viper.GetString("sim.level"),
	}
	if cfg.SimHz <= 0 || cfg.UpdateHz <= 0 {
		return cfg, fmt.Errorf("sim rates must be positive: hz=%v updateHz=%v", cfg.SimHz, cfg.UpdateHz)
	}
	switch cfg.Storage.Type {
	case "none", "sqlite", "postgres":
	default:
		return cfg, fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}
	return cfg, nil
}

func (o AppOverrides) apply(cfg AppConfig) AppConfig {
	if o.Addr != nil {
		cfg.Addr = *o.Addr
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	return cfg
}

// ResolveConfig loads the config directory and applies the overrides.
func ResolveConfig(configDir string, o AppOverrides) (AppConfig, error) {
	cfg, err := LoadConfig(configDir)
	if err != nil {
		return cfg, err
	}
	return o.apply(cfg), nil
}
