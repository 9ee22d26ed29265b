package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Config selects the log level and the sinks beyond the console.
type Config struct {
	Level          string
	File           string // explicit file path; wins over Dir
	Dir            string // per-session file in this directory when File is empty
	GraylogEnabled bool
	GraylogAddress string
	Console        io.Writer // defaults to os.Stdout
}

// ParseLevel maps a config level name to zerolog, falling back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogFilePath builds a per-session log file name inside dir.
func LogFilePath(dir, service string, sessionStart time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s.log", service, sessionStart.Format("20060102_150405")))
}

type closers []io.Closer

func (c closers) Close() error {
	var errs []error
	for _, cl := range c {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the service logger. The returned closer releases the file and
// Graylog sinks. A Graylog sink that cannot be reached is skipped and
// reported on the returned logger rather than failing startup.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339},
	}
	var open closers

	if cfg.File == "" && cfg.Dir != "" {
		cfg.File = LogFilePath(cfg.Dir, "tankduel", time.Now())
	}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), open, fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), open, fmt.Errorf("opening log file: %w", err)
		}
		open = append(open, f)
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
	}

	var graylogErr error
	if cfg.GraylogEnabled {
		gw, err := gelf.NewWriter(cfg.GraylogAddress)
		if err != nil {
			graylogErr = err
		} else {
			open = append(open, gw)
			writers = append(writers, gw)
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().Str("service", "tankduel").Logger()

	if graylogErr != nil {
		logger.Warn().Err(graylogErr).Str("address", cfg.GraylogAddress).Msg("graylog sink disabled")
	}
	logger.Info().Str("loglevel", logger.GetLevel().String()).Msg("logging set up")
	return logger, open, nil
}
