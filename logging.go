package fscc

import (
	"io"
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds a zerolog logger from cfg. The returned closer releases
// the rotating log file, if one was configured.
func NewLogger(cfg LogConfig) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		lvl, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), nil, errors.Annotatef(err, "log level %q", cfg.Level)
		}
		level = lvl
	}

	var console io.Writer = os.Stderr
	if cfg.Console {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, defaultLogMaxSizeMB),
			MaxBackups: orDefault(cfg.MaxBackups, defaultLogMaxBackups),
			Compress:   cfg.Compress,
		}
		writers = append(writers, lj)
		closer = lj
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("component", "fscc").
		Logger()
	return logger, closer, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
