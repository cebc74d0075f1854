package fscc

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/rs/zerolog"
)

func TestNewLoggerWritesFile(t *testing.T) {
	c := qt.New(t)
	file := filepath.Join(c.TempDir(), "fscc.log")

	logger, closer, err := NewLogger(LogConfig{Level: "debug", File: file})
	c.Assert(err, qt.IsNil)
	c.Assert(logger.GetLevel(), qt.Equals, zerolog.DebugLevel)

	logger.Debug().Str("device", "/dev/fscc0").Msg("port opened")
	c.Assert(closer.Close(), qt.IsNil)

	data, err := os.ReadFile(file)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, `"component":"fscc"`)
	c.Assert(string(data), qt.Contains, `"device":"/dev/fscc0"`)
	c.Assert(string(data), qt.Contains, `"message":"port opened"`)
}

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	c := qt.New(t)
	logger, closer, err := NewLogger(LogConfig{})
	c.Assert(err, qt.IsNil)
	c.Assert(logger.GetLevel(), qt.Equals, zerolog.InfoLevel)
	c.Assert(closer.Close(), qt.IsNil)
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	c := qt.New(t)
	_, _, err := NewLogger(LogConfig{Level: "chatty"})
	c.Assert(err, qt.ErrorMatches, `log level "chatty": .*`)
}
