package fscc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func writeConfig(c *qt.C, body string) string {
	path := filepath.Join(c.TempDir(), "fscc.json")
	c.Assert(os.WriteFile(path, []byte(body), 0o600), qt.IsNil)
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	c := qt.New(t)
	path := writeConfig(c, `{"path": "/dev/fscc1"}`)

	cfg, err := LoadConfig(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Path, qt.Equals, "/dev/fscc1")
	c.Assert(cfg.Access, qt.Equals, AccessReadWrite)
	c.Assert(cfg.MaxFrameSize, qt.Equals, DefaultMaxFrameSize)
	c.Assert(cfg.Log.Level, qt.Equals, "info")
	c.Assert(cfg.SkipProbe, qt.IsFalse)
	c.Assert(cfg.Async, qt.IsNil)
}

func TestLoadConfigFull(t *testing.T) {
	c := qt.New(t)
	path := writeConfig(c, `{
		"path": "/dev/fscc0",
		"access": "w",
		"skip_probe": true,
		"max_frame_size": 512,
		"log": {"level": "debug", "console": true, "max_backups": 2},
		"async": {"port_name": "/dev/ttyS4", "baud_rate": 115200, "parity": 2, "read_timeout": 1000000000}
	}`)

	cfg, err := LoadConfig(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Access, qt.Equals, AccessWrite)
	c.Assert(cfg.SkipProbe, qt.IsTrue)
	c.Assert(cfg.MaxFrameSize, qt.Equals, 512)
	c.Assert(cfg.Log, qt.DeepEquals, LogConfig{Level: "debug", Console: true, MaxBackups: 2})
	c.Assert(cfg.Async, qt.DeepEquals, &AsyncConfig{
		PortName:    "/dev/ttyS4",
		BaudRate:    115200,
		DataBits:    8,
		Parity:      ParityEven,
		ReadTimeout: time.Second,
	})
}

func TestLoadConfigErrors(t *testing.T) {
	c := qt.New(t)

	_, err := LoadConfig(filepath.Join(c.TempDir(), "missing.json"))
	c.Check(err, qt.ErrorMatches, "reading config .*")
	c.Check(err, qt.ErrorIs, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(c, `{"path": `))
	c.Check(err, qt.ErrorMatches, "decoding config .*")

	_, err = LoadConfig(writeConfig(c, `{"path": "/dev/fscc0", "access": "sideways"}`))
	c.Check(err, qt.ErrorIs, ErrInvalidAccessMode)

	_, err = LoadConfig(writeConfig(c, `{"path": ""}`))
	c.Check(err, qt.ErrorIs, ErrInvalidPath)
}
