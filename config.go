package fscc

import (
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/juju/errors"
)

// Config holds configuration for opening an FSCC port.
type Config struct {
	// Path is the device node, e.g. /dev/fscc0.
	Path   string     `json:"path" validate:"required"`
	Access AccessMode `json:"access" validate:"oneof=1 2 3"`

	// SkipProbe disables the register read Open uses to confirm the node is
	// an FSCC port.
	SkipProbe bool `json:"skip_probe"`

	// MaxFrameSize bounds Read/Write buffers and sizes the ReadFrame pool.
	MaxFrameSize int `json:"max_frame_size" validate:"gte=1,lte=1048576"`

	Log LogConfig `json:"log"`

	// Async optionally describes the card's asynchronous (UART) node.
	Async *AsyncConfig `json:"async,omitempty" validate:"-"`
}

// LogConfig controls the logger built by NewLogger.
type LogConfig struct {
	Level      string `json:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Console    bool   `json:"console"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `json:"max_backups" validate:"gte=0"`
	Compress   bool   `json:"compress"`
}

// AsyncConfig holds configuration for an asynchronous tty node.
type AsyncConfig struct {
	PortName    string        `json:"port_name"`
	BaudRate    int           `json:"baud_rate"`
	DataBits    int           `json:"data_bits"`
	Parity      Parity        `json:"parity"`
	StopBits    StopBits      `json:"stop_bits"`
	ReadTimeout time.Duration `json:"read_timeout"`
}

// DefaultConfig returns a config for path with every optional field set.
func DefaultConfig(path string) Config {
	cfg := Config{Path: path}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Access == 0 {
		c.Access = AccessReadWrite
	}
	if c.MaxFrameSize == 0 {
		c.MaxFrameSize = DefaultMaxFrameSize
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Async != nil && c.Async.DataBits == 0 {
		c.Async.DataBits = DataBits8.Int()
	}
}

// LoadConfig reads a JSON config file, fills defaults and validates it.
func LoadConfig(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Annotatef(err, "reading config %s", file)
	}

	var cfg Config
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Annotatef(err, "decoding config %s", file)
	}
	cfg.applyDefaults()

	if err = ValidateConfig(&cfg); err != nil {
		return nil, errors.Annotatef(err, "invalid config %s", file)
	}
	return &cfg, nil
}
