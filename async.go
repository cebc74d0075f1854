package fscc

import (
	"fmt"
	"sync"

	"github.com/juju/errors"
	"github.com/rs/zerolog"
	gobug "go.bug.st/serial"
)

// AsyncPort is an open asynchronous (UART) tty node of an FSCC card. It
// follows the same lifecycle as Port: once closed every operation fails with
// ErrClosed and Close becomes a no-op.
type AsyncPort struct {
	name   string
	logger zerolog.Logger

	mu     sync.RWMutex
	handle asyncHandle
}

// OpenAsync opens the tty node described by cfg.
func OpenAsync(cfg AsyncConfig, logger zerolog.Logger) (*AsyncPort, error) {
	if cfg.DataBits == 0 {
		cfg.DataBits = DataBits8.Int()
	}
	if err := ValidateAsyncConfig(&cfg); err != nil {
		return nil, err
	}

	mode := &gobug.Mode{
		BaudRate: BaudRate(cfg.BaudRate).Int(),
		DataBits: DataBits(cfg.DataBits).Int(),
		Parity:   cfg.Parity.Get(),
		StopBits: cfg.StopBits.Get(),
	}

	log := logger.With().Str("device", cfg.PortName).Logger()

	h, err := openSerial(cfg.PortName, mode)
	if err != nil {
		err = classifySerialError(cfg.PortName, err)
		log.Warn().Err(err).Msg("async open failed")
		return nil, err
	}

	if cfg.ReadTimeout > 0 {
		if err = h.SetReadTimeout(cfg.ReadTimeout); err != nil {
			if e := h.Close(); e != nil {
				log.Warn().Err(e).Msg("close after failed setup")
			}
			return nil, errors.Annotatef(err, "setting read timeout on %s", cfg.PortName)
		}
	}

	log.Debug().Int("baud", mode.BaudRate).Msg("async port opened")
	return &AsyncPort{name: cfg.PortName, logger: log, handle: h}, nil
}

func classifySerialError(name string, err error) error {
	var pe *gobug.PortError
	if errors.As(err, &pe) {
		switch pe.Code() {
		case gobug.PortNotFound, gobug.InvalidSerialPort:
			return fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
		case gobug.PermissionDenied:
			return fmt.Errorf("%w: %s: %w", ErrPermission, name, err)
		}
	}
	return errors.Annotatef(err, "opening %s", name)
}

// Name returns the tty path.
func (a *AsyncPort) Name() string { return a.name }

func (a *AsyncPort) Read(b []byte) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.handle == nil {
		return 0, ErrClosed
	}
	if len(b) == 0 {
		return 0, ErrInvalidBuffer
	}
	return a.handle.Read(b)
}

func (a *AsyncPort) Write(b []byte) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.handle == nil {
		return 0, ErrClosed
	}
	if len(b) == 0 {
		return 0, ErrInvalidBuffer
	}
	return a.handle.Write(b)
}

// Close releases the tty. It is safe to call multiple times.
func (a *AsyncPort) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	h := a.handle
	a.handle = nil
	if h == nil {
		return nil
	}
	if err := h.Close(); err != nil {
		return errors.Annotatef(err, "closing %s", a.name)
	}
	a.logger.Debug().Msg("async port closed")
	return nil
}

// AvailableAsyncPorts lists the tty ports present on this system.
func AvailableAsyncPorts() ([]string, error) {
	ports, err := getPortsList()
	if err != nil {
		return nil, err
	}
	return ports, nil
}
