// Package fscc opens Commtech FSCC serial communications ports and exposes
// their 32-bit configuration registers through a typed view.
//
// A Port owns exactly one open device handle. It is either open or closed;
// once closed every operation fails with ErrClosed and further calls to
// Close are no-ops.
package fscc

import (
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Port is an open handle to one FSCC communications device.
//
// A Port is meant to be used from one goroutine at a time. Close waits for an
// in-flight operation to return before releasing the handle.
type Port struct {
	path   string
	mode   AccessMode
	cfg    Config
	logger zerolog.Logger

	mu     sync.RWMutex
	handle deviceHandle
	closed atomic.Bool

	regs    *Registers
	pool    *BufferPool
	metrics *Metrics
}

// Open opens the device at path with the requested access mode, using
// defaults for everything else.
//
// It fails with ErrNotFound when path does not exist or is not an FSCC port,
// and with ErrPermission when the caller lacks rights to the device node.
func Open(path string, mode AccessMode) (*Port, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAccessMode, int(mode))
	}
	cfg := DefaultConfig(path)
	cfg.Access = mode
	return OpenConfig(cfg, zerolog.Nop())
}

// OpenConfig opens the port described by cfg, logging through logger.
func OpenConfig(cfg Config, logger zerolog.Logger) (*Port, error) {
	cfg.applyDefaults()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	metrics := &Metrics{}
	metrics.OpenAttempts.Inc()

	log := logger.With().Str("device", cfg.Path).Logger()

	h, err := openDevice(cfg.Path, cfg.Access)
	if err != nil {
		metrics.OpenFailures.Inc()
		log.Warn().Err(err).Msg("open failed")
		return nil, err
	}

	p := &Port{
		path:    cfg.Path,
		mode:    cfg.Access,
		cfg:     cfg,
		logger:  log,
		handle:  h,
		pool:    NewBufferPool(cfg.MaxFrameSize),
		metrics: metrics,
	}
	p.regs = &Registers{port: p}

	if !cfg.SkipProbe {
		if err = p.probe(); err != nil {
			metrics.OpenFailures.Inc()
			log.Warn().Err(err).Msg("probe failed")
			return nil, p.abandon(err)
		}
	}

	metrics.OpenedAt.Store(time.Now().UnixNano())
	log.Debug().Stringer("access", cfg.Access).Msg("port opened")
	return p, nil
}

// probe confirms the node answers the register ioctl.
func (p *Port) probe() error {
	_, err := p.readRegisters([]Register{VSTR})
	return err
}

// abandon releases the handle after a failed setup step and joins any error
// from closing with the original one.
func (p *Port) abandon(err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e := p.closeWithoutLock(); e != nil {
		err = stderrors.Join(err, e)
	}
	return err
}

// Path returns the device path the port was opened with.
func (p *Port) Path() string { return p.path }

// Mode returns the access mode the port was opened with.
func (p *Port) Mode() AccessMode { return p.mode }

// IsOpen reports whether the port has not been closed yet.
func (p *Port) IsOpen() bool { return !p.closed.Load() }

// Registers returns the typed register view bound to this port.
func (p *Port) Registers() *Registers { return p.regs }

// Close releases the device handle. Calling Close on a closed port is a
// no-op that returns nil. Close waits for a pending Read to return, so it
// blocks until that read receives a frame.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == nil {
		return nil
	}
	if err := p.closeWithoutLock(); err != nil {
		p.logger.Warn().Err(err).Msg("close failed")
		return errors.Annotatef(err, "closing %s", p.path)
	}
	p.logger.Debug().Msg("port closed")
	return nil
}

// closeWithoutLock assumes p.mu is held for writing.
func (p *Port) closeWithoutLock() error {
	h := p.handle
	p.handle = nil
	if p.closed.CompareAndSwap(false, true) {
		p.metrics.ClosedAt.Store(time.Now().UnixNano())
	}
	if h != nil {
		return h.Close()
	}
	return nil
}

// errClosed records the rejection and returns ErrClosed.
func (p *Port) errClosed() error {
	p.metrics.ClosedRejected.Inc()
	return ErrClosed
}

// ReadRegister returns the current value of reg.
func (p *Port) ReadRegister(reg Register) (uint32, error) {
	values, err := p.readRegisters([]Register{reg})
	if err != nil {
		return 0, err
	}
	return values[reg], nil
}

// WriteRegister stores value into reg.
func (p *Port) WriteRegister(reg Register, value uint32) error {
	return p.writeRegisters(map[Register]uint32{reg: value})
}

func (p *Port) readRegisters(regs []Register) (map[Register]uint32, error) {
	b := newRegisterBlock()
	for _, r := range regs {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownRegister, int(r))
		}
		b.request(r)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.handle == nil {
		return nil, p.errClosed()
	}

	start := time.Now()
	err := p.handle.GetRegisters(b)
	p.metrics.recordIoctl(time.Since(start))
	if err != nil {
		p.metrics.RegisterErrors.Inc()
		p.metrics.recordFailure()
		p.logger.Warn().Err(err).Msg("get registers failed")
		return nil, errors.Annotatef(err, "reading registers on %s", p.path)
	}

	values := make(map[Register]uint32, len(regs))
	for _, r := range regs {
		values[r] = b.value(r)
		p.metrics.RegisterReads.Inc()
		p.logger.Trace().Stringer("register", r).Uint32("value", values[r]).Msg("register read")
	}
	p.metrics.recordSuccess()
	return values, nil
}

func (p *Port) writeRegisters(values map[Register]uint32) error {
	b := newRegisterBlock()
	for r, v := range values {
		if err := checkWritable(r, v); err != nil {
			return err
		}
		b.set(r, v)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.handle == nil {
		return p.errClosed()
	}

	start := time.Now()
	err := p.handle.SetRegisters(b)
	p.metrics.recordIoctl(time.Since(start))
	if err != nil {
		p.metrics.RegisterErrors.Inc()
		p.metrics.recordFailure()
		p.logger.Warn().Err(err).Msg("set registers failed")
		return errors.Annotatef(err, "writing registers on %s", p.path)
	}

	for r, v := range values {
		p.metrics.RegisterWrites.Inc()
		p.logger.Debug().Stringer("register", r).Uint32("value", v).Msg("register written")
	}
	p.metrics.recordSuccess()
	return nil
}

// validateFrame checks a frame buffer against the configured maximum.
func (p *Port) validateFrame(b []byte) error {
	if len(b) == 0 {
		p.metrics.FrameErrors.Inc()
		return ErrInvalidBuffer
	}
	if len(b) > p.cfg.MaxFrameSize {
		p.metrics.FrameErrors.Inc()
		return fmt.Errorf("%w: %d > %d", ErrBufferTooLarge, len(b), p.cfg.MaxFrameSize)
	}
	return nil
}

// Write sends b to the device as one frame. The port must have been opened
// with write access.
func (p *Port) Write(b []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.handle == nil {
		return 0, p.errClosed()
	}
	if !p.mode.CanWrite() {
		return 0, fmt.Errorf("%w: write on %s port", ErrAccessDenied, p.mode)
	}
	if err := p.validateFrame(b); err != nil {
		return 0, err
	}

	n, err := p.handle.Write(b)
	if err != nil {
		p.metrics.FrameErrors.Inc()
		p.metrics.recordFailure()
		return n, errors.Annotatef(err, "writing frame to %s", p.path)
	}
	if n < len(b) {
		p.metrics.FrameErrors.Inc()
		p.metrics.recordFailure()
		return n, fmt.Errorf("partial frame write: %d of %d bytes", n, len(b))
	}

	p.metrics.FramesWritten.Inc()
	p.metrics.BytesWritten.Add(int64(n))
	p.metrics.recordSuccess()
	return n, nil
}

// Read blocks until the next frame arrives and copies it into b. The port
// must have been opened with read access.
func (p *Port) Read(b []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.handle == nil {
		return 0, p.errClosed()
	}
	if !p.mode.CanRead() {
		return 0, fmt.Errorf("%w: read on %s port", ErrAccessDenied, p.mode)
	}
	if err := p.validateFrame(b); err != nil {
		return 0, err
	}

	n, err := p.handle.Read(b)
	if err != nil {
		p.metrics.FrameErrors.Inc()
		p.metrics.recordFailure()
		return n, errors.Annotatef(err, "reading frame from %s", p.path)
	}

	p.metrics.FramesRead.Inc()
	p.metrics.BytesRead.Add(int64(n))
	p.metrics.recordSuccess()
	return n, nil
}

// ReadFrame reads the next frame into a pooled buffer and returns a copy of
// the bytes received.
func (p *Port) ReadFrame() ([]byte, error) {
	created := p.pool.creates.Load()
	buf := p.pool.Get()
	defer p.pool.Put(buf)
	if p.pool.creates.Load() == created {
		p.metrics.BufferPoolHits.Inc()
	} else {
		p.metrics.BufferPoolMisses.Inc()
	}

	n, err := p.Read(buf)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, n)
	copy(frame, buf[:n])
	return frame, nil
}

// GetPoolStats returns statistics for the frame buffer pool.
func (p *Port) GetPoolStats() PoolStats {
	return p.pool.Stats()
}

// Metrics returns the live counters for this port.
func (p *Port) Metrics() *Metrics {
	return p.metrics
}

// MetricsSnapshot returns a point-in-time copy of the port's metrics.
func (p *Port) MetricsSnapshot() MetricsSnapshot {
	return p.metrics.snapshot(p.path, p.IsOpen())
}
