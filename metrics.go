package fscc

import (
	"time"

	"go.uber.org/atomic"
)

// Metrics tracks register and frame activity on one port.
type Metrics struct {
	// Lifecycle
	OpenAttempts   atomic.Int64
	OpenFailures   atomic.Int64
	OpenedAt       atomic.Int64 // UnixNano of the successful open
	ClosedAt       atomic.Int64 // UnixNano of the first close
	ClosedRejected atomic.Int64 // operations refused because the port was closed

	// Register access
	RegisterReads  atomic.Int64
	RegisterWrites atomic.Int64
	RegisterErrors atomic.Int64
	TotalIoctlTime atomic.Int64 // ns
	MaxIoctlTime   atomic.Int64 // ns
	IoctlCalls     atomic.Int64

	// Frame I/O
	FramesRead    atomic.Int64
	FramesWritten atomic.Int64
	BytesRead     atomic.Int64
	BytesWritten  atomic.Int64
	FrameErrors   atomic.Int64

	// Buffer pool
	BufferPoolHits   atomic.Int64
	BufferPoolMisses atomic.Int64

	ConsecutiveFailures atomic.Int64
	LastErrorTime       atomic.Int64
}

// HealthStatus summarises the state of a port.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDown      HealthStatus = "down"
)

// MetricsSnapshot is a point-in-time copy of Metrics with derived values.
type MetricsSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Device    string    `json:"device"`
	IsOpen    bool      `json:"is_open"`

	RegisterReads  int64 `json:"register_reads"`
	RegisterWrites int64 `json:"register_writes"`
	RegisterErrors int64 `json:"register_errors"`
	FramesRead     int64 `json:"frames_read"`
	FramesWritten  int64 `json:"frames_written"`
	BytesRead      int64 `json:"bytes_read"`
	BytesWritten   int64 `json:"bytes_written"`
	FrameErrors    int64 `json:"frame_errors"`
	ClosedRejected int64 `json:"closed_rejected"`

	AverageIoctlLatency time.Duration `json:"average_ioctl_latency"`
	MaxIoctlLatency     time.Duration `json:"max_ioctl_latency"`
	ErrorRate           float64       `json:"error_rate"`
	ConsecutiveFailures int64         `json:"consecutive_failures"`
	BufferPoolHitRatio  float64       `json:"buffer_pool_hit_ratio"`
	UptimeSeconds       float64       `json:"uptime_seconds"`

	HealthStatus HealthStatus `json:"health_status"`
	HealthScore  float64      `json:"health_score"`
}

func (m *Metrics) recordIoctl(d time.Duration) {
	m.IoctlCalls.Inc()
	m.TotalIoctlTime.Add(d.Nanoseconds())
	for {
		current := m.MaxIoctlTime.Load()
		if d.Nanoseconds() <= current {
			break
		}
		if m.MaxIoctlTime.CompareAndSwap(current, d.Nanoseconds()) {
			break
		}
	}
}

func (m *Metrics) recordFailure() {
	m.ConsecutiveFailures.Inc()
	m.LastErrorTime.Store(time.Now().Unix())
}

func (m *Metrics) recordSuccess() {
	m.ConsecutiveFailures.Store(0)
}

func (m *Metrics) calculateAverageIoctlLatency() time.Duration {
	calls := m.IoctlCalls.Load()
	if calls == 0 {
		return 0
	}
	return time.Duration(m.TotalIoctlTime.Load() / calls)
}

// calculateErrorRate returns failed operations as a percentage of all operations.
func (m *Metrics) calculateErrorRate() float64 {
	ops := m.RegisterReads.Load() + m.RegisterWrites.Load() + m.FramesRead.Load() + m.FramesWritten.Load()
	errs := m.RegisterErrors.Load() + m.FrameErrors.Load()
	total := ops + errs
	if total == 0 {
		return 0
	}
	return float64(errs) / float64(total) * 100
}

func (m *Metrics) calculateBufferPoolHitRatio() float64 {
	total := m.BufferPoolHits.Load() + m.BufferPoolMisses.Load()
	if total == 0 {
		return 100.0
	}
	return float64(m.BufferPoolHits.Load()) / float64(total) * 100
}

func (m *Metrics) calculateUptime(isOpen bool, now time.Time) float64 {
	opened := m.OpenedAt.Load()
	if !isOpen || opened == 0 {
		return 0
	}
	d := now.UnixNano() - opened
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Second)
}

func (m *Metrics) snapshot(device string, isOpen bool) MetricsSnapshot {
	now := time.Now()
	s := MetricsSnapshot{
		Timestamp:           now,
		Device:              device,
		IsOpen:              isOpen,
		RegisterReads:       m.RegisterReads.Load(),
		RegisterWrites:      m.RegisterWrites.Load(),
		RegisterErrors:      m.RegisterErrors.Load(),
		FramesRead:          m.FramesRead.Load(),
		FramesWritten:       m.FramesWritten.Load(),
		BytesRead:           m.BytesRead.Load(),
		BytesWritten:        m.BytesWritten.Load(),
		FrameErrors:         m.FrameErrors.Load(),
		ClosedRejected:      m.ClosedRejected.Load(),
		AverageIoctlLatency: m.calculateAverageIoctlLatency(),
		MaxIoctlLatency:     time.Duration(m.MaxIoctlTime.Load()),
		ErrorRate:           m.calculateErrorRate(),
		ConsecutiveFailures: m.ConsecutiveFailures.Load(),
		BufferPoolHitRatio:  m.calculateBufferPoolHitRatio(),
		UptimeSeconds:       m.calculateUptime(isOpen, now),
	}
	s.HealthStatus = assessHealthStatus(&s)
	s.HealthScore = calculateHealthScore(&s)
	return s
}

func assessHealthStatus(s *MetricsSnapshot) HealthStatus {
	if !s.IsOpen {
		return HealthStatusDown
	}

	// Check for critical issues
	if s.ErrorRate > 50.0 || s.ConsecutiveFailures > 5 {
		return HealthStatusUnhealthy
	}

	if s.ErrorRate > 10.0 || s.ConsecutiveFailures > 3 {
		return HealthStatusDegraded
	}

	return HealthStatusHealthy
}

func calculateHealthScore(s *MetricsSnapshot) float64 {
	if !s.IsOpen {
		return 0.0
	}

	score := 100.0
	score -= s.ErrorRate * 2
	// consecutive failures weigh more than the overall rate
	score -= float64(s.ConsecutiveFailures) * 10

	if score < 0 {
		score = 0
	}
	return score
}
