package packets

import (
	"sync"
	"time"
)

// ReadRateMonitor wraps a PacketIO to report the byte rate observed on
// its ReadPacket calls (§ "READ-RATE-MONITOR"), without altering read
// semantics or error propagation.
type ReadRateMonitor struct {
	inner IO

	mu        sync.Mutex
	start     time.Time
	totalRead uint64
	now       func() time.Time
}

// NewReadRateMonitor wraps inner, starting its rate window immediately.
func NewReadRateMonitor(inner IO) *ReadRateMonitor {
	return newReadRateMonitor(inner, time.Now)
}

func newReadRateMonitor(inner IO, now func() time.Time) *ReadRateMonitor {
	return &ReadRateMonitor{inner: inner, start: now(), now: now}
}

// WritePacket forwards to the wrapped IO unchanged.
func (m *ReadRateMonitor) WritePacket(p Packet) error {
	return m.inner.WritePacket(p)
}

// ReadPacket forwards to the wrapped IO, accumulating the packet's wire
// size (header included) toward the rate counter.
func (m *ReadRateMonitor) ReadPacket() (Packet, error) {
	p, err := m.inner.ReadPacket()
	if err != nil {
		return p, err
	}
	m.mu.Lock()
	m.totalRead += uint64(p.Size())
	m.mu.Unlock()
	return p, nil
}

// BytesPerSecond reports the average read rate since the monitor was
// created (or since the last Reset), in bytes per second. Returns 0 if
// no time has elapsed yet.
func (m *ReadRateMonitor) BytesPerSecond() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	elapsed := m.now().Sub(m.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.totalRead) / elapsed
}

// Reset zeroes the byte counter and restarts the rate window.
func (m *ReadRateMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalRead = 0
	m.start = m.now()
}
