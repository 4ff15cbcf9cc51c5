package monitoring

import (
	"fmt"
	"sync"
	"time"
)

// CaptureStats tracks packet, point, and sweep throughput with thread-safe
// operations. Counters accumulate between LogStats calls; LogStats reports
// rates over the elapsed window and resets.
type CaptureStats struct {
	mu          sync.Mutex
	packetCount int64
	byteCount   int64
	parseErrors int64
	pointCount  int64
	sweepCount  int64
	lastReset   time.Time
	startTime   time.Time
}

// NewCaptureStats creates a CaptureStats with the window starting now.
func NewCaptureStats() *CaptureStats {
	now := time.Now()
	return &CaptureStats{lastReset: now, startTime: now}
}

// AddPacket increments packet count and byte count.
func (cs *CaptureStats) AddPacket(bytes int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.packetCount++
	cs.byteCount += int64(bytes)
}

// AddParseError counts a packet the parser rejected.
func (cs *CaptureStats) AddParseError() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.parseErrors++
}

// AddPoints increments the staged detection count.
func (cs *CaptureStats) AddPoints(count int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.pointCount += int64(count)
}

// AddSweep counts one consolidated sweep.
func (cs *CaptureStats) AddSweep() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.sweepCount++
}

// GetAndReset returns the window's counters and starts a new window.
func (cs *CaptureStats) GetAndReset() (packets, bytes, parseErrors, points, sweeps int64, window time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := time.Now()
	window = now.Sub(cs.lastReset)
	packets, bytes = cs.packetCount, cs.byteCount
	parseErrors, points, sweeps = cs.parseErrors, cs.pointCount, cs.sweepCount

	cs.packetCount, cs.byteCount = 0, 0
	cs.parseErrors, cs.pointCount, cs.sweepCount = 0, 0, 0
	cs.lastReset = now
	return
}

// Uptime returns the time since the stats were created.
func (cs *CaptureStats) Uptime() time.Duration {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return time.Since(cs.startTime)
}

// LogStats reports the window's rates through Logf and resets the window.
// Quiet windows (no packets, no errors) log nothing.
func (cs *CaptureStats) LogStats() {
	packets, bytes, parseErrors, points, sweeps, window := cs.GetAndReset()
	if packets == 0 && parseErrors == 0 {
		return
	}
	secs := window.Seconds()
	msg := fmt.Sprintf("capture stats (/sec): %.2f MB, %.1f packets, %.0f points, %.2f sweeps",
		float64(bytes)/secs/(1024*1024), float64(packets)/secs, float64(points)/secs, float64(sweeps)/secs)
	if parseErrors > 0 {
		msg += fmt.Sprintf(", %d parse errors", parseErrors)
	}
	Logf("%s", msg)
}
