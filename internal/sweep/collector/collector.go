// Package collector drives the per-sweep lifecycle around a sweep.SweepData:
// it detects sweep rollover from the azimuth wrapping past 360°, fans staged
// detections out to one worker goroutine per channel, joins the workers, and
// consolidates before handing the finished sweep to the configured sink.
//
// The accumulator itself provides no synchronization; the collector is the
// caller-side barrier that guarantees one producer per channel during staging
// and quiescence before Consolidate.
package collector

import (
	"sync"
	"time"

	"github.com/banshee-data/lidarsweep/internal/sweep"
	"github.com/banshee-data/lidarsweep/internal/sweep/pandar"
)

// SweepSink consumes one consolidated sweep. The SweepData is reused for the
// next sweep as soon as the sink returns, so the sink must finish with it (or
// copy what it needs) before returning.
type SweepSink func(data *sweep.SweepData, completedAt time.Time)

// Config holds collector configuration.
type Config struct {
	ChannelCount  uint32
	MaxPointsHint uint32    // per-channel staging pre-reservation per sweep
	QueueDepth    int       // per-channel queue depth (default 1024)
	Sink          SweepSink // invoked once per consolidated sweep
}

// Collector assembles parsed returns into consolidated sweeps. It is not safe
// for concurrent use; feed it from a single goroutine (the packet receive
// loop).
type Collector struct {
	data   *sweep.SweepData
	hint   uint32
	depth  int
	sink   SweepSink
	queues []chan sweep.Detection
	wg     sync.WaitGroup

	lastAzimuth float64
	haveAzimuth bool
	closed      bool
}

// New builds a collector and starts its per-channel workers.
func New(cfg Config) *Collector {
	depth := cfg.QueueDepth
	if depth == 0 {
		depth = 1024
	}
	c := &Collector{
		data:  sweep.NewSweepData(cfg.ChannelCount),
		hint:  cfg.MaxPointsHint,
		depth: depth,
		sink:  cfg.Sink,
	}
	c.data.Reset(c.hint)
	c.startWorkers()
	return c
}

// startWorkers spawns one goroutine per channel. Each worker is the sole
// appender for its channel, which is exactly the concurrency contract the
// accumulator's staging buffers permit.
func (c *Collector) startWorkers() {
	c.queues = make([]chan sweep.Detection, c.data.ChannelCount())
	for i := range c.queues {
		q := make(chan sweep.Detection, c.depth)
		c.queues[i] = q
		c.wg.Add(1)
		go func(ch uint32, q <-chan sweep.Detection) {
			defer c.wg.Done()
			for det := range q {
				c.data.Append(ch, det)
			}
		}(uint32(i), q)
	}
}

// AddReturns stages a packet's parsed returns. azimuth is the packet's final
// block azimuth in degrees; when it wraps below the previous packet's value
// the in-progress sweep is finished first, so the new packet's returns open
// the next sweep.
func (c *Collector) AddReturns(returns []pandar.ChannelReturn, azimuth float64) {
	if c.closed {
		return
	}
	if c.haveAzimuth && azimuth < c.lastAzimuth {
		c.finishSweep()
	}
	c.lastAzimuth = azimuth
	c.haveAzimuth = true
	for _, r := range returns {
		c.queues[r.Channel] <- r.Detection
	}
}

// finishSweep joins the workers, consolidates, hands off, and re-arms the
// accumulator and workers for the next sweep.
func (c *Collector) finishSweep() {
	for _, q := range c.queues {
		close(q)
	}
	c.wg.Wait()

	c.data.SetHorizontalAngle(float32(c.lastAzimuth))
	c.data.Consolidate()
	if c.sink != nil {
		c.sink(c.data, time.Now())
	}

	c.data.Reset(c.hint)
	c.startWorkers()
}

// Close drains the workers and consolidates any partial final sweep,
// delivering it to the sink if it holds any points. The collector accepts no
// returns afterwards.
func (c *Collector) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, q := range c.queues {
		close(q)
	}
	c.wg.Wait()

	c.data.SetHorizontalAngle(float32(c.lastAzimuth))
	c.data.Consolidate()
	if c.sink != nil && c.data.TotalPoints() > 0 {
		c.sink(c.data, time.Now())
	}
}
