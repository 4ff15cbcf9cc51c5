package collector

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/banshee-data/lidarsweep/internal/monitoring"
	"github.com/banshee-data/lidarsweep/internal/sweep"
	"github.com/banshee-data/lidarsweep/internal/sweep/pandar"
)

// capturedSweep is a deep copy of a consolidated sweep taken inside the sink,
// since the collector reuses the accumulator after the sink returns.
type capturedSweep struct {
	angle  float32
	counts []uint32
	points []float32
}

func capturingSink(out *[]capturedSweep) SweepSink {
	return func(data *sweep.SweepData, completedAt time.Time) {
		header := data.Header()
		*out = append(*out, capturedSweep{
			angle:  data.HorizontalAngle(),
			counts: append([]uint32(nil), header[2:]...),
			points: append([]float32(nil), data.Points()...),
		})
	}
}

func ret(ch uint32, x float32) pandar.ChannelReturn {
	return pandar.ChannelReturn{Channel: ch, Detection: sweep.NewDetection(x, 0, 0, 0.5)}
}

func TestCollectorRolloverOnAzimuthWrap(t *testing.T) {
	var sweeps []capturedSweep
	c := New(Config{
		ChannelCount:  2,
		MaxPointsHint: 16,
		Sink:          capturingSink(&sweeps),
	})

	c.AddReturns([]pandar.ChannelReturn{ret(0, 1), ret(1, 2)}, 90)
	c.AddReturns([]pandar.ChannelReturn{ret(0, 3)}, 270)
	// Azimuth wraps: previous sweep must be consolidated before these land.
	c.AddReturns([]pandar.ChannelReturn{ret(1, 4)}, 10)
	c.Close()

	if len(sweeps) != 2 {
		t.Fatalf("got %d sweeps, want 2", len(sweeps))
	}

	first := sweeps[0]
	if first.counts[0] != 2 || first.counts[1] != 1 {
		t.Errorf("first sweep counts = %v, want [2 1]", first.counts)
	}
	if first.angle != 270 {
		t.Errorf("first sweep angle = %v, want 270", first.angle)
	}
	if len(first.points) != 12 {
		t.Fatalf("first sweep has %d point values, want 12", len(first.points))
	}
	// Channel 0 records first (x=1 then x=3), then channel 1 (x=2).
	if first.points[0] != 1 || first.points[4] != 3 || first.points[8] != 2 {
		t.Errorf("first sweep layout wrong: %v", first.points)
	}

	second := sweeps[1]
	if second.counts[0] != 0 || second.counts[1] != 1 {
		t.Errorf("second sweep counts = %v, want [0 1]", second.counts)
	}
	if second.angle != 10 {
		t.Errorf("second sweep angle = %v, want 10", second.angle)
	}
}

func TestCollectorCloseWithoutPointsDeliversNothing(t *testing.T) {
	var sweeps []capturedSweep
	c := New(Config{ChannelCount: 4, Sink: capturingSink(&sweeps)})
	c.AddReturns(nil, 15)
	c.Close()
	if len(sweeps) != 0 {
		t.Errorf("empty collector delivered %d sweeps", len(sweeps))
	}
	// Further adds after Close are dropped, not a crash.
	c.AddReturns([]pandar.ChannelReturn{ret(0, 1)}, 20)
	c.Close()
}

func TestCollectorManySweeps(t *testing.T) {
	var sweeps []capturedSweep
	c := New(Config{ChannelCount: 1, MaxPointsHint: 4, QueueDepth: 8, Sink: capturingSink(&sweeps)})
	for rotation := 0; rotation < 5; rotation++ {
		for az := 0.0; az < 360; az += 45 {
			c.AddReturns([]pandar.ChannelReturn{ret(0, float32(az))}, az)
		}
	}
	c.Close()

	if len(sweeps) != 5 {
		t.Fatalf("got %d sweeps, want 5", len(sweeps))
	}
	for i, s := range sweeps {
		if s.counts[0] != 8 {
			t.Errorf("sweep %d count = %d, want 8", i, s.counts[0])
		}
	}
}

func TestPipelineFeedsCollectorAndCountsErrors(t *testing.T) {
	monitoring.SetLogger(nil)
	defer monitoring.SetLogger(nil)

	var sweeps []capturedSweep
	stats := monitoring.NewCaptureStats()
	p := &Pipeline{
		Parser:    pandar.NewParser(pandar.DefaultConfig()),
		Collector: New(Config{ChannelCount: pandar.CHANNELS_PER_BLOCK, MaxPointsHint: 64, Sink: capturingSink(&sweeps)}),
		Stats:     stats,
	}

	p.HandlePacket(make([]byte, 10), time.Now()) // malformed

	pkt := make([]byte, pandar.PACKET_SIZE_STANDARD)
	for b := 0; b < pandar.BLOCKS_PER_PACKET; b++ {
		block := pkt[b*pandar.BLOCK_SIZE:]
		binary.LittleEndian.PutUint16(block[0:2], 0xEEFF)
		binary.LittleEndian.PutUint16(block[2:4], 9000) // 90°
		binary.LittleEndian.PutUint16(block[4:6], 2500) // 10m on channel 0
		block[6] = 200
	}
	p.HandlePacket(pkt, time.Now())
	p.Collector.Close()

	_, _, parseErrors, points, _, _ := stats.GetAndReset()
	if parseErrors != 1 {
		t.Errorf("parse errors = %d, want 1", parseErrors)
	}
	if points != pandar.BLOCKS_PER_PACKET {
		t.Errorf("points = %d, want %d", points, pandar.BLOCKS_PER_PACKET)
	}
	if len(sweeps) != 1 {
		t.Fatalf("got %d sweeps, want 1", len(sweeps))
	}
	if got := sweeps[0].counts[0]; got != pandar.BLOCKS_PER_PACKET {
		t.Errorf("channel 0 count = %d, want %d", got, pandar.BLOCKS_PER_PACKET)
	}
	if math.Abs(float64(sweeps[0].angle)-90) > 1e-6 {
		t.Errorf("angle = %v, want 90", sweeps[0].angle)
	}
}
