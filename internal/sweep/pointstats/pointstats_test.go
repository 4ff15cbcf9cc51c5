package pointstats

import (
	"math"
	"testing"

	"github.com/banshee-data/lidarsweep/internal/sweep"
)

func TestSummarizeKnownValues(t *testing.T) {
	d := sweep.NewSweepData(1)
	d.Reset(4)
	d.Append(0, sweep.NewDetection(3, 4, 0, 0.2))  // range 5
	d.Append(0, sweep.NewDetection(0, 0, 10, 0.8)) // range 10
	d.Consolidate()

	s := Summarize(d)
	if s.PointCount != 2 {
		t.Fatalf("point count = %d, want 2", s.PointCount)
	}
	if math.Abs(s.IntensityMean-0.5) > 1e-6 {
		t.Errorf("intensity mean = %v, want 0.5", s.IntensityMean)
	}
	// Sample standard deviation of {0.2, 0.8}.
	wantStd := math.Sqrt(0.18)
	if math.Abs(s.IntensityStdDev-wantStd) > 1e-6 {
		t.Errorf("intensity stddev = %v, want %v", s.IntensityStdDev, wantStd)
	}
	if math.Abs(s.RangeMean-7.5) > 1e-6 {
		t.Errorf("range mean = %v, want 7.5", s.RangeMean)
	}
	if math.Abs(s.RangeMax-10) > 1e-6 {
		t.Errorf("range max = %v, want 10", s.RangeMax)
	}
}

func TestSummarizeEmptyAndSingle(t *testing.T) {
	d := sweep.NewSweepData(1)
	d.Reset(1)
	d.Consolidate()
	if s := Summarize(d); s != (Summary{}) {
		t.Errorf("empty sweep summary = %+v, want zero value", s)
	}

	d.Reset(1)
	d.Append(0, sweep.NewDetection(1, 0, 0, 0.5))
	d.Consolidate()
	s := Summarize(d)
	if s.PointCount != 1 || s.IntensityStdDev != 0 {
		t.Errorf("single-point summary = %+v", s)
	}
}
