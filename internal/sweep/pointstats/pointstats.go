// Package pointstats summarizes consolidated sweeps for capture diagnostics:
// intensity and range distributions a field operator can sanity-check a
// sensor against.
package pointstats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/lidarsweep/internal/sweep"
)

// Summary holds distribution figures over one consolidated sweep.
type Summary struct {
	PointCount      int
	IntensityMean   float64
	IntensityStdDev float64
	RangeMean       float64 // meters from sensor origin
	RangeMax        float64
}

// Summarize walks the sweep's flat buffer and computes intensity and range
// statistics. A sweep with no points yields a zero Summary.
func Summarize(data *sweep.SweepData) Summary {
	points := data.Points()
	n := len(points) / 4
	if n == 0 {
		return Summary{}
	}

	intensities := make([]float64, n)
	ranges := make([]float64, n)
	maxRange := 0.0
	for i := 0; i < n; i++ {
		x := float64(points[4*i])
		y := float64(points[4*i+1])
		z := float64(points[4*i+2])
		intensities[i] = float64(points[4*i+3])
		r := math.Sqrt(x*x + y*y + z*z)
		ranges[i] = r
		if r > maxRange {
			maxRange = r
		}
	}

	meanI, stdI := stat.MeanStdDev(intensities, nil)
	if n == 1 {
		stdI = 0 // MeanStdDev returns NaN for a single sample
	}
	return Summary{
		PointCount:      n,
		IntensityMean:   meanI,
		IntensityStdDev: stdI,
		RangeMean:       stat.Mean(ranges, nil),
		RangeMax:        maxRange,
	}
}
