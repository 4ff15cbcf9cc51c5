package sweep

import (
	"math"
	"unsafe"
)

// Header word indexes. The two fixed words are followed by one point-count
// word per channel.
const (
	idxHorizontalAngle = iota
	idxChannelCount
	headerFixedWords
)

// floatsPerDetection is the number of float32 scalars one detection
// contributes to the flat point buffer (x, y, z, intensity).
const floatsPerDetection = 4

// The horizontal-angle header word stores a float32 bit pattern verbatim, so
// float32 and uint32 must be the same width. This fails to compile on any
// platform where they are not.
var _ [1]struct{} = [unsafe.Sizeof(float32(0)) - unsafe.Sizeof(uint32(0)) + 1]struct{}{}

// SweepData accumulates the detections of one sensor sweep.
//
// During the staging phase each channel owns an independent growable buffer,
// so one producer per channel may call Append concurrently with producers of
// other channels without locking. Consolidate is the one-way transition to
// the read phase: it writes the per-channel counts into the header and
// flattens all staged detections into the point buffer. The caller must join
// all producers before consolidating, and must Reset before staging the next
// sweep.
type SweepData struct {
	header           []uint32
	staging          [][]Detection
	points           []float32
	maxChannelPoints uint32
}

// NewSweepData builds an accumulator for a fixed number of channels. The
// channel count is immutable for the accumulator's lifetime.
func NewSweepData(channelCount uint32) *SweepData {
	header := make([]uint32, headerFixedWords+int(channelCount))
	header[idxChannelCount] = channelCount
	return &SweepData{
		header:  header,
		staging: make([][]Detection, channelCount),
	}
}

// HorizontalAngle returns the sweep's horizontal angle. The value is
// recovered from the header word's raw bit pattern, so any float32 written by
// SetHorizontalAngle round-trips exactly, NaN and Inf included.
func (d *SweepData) HorizontalAngle() float32 {
	return math.Float32frombits(d.header[idxHorizontalAngle])
}

// SetHorizontalAngle stores the angle's raw bit pattern in the header. No
// numeric conversion takes place.
func (d *SweepData) SetHorizontalAngle(angle float32) {
	d.header[idxHorizontalAngle] = math.Float32bits(angle)
}

// ChannelCount returns the immutable channel count.
func (d *SweepData) ChannelCount() uint32 {
	return d.header[idxChannelCount]
}

// Reset prepares the accumulator for a new sweep: it zeroes every per-channel
// count word, clears all staging buffers, and pre-reserves each buffer's
// capacity to maxPointsHint. The hint is a performance optimization only;
// appending past it still succeeds by growing the buffer. Calling Reset
// mid-sweep discards that sweep's unconsolidated staged detections.
func (d *SweepData) Reset(maxPointsHint uint32) {
	d.maxChannelPoints = maxPointsHint
	for i := range d.staging {
		d.header[headerFixedWords+i] = 0
		if uint32(cap(d.staging[i])) < maxPointsHint {
			d.staging[i] = make([]Detection, 0, maxPointsHint)
		} else {
			d.staging[i] = d.staging[i][:0]
		}
	}
}

// Append stages one detection on the given channel. The caller must keep
// channel below ChannelCount; the bounds assertion is active only under the
// sweepdebug build tag so the hot path carries no extra check in release
// builds. Distinct channels may be appended to concurrently; a single channel
// must have exactly one producer.
func (d *SweepData) Append(channel uint32, det Detection) {
	assertChannelInRange(channel, d.ChannelCount())
	d.staging[channel] = append(d.staging[channel], det)
}

// Consolidate flattens the staged detections into the point buffer and writes
// each channel's staged size into its header count word. The point buffer is
// rebuilt from scratch on every call, so consolidating twice with unchanged
// staging produces identical contents. After Consolidate the header and point
// buffer are mutually consistent and ready for serialization.
func (d *SweepData) Consolidate() {
	total := 0
	for _, ch := range d.staging {
		total += len(ch)
	}
	if cap(d.points) < floatsPerDetection*total {
		d.points = make([]float32, 0, floatsPerDetection*total)
	} else {
		d.points = d.points[:0]
	}
	for i, ch := range d.staging {
		d.header[headerFixedWords+i] = uint32(len(ch))
		for _, det := range ch {
			d.points = append(d.points, det.X, det.Y, det.Z, det.Intensity)
		}
	}
}

// Header returns the header words: angle bits, channel count, then one point
// count per channel. The slice is a view of the accumulator's state, not a
// copy; it is only meaningful for serialization after Consolidate.
func (d *SweepData) Header() []uint32 {
	return d.header
}

// Points returns the flat point buffer produced by the last Consolidate, 4
// float32 values per detection, grouped by ascending channel. The slice is a
// view, not a copy.
func (d *SweepData) Points() []float32 {
	return d.points
}

// PointCount returns the header's point count for one channel.
func (d *SweepData) PointCount(channel uint32) uint32 {
	return d.header[headerFixedWords+int(channel)]
}

// TotalPoints sums the header's per-channel counts.
func (d *SweepData) TotalPoints() int {
	total := 0
	for _, c := range d.header[headerFixedWords:] {
		total += int(c)
	}
	return total
}
