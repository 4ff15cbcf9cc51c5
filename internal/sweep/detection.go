package sweep

import (
	"fmt"
	"io"
)

// Vec3 is a Cartesian position in the sensor frame, in meters.
type Vec3 struct {
	X, Y, Z float32
}

// Detection is a single laser return: a sensor-frame position plus the return
// intensity. It is a plain value type; copying one carries no ownership.
type Detection struct {
	X, Y, Z   float32
	Intensity float32
}

// NewDetection builds a Detection from explicit position scalars and intensity.
func NewDetection(x, y, z, intensity float32) Detection {
	return Detection{X: x, Y: y, Z: z, Intensity: intensity}
}

// NewDetectionAt builds a Detection from a position value and intensity.
func NewDetectionAt(p Vec3, intensity float32) Detection {
	return Detection{X: p.X, Y: p.Y, Z: p.Z, Intensity: intensity}
}

// Position returns the detection's position as a Vec3.
func (d Detection) Position() Vec3 {
	return Vec3{X: d.X, Y: d.Y, Z: d.Z}
}

// WritePLYHeaderInfo writes the per-field property declarations for the four
// detection fields, one per line, as they appear in an ASCII point-cloud
// header.
func (d Detection) WritePLYHeaderInfo(w io.Writer) error {
	_, err := io.WriteString(w,
		"property float32 x\n"+
			"property float32 y\n"+
			"property float32 z\n"+
			"property float32 I\n")
	return err
}

// WriteDetection writes the detection's four values space-separated in
// x, y, z, intensity order with no trailing separator.
func (d Detection) WriteDetection(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%v %v %v %v", d.X, d.Y, d.Z, d.Intensity)
	return err
}
