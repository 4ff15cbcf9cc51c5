// Package ascexport renders consolidated sweeps as text point clouds. The
// formatters are pure functions over an io.Writer; callers own file creation
// and naming.
package ascexport

import (
	"fmt"
	"io"

	"github.com/banshee-data/lidarsweep/internal/sweep"
)

// WriteASC writes a CloudCompare-compatible .asc point cloud: a comment
// header followed by one "x y z I" line per detection, in the flat buffer's
// channel-grouped order.
func WriteASC(w io.Writer, data *sweep.SweepData) error {
	if _, err := fmt.Fprintf(w, "# lidarsweep export\n# Format: X Y Z I\n"); err != nil {
		return err
	}
	return writeRecords(w, data.Points())
}

// WritePLY writes an ASCII PLY point cloud. The vertex element count is the
// header's consolidated total, so the sweep must have been consolidated.
func WritePLY(w io.Writer, data *sweep.SweepData) error {
	if _, err := fmt.Fprintf(w, "ply\nformat ascii 1.0\nelement vertex %d\n", data.TotalPoints()); err != nil {
		return err
	}
	if err := (sweep.Detection{}).WritePLYHeaderInfo(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "end_header\n"); err != nil {
		return err
	}
	return writeRecords(w, data.Points())
}

// writeRecords walks the flat buffer in groups of four and writes one
// space-separated record per line.
func writeRecords(w io.Writer, points []float32) error {
	for i := 0; i+3 < len(points); i += 4 {
		det := sweep.NewDetection(points[i], points[i+1], points[i+2], points[i+3])
		if err := det.WriteDetection(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
