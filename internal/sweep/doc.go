// Package sweep accumulates the detections produced during one rotation of a
// multi-channel rangefinder and consolidates them into the fixed wire layout
// consumed by downstream serializers and file writers.
//
// The header of a consolidated sweep is an array of uint32 words in the
// following layout
//
//	{
//	  Horizontal angle (float32 bit pattern),
//	  Channel count,
//	  Point count of channel 0,
//	  ...
//	  Point count of channel n,
//	}
//
// The points follow as a flat array of float32 values
//
//	{
//	  X0, Y0, Z0, I0,
//	  ...
//	  Xn, Yn, Zn, In,
//	}
//
// grouped by ascending channel index, in append order within a channel. Any
// consumer claiming compatibility must reproduce this layout byte for byte.
package sweep
