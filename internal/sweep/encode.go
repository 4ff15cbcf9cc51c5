package sweep

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// wordSize is the encoded width of every header word and point scalar.
const wordSize = 4

// EncodedSize returns the number of bytes WriteTo emits for the current
// header and point buffer.
func (d *SweepData) EncodedSize() int {
	return wordSize * (len(d.header) + len(d.points))
}

// WriteTo emits the sweep's wire layout: the header words immediately
// followed by the flat point buffer, every value a little-endian 32-bit word.
// The horizontal-angle word is written bit-for-bit as stored. Call only after
// Consolidate; staging contents are not encoded.
func (d *SweepData) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, d.EncodedSize())
	off := 0
	for _, word := range d.header {
		binary.LittleEndian.PutUint32(buf[off:], word)
		off += wordSize
	}
	for _, f := range d.points {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += wordSize
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// Decode reconstructs a consolidated sweep from its wire layout. The result
// is in the read phase: header and point buffer are populated, staging is
// empty, and Reset must be called before it can accumulate a new sweep.
// Decode verifies the layout invariant that the point buffer holds exactly
// 4 x (sum of per-channel counts) values.
func Decode(buf []byte) (*SweepData, error) {
	if len(buf)%wordSize != 0 {
		return nil, fmt.Errorf("sweep buffer length %d is not word-aligned", len(buf))
	}
	words := len(buf) / wordSize
	if words < headerFixedWords {
		return nil, fmt.Errorf("sweep buffer too short: %d words, need at least %d", words, headerFixedWords)
	}
	channelCount := binary.LittleEndian.Uint32(buf[idxChannelCount*wordSize:])
	headerWords := headerFixedWords + int(channelCount)
	if words < headerWords {
		return nil, fmt.Errorf("sweep buffer truncated: %d words, header needs %d for %d channels",
			words, headerWords, channelCount)
	}

	d := NewSweepData(channelCount)
	total := 0
	for i := range d.header {
		d.header[i] = binary.LittleEndian.Uint32(buf[i*wordSize:])
	}
	for _, c := range d.header[headerFixedWords:] {
		total += int(c)
	}

	pointWords := words - headerWords
	if pointWords != floatsPerDetection*total {
		return nil, fmt.Errorf("sweep buffer holds %d point values, header counts imply %d",
			pointWords, floatsPerDetection*total)
	}
	d.points = make([]float32, pointWords)
	for i := range d.points {
		d.points[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[(headerWords+i)*wordSize:]))
	}
	return d, nil
}
