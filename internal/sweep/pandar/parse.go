// Package pandar parses Pandar40P-class UDP packets into per-channel sweep
// detections.
//
// PACKET STRUCTURE (1262 bytes total):
// ├── Data Blocks (1240 bytes) - 10 blocks × 124 bytes each, starting at offset 0
// │   └── Each block: 2-byte preamble (0xFFEE) + 2-byte azimuth + 40 channels × 3 bytes (distance + reflectivity)
// └── Tail (22 bytes) - timing and status data, not needed for accumulation
//
// The parser validates packet size and block preambles, converts raw
// distance/reflectivity pairs to Cartesian detections using per-channel beam
// elevations, and reports the azimuth of the packet's final block so the
// caller can detect sweep rollover.
package pandar

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/banshee-data/lidarsweep/internal/sweep"
)

// Pandar40P packet structure constants. These define the fixed format of UDP
// packets sent by Hesai Pandar40P-class sensors.
const (
	PACKET_SIZE_STANDARD = 1262                                                                          // Standard UDP packet size in bytes (without UDP sequence)
	PACKET_SIZE_SEQUENCE = 1266                                                                          // UDP packet size with 4-byte sequence number
	BLOCKS_PER_PACKET    = 10                                                                            // Number of data blocks per packet
	CHANNELS_PER_BLOCK   = 40                                                                            // Number of laser channels per data block
	BYTES_PER_CHANNEL    = 3                                                                             // Channel data size: 2 bytes distance + 1 byte reflectivity
	BLOCK_PREAMBLE_SIZE  = 2                                                                             // Block preamble size (0xFFEE marker)
	AZIMUTH_SIZE         = 2                                                                             // Azimuth field size in each data block (little-endian)
	SEQUENCE_SIZE        = 4                                                                             // UDP sequence number size (when enabled)
	BLOCK_SIZE           = BLOCK_PREAMBLE_SIZE + AZIMUTH_SIZE + (CHANNELS_PER_BLOCK * BYTES_PER_CHANNEL) // 124 bytes per block
	RANGING_DATA_SIZE    = BLOCKS_PER_PACKET * BLOCK_SIZE                                                // 1240 bytes for all blocks

	// Physical measurement conversion constants
	DISTANCE_RESOLUTION = 0.004 // Distance unit: 4mm per LSB (converts raw values to meters)
	AZIMUTH_RESOLUTION  = 0.01  // Azimuth unit: 0.01 degrees per LSB
)

// ChannelReturn couples a parsed detection with the channel that produced it.
type ChannelReturn struct {
	Channel   uint32
	Detection sweep.Detection
}

// Config holds the per-channel beam geometry. A zero Config is unusable; use
// DefaultConfig for a sensible evenly-spaced elevation ladder or supply the
// sensor's real calibration table.
type Config struct {
	Elevations [CHANNELS_PER_BLOCK]float64 // per-channel beam elevation (degrees above horizontal)
}

// DefaultConfig returns elevations evenly spaced from -25 to +14 degrees,
// channel 0 lowest. Real deployments replace this with the unit's calibration
// sheet values.
func DefaultConfig() Config {
	var cfg Config
	for i := range cfg.Elevations {
		cfg.Elevations[i] = -25.0 + float64(i)
	}
	return cfg
}

// Parser converts raw packets to per-channel detections. Elevation sines and
// cosines are precomputed once per parser so the per-point transform is two
// multiplies and two trig lookups on azimuth only.
type Parser struct {
	cosElev [CHANNELS_PER_BLOCK]float64
	sinElev [CHANNELS_PER_BLOCK]float64
}

// NewParser builds a parser for the given beam geometry.
func NewParser(cfg Config) *Parser {
	p := &Parser{}
	for i, elev := range cfg.Elevations {
		rad := elev * math.Pi / 180.0
		p.cosElev[i] = math.Cos(rad)
		p.sinElev[i] = math.Sin(rad)
	}
	return p
}

// ParsePacket validates and walks the packet's data blocks. It returns the
// detections with their channel indices and the azimuth (degrees) of the
// packet's final block. Zero-distance channel slots carry no laser return and
// are skipped.
func (p *Parser) ParsePacket(data []byte) ([]ChannelReturn, float64, error) {
	var payload []byte
	switch len(data) {
	case PACKET_SIZE_STANDARD:
		payload = data
	case PACKET_SIZE_SEQUENCE:
		// Sequence-suffixed capture: drop the trailing UDP sequence number.
		payload = data[:len(data)-SEQUENCE_SIZE]
	default:
		return nil, 0, fmt.Errorf("invalid packet size: expected %d or %d, got %d",
			PACKET_SIZE_STANDARD, PACKET_SIZE_SEQUENCE, len(data))
	}

	returns := make([]ChannelReturn, 0, BLOCKS_PER_PACKET*CHANNELS_PER_BLOCK)
	lastAzimuth := 0.0
	for blockIdx := 0; blockIdx < BLOCKS_PER_PACKET; blockIdx++ {
		block := payload[blockIdx*BLOCK_SIZE : (blockIdx+1)*BLOCK_SIZE]

		// 0xFFEE appears as 0xEEFF when read little-endian.
		if preamble := binary.LittleEndian.Uint16(block[0:2]); preamble != 0xEEFF {
			return nil, 0, fmt.Errorf("block %d: invalid preamble 0x%04X", blockIdx, preamble)
		}

		azimuthDeg := float64(binary.LittleEndian.Uint16(block[2:4])) * AZIMUTH_RESOLUTION
		lastAzimuth = azimuthDeg
		azRad := azimuthDeg * math.Pi / 180.0
		sinAz, cosAz := math.Sin(azRad), math.Cos(azRad)

		off := BLOCK_PREAMBLE_SIZE + AZIMUTH_SIZE
		for ch := 0; ch < CHANNELS_PER_BLOCK; ch++ {
			rawDist := binary.LittleEndian.Uint16(block[off : off+2])
			reflectivity := block[off+2]
			off += BYTES_PER_CHANNEL
			if rawDist == 0 {
				continue // no laser return
			}

			dist := float64(rawDist) * DISTANCE_RESOLUTION
			horiz := dist * p.cosElev[ch]
			returns = append(returns, ChannelReturn{
				Channel: uint32(ch),
				Detection: sweep.NewDetection(
					float32(horiz*sinAz),
					float32(horiz*cosAz),
					float32(dist*p.sinElev[ch]),
					float32(reflectivity)/255.0,
				),
			})
		}
	}
	return returns, lastAzimuth, nil
}
