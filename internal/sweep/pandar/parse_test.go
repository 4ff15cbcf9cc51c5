package pandar

import (
	"encoding/binary"
	"math"
	"testing"
)

// buildPacket assembles a synthetic standard-size packet. Every block carries
// the given azimuth (0.01° units); fill sets the raw distance and
// reflectivity for each channel slot (nil slots stay empty / no return).
func buildPacket(t *testing.T, azimuthRaw uint16, fill map[int][2]uint16) []byte {
	t.Helper()
	pkt := make([]byte, PACKET_SIZE_STANDARD)
	for b := 0; b < BLOCKS_PER_PACKET; b++ {
		block := pkt[b*BLOCK_SIZE:]
		binary.LittleEndian.PutUint16(block[0:2], 0xEEFF)
		binary.LittleEndian.PutUint16(block[2:4], azimuthRaw)
		for ch, dr := range fill {
			off := BLOCK_PREAMBLE_SIZE + AZIMUTH_SIZE + ch*BYTES_PER_CHANNEL
			binary.LittleEndian.PutUint16(block[off:off+2], dr[0])
			block[off+2] = byte(dr[1])
		}
	}
	return pkt
}

func TestParsePacketChannelMapping(t *testing.T) {
	// 10m return on channel 5, 20m return on channel 30, everything else empty.
	pkt := buildPacket(t, 0, map[int][2]uint16{
		5:  {2500, 128}, // 2500 × 4mm = 10m
		30: {5000, 255}, // 20m
	})

	p := NewParser(DefaultConfig())
	returns, azimuth, err := p.ParsePacket(pkt)
	if err != nil {
		t.Fatalf("ParsePacket: %v", err)
	}
	if azimuth != 0 {
		t.Errorf("azimuth = %v, want 0", azimuth)
	}
	// Two returns per block, ten blocks.
	if len(returns) != 20 {
		t.Fatalf("got %d returns, want 20", len(returns))
	}

	first := returns[0]
	if first.Channel != 5 {
		t.Errorf("first return channel = %d, want 5", first.Channel)
	}
	// At azimuth 0: X = 0, Y = dist·cos(elev), Z = dist·sin(elev).
	elev := (-25.0 + 5.0) * math.Pi / 180.0
	if math.Abs(float64(first.Detection.X)) > 1e-5 {
		t.Errorf("X = %v, want ~0", first.Detection.X)
	}
	if wantY := 10 * math.Cos(elev); math.Abs(float64(first.Detection.Y)-wantY) > 1e-4 {
		t.Errorf("Y = %v, want ~%v", first.Detection.Y, wantY)
	}
	if wantZ := 10 * math.Sin(elev); math.Abs(float64(first.Detection.Z)-wantZ) > 1e-4 {
		t.Errorf("Z = %v, want ~%v", first.Detection.Z, wantZ)
	}
	if math.Abs(float64(first.Detection.Intensity)-128.0/255.0) > 1e-6 {
		t.Errorf("intensity = %v, want %v", first.Detection.Intensity, 128.0/255.0)
	}

	second := returns[1]
	if second.Channel != 30 {
		t.Errorf("second return channel = %d, want 30", second.Channel)
	}
	if second.Detection.Intensity != 1.0 {
		t.Errorf("saturated reflectivity intensity = %v, want 1", second.Detection.Intensity)
	}
}

func TestParsePacketAzimuth(t *testing.T) {
	pkt := buildPacket(t, 18000, nil) // 180.00°
	p := NewParser(DefaultConfig())
	returns, azimuth, err := p.ParsePacket(pkt)
	if err != nil {
		t.Fatalf("ParsePacket: %v", err)
	}
	if len(returns) != 0 {
		t.Errorf("empty packet produced %d returns", len(returns))
	}
	if azimuth != 180.0 {
		t.Errorf("azimuth = %v, want 180", azimuth)
	}
}

func TestParsePacketSequenceSuffix(t *testing.T) {
	pkt := buildPacket(t, 100, map[int][2]uint16{0: {1000, 10}})
	pkt = append(pkt, 0xAA, 0xBB, 0xCC, 0xDD) // 4-byte UDP sequence

	p := NewParser(DefaultConfig())
	returns, _, err := p.ParsePacket(pkt)
	if err != nil {
		t.Fatalf("ParsePacket with sequence suffix: %v", err)
	}
	if len(returns) != BLOCKS_PER_PACKET {
		t.Errorf("got %d returns, want %d", len(returns), BLOCKS_PER_PACKET)
	}
}

func TestParsePacketRejectsBadInput(t *testing.T) {
	p := NewParser(DefaultConfig())

	if _, _, err := p.ParsePacket(make([]byte, 100)); err == nil {
		t.Error("short packet accepted")
	}

	pkt := buildPacket(t, 0, nil)
	binary.LittleEndian.PutUint16(pkt[3*BLOCK_SIZE:], 0x1234) // corrupt block 3 preamble
	if _, _, err := p.ParsePacket(pkt); err == nil {
		t.Error("corrupt preamble accepted")
	}
}
