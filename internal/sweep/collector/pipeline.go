package collector

import (
	"time"

	"github.com/banshee-data/lidarsweep/internal/monitoring"
	"github.com/banshee-data/lidarsweep/internal/sweep/pandar"
)

// Pipeline glues a packet parser to a collector, satisfying the network
// package's PacketHandler interface. Parse failures are counted and logged,
// never fatal; a lidar on a real network drops and mangles packets routinely.
type Pipeline struct {
	Parser    *pandar.Parser
	Collector *Collector
	Stats     *monitoring.CaptureStats
}

// HandlePacket parses one payload and stages its returns.
func (p *Pipeline) HandlePacket(payload []byte, recvTime time.Time) {
	returns, azimuth, err := p.Parser.ParsePacket(payload)
	if err != nil {
		if p.Stats != nil {
			p.Stats.AddParseError()
		}
		monitoring.Logf("packet parse failed: %v", err)
		return
	}
	if p.Stats != nil {
		p.Stats.AddPoints(len(returns))
	}
	p.Collector.AddReturns(returns, azimuth)
}
