// Package network receives sensor packets, from a live UDP socket or from a
// recorded pcap capture, and hands the payloads to a PacketHandler. It knows
// nothing about packet contents; parsing and sweep assembly live upstream.
package network

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

// PacketHandler consumes one raw packet payload. recvTime is the capture
// timestamp: wall clock for live UDP, the recorded timestamp for pcap replay.
type PacketHandler interface {
	HandlePacket(payload []byte, recvTime time.Time)
}

// StatsInterface provides packet statistics management.
type StatsInterface interface {
	AddPacket(bytes int)
	LogStats()
}

// noopStats is a safe default when no stats collector is provided.
type noopStats struct{}

func (noopStats) AddPacket(bytes int) {}
func (noopStats) LogStats()           {}

// UDPListenerConfig contains configuration options for the UDP listener.
type UDPListenerConfig struct {
	Address     string        // listen address, e.g. "0.0.0.0:2368"
	RcvBuf      int           // socket receive buffer size in bytes
	LogInterval time.Duration // how often to log stats (default 1 minute)
	Stats       StatsInterface
	Handler     PacketHandler
}

// UDPListener receives sensor packets over UDP and feeds them to the handler.
type UDPListener struct {
	address     string
	rcvBuf      int
	logInterval time.Duration
	stats       StatsInterface
	handler     PacketHandler

	mu   sync.Mutex
	conn *net.UDPConn
}

// NewUDPListener creates a UDP listener with the provided configuration.
func NewUDPListener(config UDPListenerConfig) *UDPListener {
	stats := config.Stats
	if stats == nil {
		stats = noopStats{}
	}
	logInterval := config.LogInterval
	if logInterval == 0 {
		logInterval = time.Minute
	}
	return &UDPListener{
		address:     config.Address,
		rcvBuf:      config.RcvBuf,
		logInterval: logInterval,
		stats:       stats,
		handler:     config.Handler,
	}
}

// LocalAddr returns the bound socket address, or nil before Start has bound
// the socket. Useful when listening on port 0.
func (l *UDPListener) LocalAddr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// Start binds the socket and receives packets until the context is cancelled.
func (l *UDPListener) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", l.address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP address: %w", err)
	}
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
	defer conn.Close()

	if l.rcvBuf > 0 {
		if err := conn.SetReadBuffer(l.rcvBuf); err != nil {
			log.Printf("Warning: failed to set UDP receive buffer size to %d: %v", l.rcvBuf, err)
		}
	}
	log.Printf("UDP listener started on %s", conn.LocalAddr())

	go l.startStatsLogging(ctx)

	// Pandar40P packets are 1262 or 1266 bytes; leave margin.
	buffer := make([]byte, 2048)

	for {
		select {
		case <-ctx.Done():
			log.Print("UDP listener stopping due to context cancellation")
			return ctx.Err()
		default:
			// Short read deadline so context cancellation is noticed.
			conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))

			n, raddr, err := conn.ReadFromUDP(buffer)
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("UDP read error from %v: %v", raddr, err)
				continue
			}

			l.stats.AddPacket(n)
			if l.handler != nil {
				// The handler must not retain the payload past the call;
				// the receive buffer is reused.
				l.handler.HandlePacket(buffer[:n], time.Now())
			}
		}
	}
}

// startStatsLogging periodically logs packet statistics. An initial report
// fires shortly after startup to avoid a long first-run silence.
func (l *UDPListener) startStatsLogging(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
		l.stats.LogStats()
	}

	ticker := time.NewTicker(l.logInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.stats.LogStats()
		}
	}
}
