// sweepd captures rotating-lidar UDP packets (or replays a pcap file),
// assembles them into consolidated per-sweep buffers, and stores each sweep
// in a SQLite database, optionally also writing per-sweep .asc point clouds.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/banshee-data/lidarsweep/internal/config"
	"github.com/banshee-data/lidarsweep/internal/monitoring"
	"github.com/banshee-data/lidarsweep/internal/sweep"
	"github.com/banshee-data/lidarsweep/internal/sweep/ascexport"
	"github.com/banshee-data/lidarsweep/internal/sweep/collector"
	"github.com/banshee-data/lidarsweep/internal/sweep/network"
	"github.com/banshee-data/lidarsweep/internal/sweep/pandar"
	"github.com/banshee-data/lidarsweep/internal/sweep/pointstats"
	"github.com/banshee-data/lidarsweep/internal/sweepdb"
)

var (
	configFile = flag.String("config", "", "Path to JSON capture config (optional)")
	listenAddr = flag.String("listen", "", "UDP listen address (overrides config)")
	dbFile     = flag.String("db", "", "Path to the sweep SQLite database (overrides config)")
	pcapFile   = flag.String("pcap", "", "Replay packets from a pcap file instead of live UDP (requires -tags pcap build)")
	ascDir     = flag.String("asc-dir", "", "Directory for per-sweep .asc exports (overrides config; empty disables)")
	channels   = flag.Int("channels", 0, "Sensor channel count (overrides config)")
	pointsHint = flag.Int("points-hint", 0, "Per-channel point reservation hint (overrides config)")
	logSummary = flag.Bool("summary", false, "Log an intensity/range summary for every consolidated sweep")
	maxSweeps  = flag.Int("max-sweeps", 0, "Stop after this many sweeps (0 = run until interrupted)")
)

func main() {
	flag.Parse()

	cfg := &config.CaptureConfig{}
	if *configFile != "" {
		loaded, err := config.LoadCaptureConfig(*configFile)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}

	// Flags override the config file.
	listen := cfg.GetListenAddress()
	if *listenAddr != "" {
		listen = *listenAddr
	}
	dbPath := cfg.GetDatabasePath()
	if *dbFile != "" {
		dbPath = *dbFile
	}
	exportDir := cfg.GetASCExportDir()
	if *ascDir != "" {
		exportDir = *ascDir
	}
	channelCount := cfg.GetChannelCount()
	if *channels > 0 {
		channelCount = *channels
	}
	hint := cfg.GetMaxPointsHint()
	if *pointsHint > 0 {
		hint = *pointsHint
	}

	db, err := sweepdb.NewSweepDB(dbPath)
	if err != nil {
		log.Fatalf("failed to open sweep database %s: %v", dbPath, err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats := monitoring.NewCaptureStats()
	sweepsStored := 0
	sink := func(data *sweep.SweepData, completedAt time.Time) {
		stats.AddSweep()
		id, err := db.RecordSweep(data, completedAt)
		if err != nil {
			log.Printf("failed to store sweep: %v", err)
			return
		}
		sweepsStored++
		if *logSummary {
			s := pointstats.Summarize(data)
			log.Printf("sweep %s: %d points, intensity %.3f±%.3f, range mean %.1fm max %.1fm",
				id, s.PointCount, s.IntensityMean, s.IntensityStdDev, s.RangeMean, s.RangeMax)
		}
		if exportDir != "" {
			if err := exportASC(exportDir, id, data); err != nil {
				log.Printf("failed to export sweep %s: %v", id, err)
			}
		}
		if *maxSweeps > 0 && sweepsStored >= *maxSweeps {
			stop()
		}
	}

	coll := collector.New(collector.Config{
		ChannelCount:  uint32(channelCount),
		MaxPointsHint: uint32(hint),
		Sink:          sink,
	})
	pipeline := &collector.Pipeline{
		Parser:    pandar.NewParser(pandar.DefaultConfig()),
		Collector: coll,
		Stats:     stats,
	}

	if *pcapFile != "" {
		err = network.ReplayPCAPFile(ctx, *pcapFile, cfg.GetUDPPort(), pipeline, stats)
	} else {
		listener := network.NewUDPListener(network.UDPListenerConfig{
			Address:     listen,
			RcvBuf:      cfg.GetRcvBuf(),
			LogInterval: cfg.GetLogInterval(),
			Stats:       stats,
			Handler:     pipeline,
		})
		err = listener.Start(ctx)
	}
	if err != nil && err != context.Canceled {
		log.Fatalf("capture failed: %v", err)
	}

	// Flush the partial final sweep before exiting.
	coll.Close()
	stats.LogStats()
	log.Printf("stored %d sweeps in %s", sweepsStored, dbPath)
}

// exportASC writes one sweep as <dir>/sweep-<id>.asc.
func exportASC(dir, id string, data *sweep.SweepData) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("sweep-%s.asc", id))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ascexport.WriteASC(f, data)
}
