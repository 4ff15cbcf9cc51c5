// sweep-export reads consolidated sweeps from a sweep database and writes
// them out as .asc or .ply text point clouds or as the raw binary sweep
// buffer, for visualization tools and downstream consumers.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/lidarsweep/internal/sweep"
	"github.com/banshee-data/lidarsweep/internal/sweep/ascexport"
	"github.com/banshee-data/lidarsweep/internal/sweep/pointstats"
	"github.com/banshee-data/lidarsweep/internal/sweepdb"
)

var (
	dbFile  = flag.String("db", "sweeps.db", "Path to the sweep SQLite database")
	sweepID = flag.String("id", "", "Sweep id to export (default: latest)")
	format  = flag.String("format", "asc", "Output format: asc, ply, or bin")
	outFile = flag.String("out", "", "Output file (default: stdout)")
	list    = flag.Int("list", 0, "List the newest N sweeps and exit")
)

func main() {
	flag.Parse()

	db, err := sweepdb.NewSweepDB(*dbFile)
	if err != nil {
		log.Fatalf("failed to open sweep database %s: %v", *dbFile, err)
	}
	defer db.Close()

	if *list > 0 {
		records, err := db.ListSweeps(*list)
		if err != nil {
			log.Fatalf("list sweeps: %v", err)
		}
		for _, r := range records {
			fmt.Printf("%s  %s  angle=%.2f  channels=%d  points=%d\n",
				r.ID, r.CapturedAt.Format("2006-01-02 15:04:05.000"), r.HorizontalAngle, r.ChannelCount, r.PointCount)
		}
		return
	}

	id := *sweepID
	if id == "" {
		id, err = db.LatestSweepID()
		if err != nil {
			log.Fatalf("no sweep to export: %v", err)
		}
	}

	data, capturedAt, err := db.LoadSweep(id)
	if err != nil {
		log.Fatalf("load sweep: %v", err)
	}

	var out io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			log.Fatalf("create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeSweep(out, data, *format); err != nil {
		log.Fatalf("export sweep %s: %v", id, err)
	}

	s := pointstats.Summarize(data)
	log.Printf("exported sweep %s (captured %s): %d points, intensity %.3f±%.3f, range mean %.1fm max %.1fm",
		id, capturedAt.Format("2006-01-02 15:04:05.000"),
		s.PointCount, s.IntensityMean, s.IntensityStdDev, s.RangeMean, s.RangeMax)
}

func writeSweep(w io.Writer, data *sweep.SweepData, format string) error {
	switch format {
	case "asc":
		return ascexport.WriteASC(w, data)
	case "ply":
		return ascexport.WritePLY(w, data)
	case "bin":
		_, err := data.WriteTo(w)
		return err
	default:
		return fmt.Errorf("unknown format %q (want asc, ply, or bin)", format)
	}
}
