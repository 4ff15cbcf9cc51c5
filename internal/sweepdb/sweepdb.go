// Package sweepdb persists consolidated sweeps in SQLite. Each sweep is
// stored as its canonical wire buffer plus a few decoded columns for
// querying, so loading a sweep reproduces the exact bytes that were captured.
package sweepdb

import (
	"bytes"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/lidarsweep/internal/sweep"
)

//go:embed schema.sql
var schemaSQL string

// SweepDB wraps the SQLite handle for sweep storage.
type SweepDB struct {
	*sql.DB
}

// SweepRecord summarizes one stored sweep for listings.
type SweepRecord struct {
	ID              string
	CapturedAt      time.Time
	HorizontalAngle float64
	ChannelCount    uint32
	PointCount      int
}

// NewSweepDB opens (creating if necessary) a sweep database at path.
func NewSweepDB(path string) (*SweepDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sweep schema: %w", err)
	}
	log.Println("initialized sweep database schema")
	return &SweepDB{db}, nil
}

// RecordSweep stores a consolidated sweep and returns its generated id.
func (db *SweepDB) RecordSweep(data *sweep.SweepData, capturedAt time.Time) (string, error) {
	var buf bytes.Buffer
	buf.Grow(data.EncodedSize())
	if _, err := data.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to encode sweep: %w", err)
	}

	header := data.Header()
	countsJSON, err := json.Marshal(header[2:])
	if err != nil {
		return "", fmt.Errorf("failed to encode channel counts: %w", err)
	}

	id := uuid.NewString()
	// The angle column is for human queries; NaN/Inf angles are stored as
	// NULL-safe 0 there while the buffer keeps the exact bit pattern.
	angle := float64(data.HorizontalAngle())
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		angle = 0
	}

	_, err = db.Exec(`
		INSERT INTO sweeps (id, captured_at_ns, horizontal_angle, channel_count, channel_counts, point_count, buffer)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, capturedAt.UnixNano(), angle, data.ChannelCount(), string(countsJSON), data.TotalPoints(), buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to insert sweep: %w", err)
	}
	return id, nil
}

// LoadSweep reloads one sweep by id, decoding and re-verifying the stored
// buffer's layout invariant.
func (db *SweepDB) LoadSweep(id string) (*sweep.SweepData, time.Time, error) {
	var capturedNs int64
	var buf []byte
	err := db.QueryRow(`SELECT captured_at_ns, buffer FROM sweeps WHERE id = ?`, id).
		Scan(&capturedNs, &buf)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, fmt.Errorf("sweep %s not found", id)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load sweep %s: %w", id, err)
	}

	data, err := sweep.Decode(buf)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("stored sweep %s is corrupt: %w", id, err)
	}
	return data, time.Unix(0, capturedNs), nil
}

// LatestSweepID returns the id of the most recently captured sweep.
func (db *SweepDB) LatestSweepID() (string, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM sweeps ORDER BY captured_at_ns DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no sweeps stored")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest sweep: %w", err)
	}
	return id, nil
}

// ListSweeps returns up to limit sweep summaries, newest first.
func (db *SweepDB) ListSweeps(limit int) ([]SweepRecord, error) {
	rows, err := db.Query(`
		SELECT id, captured_at_ns, horizontal_angle, channel_count, point_count
		FROM sweeps ORDER BY captured_at_ns DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweeps: %w", err)
	}
	defer rows.Close()

	var records []SweepRecord
	for rows.Next() {
		var r SweepRecord
		var capturedNs int64
		if err := rows.Scan(&r.ID, &capturedNs, &r.HorizontalAngle, &r.ChannelCount, &r.PointCount); err != nil {
			return nil, fmt.Errorf("failed to scan sweep row: %w", err)
		}
		r.CapturedAt = time.Unix(0, capturedNs)
		records = append(records, r)
	}
	return records, rows.Err()
}
