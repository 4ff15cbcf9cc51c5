// Package config loads capture configuration for the sweep daemon. Fields
// are pointers so a partial JSON file only overrides what it names; the Get*
// methods supply defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CaptureConfig is the JSON schema for cmd/sweepd configuration files.
type CaptureConfig struct {
	ListenAddress *string `json:"listen_address,omitempty"` // UDP listen address
	UDPPort       *int    `json:"udp_port,omitempty"`       // port for pcap replay filtering
	ChannelCount  *int    `json:"channel_count,omitempty"`  // sensor channel count
	MaxPointsHint *int    `json:"max_points_hint,omitempty"`
	DatabasePath  *string `json:"database_path,omitempty"`
	ASCExportDir  *string `json:"asc_export_dir,omitempty"` // empty disables per-sweep ASC export
	LogInterval   *string `json:"log_interval,omitempty"`   // duration string like "60s"
	RcvBuf        *int    `json:"rcv_buf,omitempty"`        // UDP receive buffer bytes
}

// LoadCaptureConfig loads a CaptureConfig from a JSON file. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadCaptureConfig(path string) (*CaptureConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Size cap so a mistaken path (a pcap, a database) fails fast.
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &CaptureConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *CaptureConfig) Validate() error {
	if c.ChannelCount != nil && *c.ChannelCount < 0 {
		return fmt.Errorf("channel_count must be non-negative, got %d", *c.ChannelCount)
	}
	if c.MaxPointsHint != nil && *c.MaxPointsHint < 0 {
		return fmt.Errorf("max_points_hint must be non-negative, got %d", *c.MaxPointsHint)
	}
	if c.UDPPort != nil && (*c.UDPPort < 0 || *c.UDPPort > 65535) {
		return fmt.Errorf("udp_port out of range: %d", *c.UDPPort)
	}
	if c.LogInterval != nil && *c.LogInterval != "" {
		if _, err := time.ParseDuration(*c.LogInterval); err != nil {
			return fmt.Errorf("invalid log_interval %q: %w", *c.LogInterval, err)
		}
	}
	return nil
}

// GetListenAddress returns the listen address or the sensor default.
func (c *CaptureConfig) GetListenAddress() string {
	if c.ListenAddress == nil || *c.ListenAddress == "" {
		return "0.0.0.0:2368" // Pandar40P factory data port
	}
	return *c.ListenAddress
}

// GetUDPPort returns the pcap filter port or the sensor default.
func (c *CaptureConfig) GetUDPPort() int {
	if c.UDPPort == nil {
		return 2368
	}
	return *c.UDPPort
}

// GetChannelCount returns the channel count or the Pandar40P default.
func (c *CaptureConfig) GetChannelCount() int {
	if c.ChannelCount == nil {
		return 40
	}
	return *c.ChannelCount
}

// GetMaxPointsHint returns the per-channel reservation hint or the default.
func (c *CaptureConfig) GetMaxPointsHint() int {
	if c.MaxPointsHint == nil {
		// ~1800 blocks per rotation at 600 RPM, one return per block.
		return 2000
	}
	return *c.MaxPointsHint
}

// GetDatabasePath returns the sweep database path or the default.
func (c *CaptureConfig) GetDatabasePath() string {
	if c.DatabasePath == nil || *c.DatabasePath == "" {
		return "sweeps.db"
	}
	return *c.DatabasePath
}

// GetASCExportDir returns the per-sweep ASC export directory; empty means
// export is disabled.
func (c *CaptureConfig) GetASCExportDir() string {
	if c.ASCExportDir == nil {
		return ""
	}
	return *c.ASCExportDir
}

// GetLogInterval parses and returns the stats log interval.
func (c *CaptureConfig) GetLogInterval() time.Duration {
	if c.LogInterval == nil || *c.LogInterval == "" {
		return time.Minute
	}
	d, err := time.ParseDuration(*c.LogInterval)
	if err != nil {
		return time.Minute
	}
	return d
}

// GetRcvBuf returns the UDP receive buffer size or the default.
func (c *CaptureConfig) GetRcvBuf() int {
	if c.RcvBuf == nil {
		return 8 * 1024 * 1024
	}
	return *c.RcvBuf
}
