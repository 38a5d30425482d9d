// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and the environment.
// - External errors are wrapped with this package's sentinel errors.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// FramesPerSecond is the frame rate of the source recording and the
	// number of frames bucketed into one second.
	FramesPerSecond int `koanf:"frames_per_second"`

	// SkipLeadingFrames drops this many frame records from the start of
	// every input document. The detector's first record is a header frame.
	SkipLeadingFrames int `koanf:"skip_leading_frames"`

	// ObjectName and HolderName are the detection names of the tracked
	// object and of candidate holders.
	ObjectName string `koanf:"object_name"`
	HolderName string `koanf:"holder_name"`

	// PartyAID and PartyBID are the raw team identifiers of the two parties.
	PartyAID string `koanf:"party_a_id"`
	PartyBID string `koanf:"party_b_id"`

	// PartyALabel and PartyBLabel are display names used by renderers.
	PartyALabel string `koanf:"party_a_label"`
	PartyBLabel string `koanf:"party_b_label"`

	// UnionRange bounds the verdict timeline by the last event of either
	// party instead of party A's last event.
	UnionRange bool `koanf:"union_range"`

	// QueueSize bounds the in-memory analysis job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// StoreSize caps how many reports are retained in memory.
	StoreSize int `koanf:"store_size"`

	// MaxUploadBytes caps the request body of POST /analyses.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// Chart dimensions in pixels and x axis tick spacing in seconds.
	ChartWidth       int `koanf:"chart_width"`
	ChartHeight      int `koanf:"chart_height"`
	ChartTickSeconds int `koanf:"chart_tick_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		FramesPerSecond:   50,
		SkipLeadingFrames: 1,
		ObjectName:        "ball",
		HolderName:        "person",
		PartyAID:          "0",
		PartyBID:          "1",
		PartyALabel:       "Team 0",
		PartyBLabel:       "Team 1",
		QueueSize:         1024,
		WorkerCount:       runtime.NumCPU(),
		StoreSize:         1024,
		MaxUploadBytes:    64 << 20,
		ChartWidth:        1200,
		ChartHeight:       360,
		ChartTickSeconds:  30,
	}
}
