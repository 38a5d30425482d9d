package batch

import (
	"github.com/okian/possession/internal/adapters/loader"
	"github.com/okian/possession/internal/adapters/report"
	"github.com/okian/possession/internal/config"
	"github.com/okian/possession/internal/domain/types"
)

// Config holds configuration for a batch run.
type Config struct {
	Inputs      []string      // Detection documents to analyse
	Format      report.Format // Output encoding
	ChartDir    string        // Directory for PNG charts; empty disables charts
	Workers     int           // Files analysed concurrently
	Resolution  int           // Frames per second
	Skip        int           // Leading frame records dropped per document
	UnionRange  bool          // Bound timelines by either party
	Mapping     loader.Mapping
	Labels      types.Labels
	ChartWidth  int
	ChartHeight int
	TickSeconds int
	NoColor     bool // Disable ANSI colors in text output
}

// FromConfig derives batch defaults from the process configuration.
func FromConfig(c *config.Config) *Config {
	return &Config{
		Format:     report.FormatText,
		Workers:    c.WorkerCount,
		Resolution: c.FramesPerSecond,
		Skip:       c.SkipLeadingFrames,
		UnionRange: c.UnionRange,
		Mapping: loader.Mapping{
			ObjectName: c.ObjectName,
			HolderName: c.HolderName,
			PartyAID:   c.PartyAID,
			PartyBID:   c.PartyBID,
		},
		Labels:      types.Labels{A: c.PartyALabel, B: c.PartyBLabel},
		ChartWidth:  c.ChartWidth,
		ChartHeight: c.ChartHeight,
		TickSeconds: c.ChartTickSeconds,
	}
}
