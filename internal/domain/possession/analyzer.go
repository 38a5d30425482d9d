package possession

import (
	"context"
	"fmt"

	"github.com/okian/possession/internal/domain/model"
)

// Default analysis configuration constants.
const (
	defaultResolution = 50 // frames per second of the source recording
)

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithResolution sets the number of frames per second of the recording.
// Non-positive values are kept so that Analyze can reject them.
func WithResolution(framesPerSecond int) Option {
	return func(a *Analyzer) {
		a.resolution = framesPerSecond
	}
}

// WithUnionRange bounds the timeline by the last event of either party
// instead of party A's last event.
func WithUnionRange() Option {
	return func(a *Analyzer) {
		a.unionRange = true
	}
}

// Analyzer runs extraction, per-second verdicts and interval encoding.
// It holds no state between calls and is safe for concurrent use.
type Analyzer struct {
	resolution int
	unionRange bool
}

// NewAnalyzer creates an analyzer with configuration options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		resolution: defaultResolution,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Resolution returns the configured frames per second.
func (a *Analyzer) Resolution() int {
	return a.resolution
}

// Analyze computes the possession report for frames. The returned report has
// no ID; callers that store reports assign one.
func (a *Analyzer) Analyze(ctx context.Context, frames []model.Frame) (model.Report, error) {
	if a.resolution < 1 {
		return model.Report{}, fmt.Errorf("analyze %d frames at %d fps: %w", len(frames), a.resolution, ErrInvalidResolution)
	}
	if err := ctx.Err(); err != nil {
		return model.Report{}, fmt.Errorf("context cancelled: %w", err)
	}

	ev := Extract(frames, a.resolution)
	countsA, countsB := Tally(ev.A), Tally(ev.B)

	var timeline model.Timeline
	if a.unionRange {
		timeline = UnionVerdicts(countsA, countsB)
	} else {
		timeline = Verdicts(countsA, countsB)
	}

	return model.Report{
		Resolution: a.resolution,
		Frames:     len(frames),
		Timeline:   timeline,
		Counts:     SecondCounts(countsA, countsB, timeline),
		A:          Summarize(timeline, model.PartyA),
		B:          Summarize(timeline, model.PartyB),
	}, nil
}
