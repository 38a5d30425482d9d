package service

import (
	"context"
	"time"

	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/possession"
	"github.com/okian/possession/pkg/metrics"
)

// InstrumentedAnalyzer records analysis metrics around a possession.Analyzer.
type InstrumentedAnalyzer struct {
	inner *possession.Analyzer
}

// NewInstrumentedAnalyzer builds a possession analyzer with opts and wraps it.
func NewInstrumentedAnalyzer(opts ...possession.Option) *InstrumentedAnalyzer {
	return &InstrumentedAnalyzer{inner: possession.NewAnalyzer(opts...)}
}

// Resolution returns the frames per second of the wrapped analyzer.
func (a *InstrumentedAnalyzer) Resolution() int {
	return a.inner.Resolution()
}

// Analyze runs the wrapped analyzer.
func (a *InstrumentedAnalyzer) Analyze(ctx context.Context, frames []model.Frame) (model.Report, error) {
	start := time.Now()
	r, err := a.inner.Analyze(ctx, frames)
	ms := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordAnalysis("error", ms)
		return r, err
	}

	metrics.RecordAnalysis("ok", ms)
	metrics.RecordFramesScanned(len(frames))
	metrics.RecordSecondsAnalysed(len(r.Timeline))

	var eventsA, eventsB int
	for _, c := range r.Counts {
		eventsA += c.A
		eventsB += c.B
	}
	metrics.RecordPossession(model.PartyA.String(), r.A.TotalSeconds, len(r.A.Intervals), eventsA)
	metrics.RecordPossession(model.PartyB.String(), r.B.TotalSeconds, len(r.B.Intervals), eventsB)
	return r, nil
}
