// Package batch analyses detection documents from disk and prints their
// possession reports.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/possession/internal/adapters/chart"
	"github.com/okian/possession/internal/adapters/loader"
	service "github.com/okian/possession/internal/app"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/possession"
	"github.com/okian/possession/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// File permission constants.
const (
	directoryPermission = 0o750
	chartPermission     = 0o640
)

// Result is the outcome of one input file.
type Result struct {
	Input    string
	Report   model.Report
	Chart    string // path of the written chart, if any
	Duration time.Duration
}

// Run analyses every input concurrently and writes the reports to w in
// input order. The first failing input cancels the others.
func Run(ctx context.Context, cfg *Config, w io.Writer) ([]Result, error) {
	if len(cfg.Inputs) == 0 {
		return nil, ErrNoInputs
	}

	log := logger.Get().Named("batch")
	log.Info(ctx, "starting batch analysis",
		logger.Int("inputs", len(cfg.Inputs)),
		logger.Int("workers", cfg.Workers),
		logger.Int("resolution", cfg.Resolution),
		logger.String("format", string(cfg.Format)),
	)

	if cfg.ChartDir != "" {
		if err := os.MkdirAll(cfg.ChartDir, directoryPermission); err != nil {
			return nil, fmt.Errorf("create chart directory: %w", err)
		}
	}

	ld := loader.New(loader.WithMapping(cfg.Mapping), loader.WithSkipLeadingFrames(cfg.Skip))
	analyzerOpts := []possession.Option{possession.WithResolution(cfg.Resolution)}
	if cfg.UnionRange {
		analyzerOpts = append(analyzerOpts, possession.WithUnionRange())
	}
	analyzer := service.NewInstrumentedAnalyzer(analyzerOpts...)

	ids := reportIDs(cfg.Inputs)
	results := make([]Result, len(cfg.Inputs))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for i, input := range cfg.Inputs {
		g.Go(func() error {
			start := time.Now()
			frames, err := ld.LoadFile(gctx, input)
			if err != nil {
				return err
			}
			rep, err := analyzer.Analyze(gctx, frames)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			rep.ID = ids[i]
			rep.Created = time.Now()

			res := Result{Input: input, Report: rep}
			if cfg.ChartDir != "" {
				if res.Chart, err = writeChart(cfg, rep); err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}
			}
			res.Duration = time.Since(start)
			results[i] = res

			log.Debug(gctx, "input analysed",
				logger.String("input", input),
				logger.Int("frames", len(frames)),
				logger.Duration("took", res.Duration),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := Print(w, cfg, results); err != nil {
		return results, fmt.Errorf("print results: %w", err)
	}
	return results, nil
}

// reportIDs names each report after its input file without the extension.
// Repeated names get a numeric suffix in input order, so game.json twice
// yields game and game-2 and no two charts share a path.
func reportIDs(inputs []string) []string {
	ids := make([]string, len(inputs))
	used := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		base := filepath.Base(input)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		id := stem
		for n := 2; used[id]; n++ {
			id = stem + "-" + strconv.Itoa(n)
		}
		used[id] = true
		ids[i] = id
	}
	return ids
}

func writeChart(cfg *Config, rep model.Report) (string, error) {
	path := filepath.Join(cfg.ChartDir, rep.ID+".png")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, chartPermission)
	if err != nil {
		return "", fmt.Errorf("create chart: %w", err)
	}
	opts := []chart.Option{chart.WithLabels(cfg.Labels), chart.WithTickSeconds(cfg.TickSeconds)}
	if cfg.ChartWidth > 0 && cfg.ChartHeight > 0 {
		opts = append(opts, chart.WithSize(cfg.ChartWidth, cfg.ChartHeight))
	}
	if err := chart.Render(f, rep, opts...); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close chart: %w", err)
	}
	return path, nil
}
