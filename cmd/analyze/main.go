package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okian/possession/internal/adapters/report"
	"github.com/okian/possession/internal/batch"
	"github.com/okian/possession/internal/config"
	"github.com/okian/possession/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, analyses the inputs and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if err := logger.Init(logger.WithOutput(stderr)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	base, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config:", err)
		return 1
	}
	if err := logger.SetLevelString(base.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	cfg := batch.FromConfig(base)

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		inputs = fs.String("input", "", "Comma separated detection documents")
		format = fs.String("format", string(report.FormatText), "Output format: text, json or yaml")
	)
	fs.IntVar(&cfg.Resolution, "fps", cfg.Resolution, "Frames per second of the recording")
	fs.StringVar(&cfg.ChartDir, "chart-dir", "", "Write one PNG chart per input into this directory")
	fs.IntVar(&cfg.Skip, "skip", cfg.Skip, "Leading frame records to drop from each document")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of files analysed concurrently")
	fs.BoolVar(&cfg.UnionRange, "union", cfg.UnionRange, "Bound the timeline by either team's last possession")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	for _, in := range strings.Split(*inputs, ",") {
		if in = strings.TrimSpace(in); in != "" {
			cfg.Inputs = append(cfg.Inputs, in)
		}
	}
	cfg.Inputs = append(cfg.Inputs, fs.Args()...)
	if len(cfg.Inputs) == 0 {
		fmt.Fprintln(stderr, "no input files; use -input a.json,b.json")
		fs.Usage()
		return 2
	}

	if cfg.Format, err = report.ParseFormat(*format); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if _, err := batch.Run(ctx, cfg, stdout); err != nil {
		fmt.Fprintln(stderr, "analysis failed:", err)
		return 1
	}
	return 0
}
