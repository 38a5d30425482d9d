package batch

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/okian/possession/internal/adapters/report"
	"github.com/okian/possession/internal/domain/types"
)

// printer colors the human readable output.
type printer struct {
	w      io.Writer
	key    *color.Color
	value  *color.Color
	accent *color.Color
	partyA *color.Color
	partyB *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:      w,
		key:    color.New(color.FgYellow),
		value:  color.New(color.FgGreen),
		accent: color.New(color.FgMagenta),
		partyA: color.New(color.FgCyan),
		partyB: color.New(color.FgHiMagenta),
	}
	if noColor {
		for _, c := range []*color.Color{p.key, p.value, p.accent, p.partyA, p.partyB} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) field(name string, c *color.Color, format string, args ...any) {
	p.key.Fprintf(p.w, "%s: ", name)
	c.Fprintf(p.w, format, args...)
	fmt.Fprintln(p.w)
}

// Print writes results to w. Text output is colored unless cfg.NoColor is
// set; json and yaml are written as one document per result.
func Print(w io.Writer, cfg *Config, results []Result) error {
	if cfg.Format != report.FormatText {
		for _, res := range results {
			if err := report.Encode(w, res.Report, cfg.Format, report.WithLabels(cfg.Labels)); err != nil {
				return err
			}
		}
		return nil
	}

	p := newPrinter(w, cfg.NoColor)
	for _, res := range results {
		view := report.View(res.Report, cfg.Labels)
		p.field("input", p.value, "%s", res.Input)
		p.field("resolution", p.value, "%d fps", view.Resolution)
		p.field("frames", p.value, "%d", view.Frames)
		p.field("seconds", p.value, "%d", view.Seconds)
		for i, party := range view.Parties {
			c := p.partyA
			if i == 1 {
				c = p.partyB
			}
			p.field(party.Label, c, "%d s (%.1f%%)", party.TotalSeconds, party.Share*100)
			for _, iv := range party.Intervals {
				fmt.Fprintf(w, "  %s\n", formatInterval(iv))
			}
		}
		if res.Chart != "" {
			p.field("chart", p.accent, "%s", res.Chart)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func formatInterval(iv types.Interval) string {
	if iv.Start == iv.End {
		return fmt.Sprintf("%d", iv.Start)
	}
	return fmt.Sprintf("%d-%d", iv.Start, iv.End)
}
