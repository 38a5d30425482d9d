package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/types"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding written by Encode.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Option configures Encode.
type Option func(*encoder)

type encoder struct {
	labels types.Labels
}

// WithLabels sets the party labels used in the output.
func WithLabels(l types.Labels) Option {
	return func(e *encoder) {
		e.labels = l
	}
}

// Encode writes r to w in the given format.
func Encode(w io.Writer, r model.Report, format Format, opts ...Option) error {
	e := &encoder{labels: types.DefaultLabels()}
	for _, opt := range opts {
		opt(e)
	}

	view := View(r, e.labels)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText:
		return writeText(w, view)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeText(w io.Writer, v types.ReportView) error {
	var b strings.Builder
	if v.ID != "" {
		fmt.Fprintf(&b, "analysis %s\n", v.ID)
	}
	fmt.Fprintf(&b, "resolution: %d fps, frames: %d, seconds: %d\n", v.Resolution, v.Frames, v.Seconds)
	for _, p := range v.Parties {
		fmt.Fprintf(&b, "%s: %d s (%.1f%%)\n", p.Label, p.TotalSeconds, p.Share*100)
		for _, iv := range p.Intervals {
			fmt.Fprintf(&b, "  %d-%d\n", iv.Start, iv.End)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
