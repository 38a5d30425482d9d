// Package loader reads detector output documents into domain frames.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/pkg/metrics"
)

// Reasons reported when a detection takes no part in possession.
const (
	reasonUnknownName  = "unknown_name"
	reasonUnknownParty = "unknown_party"
)

// Mapping translates raw detection names and team ids to domain values.
type Mapping struct {
	ObjectName string
	HolderName string
	PartyAID   string
	PartyBID   string
}

// DefaultMapping matches the detector's basketball output.
func DefaultMapping() Mapping {
	return Mapping{ObjectName: "ball", HolderName: "person", PartyAID: "0", PartyBID: "1"}
}

func (m Mapping) category(name string) model.Category {
	switch name {
	case m.ObjectName:
		return model.CategoryObject
	case m.HolderName:
		return model.CategoryHolder
	default:
		return model.CategoryUnknown
	}
}

func (m Mapping) party(id string) model.Party {
	switch strings.TrimSpace(id) {
	case m.PartyAID:
		return model.PartyA
	case m.PartyBID:
		return model.PartyB
	default:
		return model.PartyNone
	}
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithMapping sets the name and team id mapping.
func WithMapping(m Mapping) Option {
	return func(l *Loader) {
		l.mapping = m
	}
}

// WithSkipLeadingFrames drops n records from the start of each document.
func WithSkipLeadingFrames(n int) Option {
	return func(l *Loader) {
		if n >= 0 {
			l.skip = n
		}
	}
}

// Loader decodes detector documents.
type Loader struct {
	mapping Mapping
	skip    int
}

// New creates a loader. By default it skips the first record, which the
// detector emits as a header frame.
func New(opts ...Option) *Loader {
	l := &Loader{
		mapping: DefaultMapping(),
		skip:    1,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoadFile opens and decodes the document at path.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]model.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	frames, err := l.Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}

// Decode reads one document from r.
func (l *Loader) Decode(ctx context.Context, r io.Reader) ([]model.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, ErrInvalidFrame) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	records := doc.Frames
	if l.skip >= len(records) {
		return []model.Frame{}, nil
	}
	records = records[l.skip:]

	frames := make([]model.Frame, len(records))
	for i, rec := range records {
		frames[i] = l.convert(rec)
	}
	return frames, nil
}

func (l *Loader) convert(rec frameRecord) model.Frame {
	f := model.Frame{
		Index:      int(rec.FrameNumber),
		Detections: make([]model.Detection, 0, len(rec.Detections)),
	}
	for _, d := range rec.Detections {
		det := model.Detection{
			Category: l.mapping.category(d.Name),
			Box:      model.Box{X1: d.X1, X2: d.X2, Y1: d.Y1, Y2: d.Y2},
		}
		switch det.Category {
		case model.CategoryUnknown:
			metrics.RecordDetectionIgnored(reasonUnknownName)
			continue
		case model.CategoryHolder:
			det.Party = l.mapping.party(string(d.TeamID))
			if det.Party == model.PartyNone {
				metrics.RecordDetectionIgnored(reasonUnknownParty)
			}
		}
		f.Detections = append(f.Detections, det)
	}
	return f
}
