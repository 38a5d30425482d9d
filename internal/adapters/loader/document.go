package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// document mirrors the detector's JSON output.
type document struct {
	Frames []frameRecord `json:"frames"`
}

type frameRecord struct {
	FrameNumber flexInt           `json:"frame_number"`
	Detections  []detectionRecord `json:"detections"`
}

type detectionRecord struct {
	Name   string     `json:"name"`
	TeamID flexString `json:"team_id"`
	X1     float64    `json:"x1"`
	X2     float64    `json:"x2"`
	Y1     float64    `json:"y1"`
	Y2     float64    `json:"y2"`
}

// flexInt accepts a JSON number or a numeric string. Fractions are truncated.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
	}
	if raw == "" || raw == "null" {
		return fmt.Errorf("%w: missing frame_number", ErrInvalidFrame)
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*n = flexInt(v)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: frame_number %q is not an integer", ErrInvalidFrame, raw)
	}
	*n = flexInt(math.Trunc(f))
	return nil
}

// flexString accepts a JSON string, a number or null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*s = ""
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
	default:
		*s = flexString(b)
	}
	return nil
}
