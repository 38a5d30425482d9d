// Package possession derives per-second ball possession and contiguous
// possession intervals from per-frame detections.
package possession

import "github.com/okian/possession/internal/domain/model"

// Events holds the second buckets of every containment seen per party.
// Entries repeat when several frames of one second contain the object.
type Events struct {
	A []int
	B []int
}

// Add records e under its party. Events without a known party are dropped.
func (ev *Events) Add(e model.Event) {
	switch e.Party {
	case model.PartyA:
		ev.A = append(ev.A, e.Second)
	case model.PartyB:
		ev.B = append(ev.B, e.Second)
	}
}

// Contains reports whether holder strictly encloses object on all four sides.
func Contains(holder, object model.Box) bool {
	return holder.X1 < object.X1 && holder.X2 > object.X2 &&
		holder.Y1 < object.Y1 && holder.Y2 > object.Y2
}

// SecondOf maps a frame index to its unit of time at resolution frames per
// second using floor division.
func SecondOf(frameIndex, resolution int) int {
	s := frameIndex / resolution
	if frameIndex < 0 && frameIndex%resolution != 0 {
		s--
	}
	return s
}

// Extract scans every frame once and records a containment event for each
// holder whose box encloses the object box seen earlier in the same frame.
// resolution must be positive.
func Extract(frames []model.Frame, resolution int) Events {
	var ev Events
	for _, f := range frames {
		ev = scanFrame(ev, f, resolution)
	}
	return ev
}

// scanFrame folds one frame into ev. The object box is local to the frame:
// holders scanned before any object detection are skipped, and a later
// object detection replaces an earlier one.
func scanFrame(ev Events, f model.Frame, resolution int) Events {
	var object *model.Box
	for i := range f.Detections {
		d := &f.Detections[i]
		switch d.Category {
		case model.CategoryObject:
			object = &d.Box
		case model.CategoryHolder:
			if object == nil || !Contains(d.Box, *object) {
				continue
			}
			ev.Add(model.Event{Party: d.Party, Second: SecondOf(f.Index, resolution)})
		}
	}
	return ev
}
