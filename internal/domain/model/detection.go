// Package model contains domain models passed between layers.
package model

// Category classifies a detection within a frame.
type Category int

const (
	// CategoryUnknown marks detections that take no part in possession.
	CategoryUnknown Category = iota
	// CategoryObject is the tracked object, e.g. the ball.
	CategoryObject
	// CategoryHolder is an entity that may hold the object, e.g. a player.
	CategoryHolder
)

// String returns a lowercase name for the category.
func (c Category) String() string {
	switch c {
	case CategoryObject:
		return "object"
	case CategoryHolder:
		return "holder"
	default:
		return "unknown"
	}
}

// Party identifies one of the two competing sides.
type Party int

const (
	// PartyNone is used for holders without a recognized side.
	PartyNone Party = iota
	PartyA
	PartyB
)

// String returns "a", "b" or "none".
func (p Party) String() string {
	switch p {
	case PartyA:
		return "a"
	case PartyB:
		return "b"
	default:
		return "none"
	}
}

// Box is an axis-aligned bounding box in pixel space.
// X1 < X2 and Y1 < Y2 by convention of the detector; not enforced.
type Box struct {
	X1 float64
	X2 float64
	Y1 float64
	Y2 float64
}

// Detection is one tracked entity in one frame.
type Detection struct {
	Category Category
	Box      Box
	Party    Party // only meaningful for holders
}

// Frame is a frame index plus the detections observed in it.
// Indices are monotonic but not necessarily contiguous.
type Frame struct {
	Index      int
	Detections []Detection
}
