package model

import "time"

// SecondCount is the number of containment events of each party in a second.
type SecondCount struct {
	Second int
	A      int
	B      int
}

// Report is the complete result of one possession analysis. It is plain data
// and carries no rendering concerns.
type Report struct {
	ID         string
	Resolution int // frames per second
	Frames     int // frame records scanned
	Timeline   Timeline
	Counts     []SecondCount
	A          Summary
	B          Summary
	Created    time.Time
}

// Summary returns the summary for p, or an empty one for PartyNone.
func (r *Report) Summary(p Party) Summary {
	switch p {
	case PartyA:
		return r.A
	case PartyB:
		return r.B
	default:
		return Summary{}
	}
}
