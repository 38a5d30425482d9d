package model

// Event means the party's box contained the object box during Second.
type Event struct {
	Party  Party
	Second int
}

// Verdict is the resolved owner of a single second.
type Verdict int

const (
	VerdictUndecided Verdict = iota
	VerdictA
	VerdictB
)

// String returns "a", "b" or "undecided".
func (v Verdict) String() string {
	switch v {
	case VerdictA:
		return "a"
	case VerdictB:
		return "b"
	default:
		return "undecided"
	}
}

// Party returns the party a verdict awards the second to.
func (v Verdict) Party() Party {
	switch v {
	case VerdictA:
		return PartyA
	case VerdictB:
		return PartyB
	default:
		return PartyNone
	}
}

// Timeline holds one verdict per second, indexed from 0.
type Timeline []Verdict

// Interval is a maximal run of seconds [Start, End] held by Owner.
type Interval struct {
	Start int
	End   int
	Owner Party
}

// Seconds returns the inclusive length of the interval.
func (i Interval) Seconds() int {
	return i.End - i.Start + 1
}

// Summary aggregates one party's intervals.
type Summary struct {
	Party        Party
	Intervals    []Interval
	TotalSeconds int
}
