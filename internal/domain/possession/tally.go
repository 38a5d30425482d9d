package possession

import "github.com/okian/possession/internal/domain/model"

// Counts is a frequency table of events per second. Missing seconds count
// as zero.
type Counts map[int]int

// Tally counts the occurrences of each second.
func Tally(seconds []int) Counts {
	c := make(Counts, len(seconds))
	for _, s := range seconds {
		c[s]++
	}
	return c
}

// At returns the count for second s.
func (c Counts) At(s int) int {
	return c[s]
}

// Max returns the largest second present and false when c is empty.
func (c Counts) Max() (int, bool) {
	maxSecond, ok := 0, false
	for s := range c {
		if !ok || s > maxSecond {
			maxSecond, ok = s, true
		}
	}
	return maxSecond, ok
}

// Verdicts resolves every second in [0, M] by majority, where M is the last
// second present in a. Seconds after a's last event are not covered even when
// b has events there. Equal counts, including zero against zero, are
// undecided.
func Verdicts(a, b Counts) model.Timeline {
	last, ok := a.Max()
	return verdictsUpTo(a, b, last, ok)
}

// UnionVerdicts is Verdicts over the range bounded by the last event of
// either party.
func UnionVerdicts(a, b Counts) model.Timeline {
	lastA, okA := a.Max()
	lastB, okB := b.Max()
	switch {
	case okA && okB:
		return verdictsUpTo(a, b, max(lastA, lastB), true)
	case okA:
		return verdictsUpTo(a, b, lastA, true)
	default:
		return verdictsUpTo(a, b, lastB, okB)
	}
}

func verdictsUpTo(a, b Counts, last int, ok bool) model.Timeline {
	if !ok || last < 0 {
		return model.Timeline{}
	}
	t := make(model.Timeline, last+1)
	for s := range t {
		ca, cb := a.At(s), b.At(s)
		switch {
		case ca > cb:
			t[s] = model.VerdictA
		case cb > ca:
			t[s] = model.VerdictB
		default:
			t[s] = model.VerdictUndecided
		}
	}
	return t
}

// SecondCounts lists the per-second counts of both parties for every second
// of the timeline.
func SecondCounts(a, b Counts, t model.Timeline) []model.SecondCount {
	out := make([]model.SecondCount, len(t))
	for s := range t {
		out[s] = model.SecondCount{Second: s, A: a.At(s), B: b.At(s)}
	}
	return out
}
