package possession

import "github.com/okian/possession/internal/domain/model"

// Held projects a timeline to a held/not-held indicator for p.
func Held(t model.Timeline, p model.Party) []bool {
	held := make([]bool, len(t))
	for i, v := range t {
		held[i] = p != model.PartyNone && v.Party() == p
	}
	return held
}

// Encode returns the maximal runs of held positions as inclusive intervals,
// in increasing order. An interval opens on a not-held to held edge (or at
// index 0) and closes on a held to not-held edge (or at the last index).
func Encode(held []bool, owner model.Party) []model.Interval {
	var (
		out     []model.Interval
		holding bool
		start   int
	)
	for i, h := range held {
		switch {
		case h && !holding:
			holding, start = true, i
		case !h && holding:
			holding = false
			out = append(out, model.Interval{Start: start, End: i - 1, Owner: owner})
		}
	}
	if holding {
		out = append(out, model.Interval{Start: start, End: len(held) - 1, Owner: owner})
	}
	return out
}

// TotalSeconds sums the inclusive lengths of intervals.
func TotalSeconds(intervals []model.Interval) int {
	total := 0
	for _, iv := range intervals {
		total += iv.Seconds()
	}
	return total
}

// Summarize encodes p's intervals from t and totals them.
func Summarize(t model.Timeline, p model.Party) model.Summary {
	intervals := Encode(Held(t, p), p)
	return model.Summary{
		Party:        p,
		Intervals:    intervals,
		TotalSeconds: TotalSeconds(intervals),
	}
}
