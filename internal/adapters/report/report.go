// Package report derives chart inputs and serialized views from analysis
// reports.
package report

import (
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/types"
)

// View converts r into its wire representation.
func View(r model.Report, labels types.Labels) types.ReportView {
	timeline := make([]string, len(r.Timeline))
	for i, v := range r.Timeline {
		timeline[i] = v.String()
	}

	counts := make([]types.SecondCount, len(r.Counts))
	for i, c := range r.Counts {
		counts[i] = types.SecondCount{Second: c.Second, A: c.A, B: c.B}
	}

	shares := Shares(r, labels)
	return types.ReportView{
		ID:         r.ID,
		Resolution: r.Resolution,
		Frames:     r.Frames,
		Seconds:    len(r.Timeline),
		Timeline:   timeline,
		Counts:     counts,
		Parties: []types.PartySummary{
			partySummary(r.A, shares[0]),
			partySummary(r.B, shares[1]),
		},
		Created: r.Created,
	}
}

func partySummary(s model.Summary, share types.Share) types.PartySummary {
	intervals := make([]types.Interval, len(s.Intervals))
	for i, iv := range s.Intervals {
		intervals[i] = types.Interval{Start: iv.Start, End: iv.End}
	}
	return types.PartySummary{
		Label:        share.Label,
		Intervals:    intervals,
		TotalSeconds: s.TotalSeconds,
		Share:        share.Share,
	}
}

// Gantt lists every interval as a chart bar, party A first. Finish is one
// past the last held second so bars cover whole seconds.
func Gantt(r model.Report, labels types.Labels) []types.GanttTask {
	tasks := make([]types.GanttTask, 0, len(r.A.Intervals)+len(r.B.Intervals))
	for _, s := range []struct {
		summary model.Summary
		label   string
	}{{r.A, labels.A}, {r.B, labels.B}} {
		for _, iv := range s.summary.Intervals {
			tasks = append(tasks, types.GanttTask{
				Start:    iv.Start,
				Finish:   iv.End + 1,
				Resource: s.label,
			})
		}
	}
	return tasks
}

// Shares returns the possession proportion of each party. Both shares are
// zero when nobody held the object.
func Shares(r model.Report, labels types.Labels) []types.Share {
	total := r.A.TotalSeconds + r.B.TotalSeconds
	share := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total)
	}
	return []types.Share{
		{Label: labels.A, Seconds: r.A.TotalSeconds, Share: share(r.A.TotalSeconds)},
		{Label: labels.B, Seconds: r.B.TotalSeconds, Share: share(r.B.TotalSeconds)},
	}
}
