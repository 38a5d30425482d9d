package possession_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/possession"
	. "github.com/smartystreets/goconvey/convey"
)

var ball = model.Box{X1: 10, X2: 20, Y1: 10, Y2: 20}

func object(b model.Box) model.Detection {
	return model.Detection{Category: model.CategoryObject, Box: b}
}

func holder(p model.Party, b model.Box) model.Detection {
	return model.Detection{Category: model.CategoryHolder, Party: p, Box: b}
}

// around returns a box enclosing ball with a margin on every side.
func around() model.Box {
	return model.Box{X1: 0, X2: 30, Y1: 0, Y2: 30}
}

func TestContains(t *testing.T) {
	Convey("Given a ball box", t, func() {
		Convey("When the holder is strictly larger on all four sides", func() {
			So(possession.Contains(around(), ball), ShouldBeTrue)
		})

		Convey("When any single side touches or falls inside the ball", func() {
			for _, side := range []struct {
				name string
				box  model.Box
			}{
				{"left equal", model.Box{X1: 10, X2: 30, Y1: 0, Y2: 30}},
				{"right equal", model.Box{X1: 0, X2: 20, Y1: 0, Y2: 30}},
				{"top equal", model.Box{X1: 0, X2: 30, Y1: 10, Y2: 30}},
				{"bottom equal", model.Box{X1: 0, X2: 30, Y1: 0, Y2: 20}},
				{"left inside", model.Box{X1: 12, X2: 30, Y1: 0, Y2: 30}},
				{"right inside", model.Box{X1: 0, X2: 18, Y1: 0, Y2: 30}},
				{"top inside", model.Box{X1: 0, X2: 30, Y1: 12, Y2: 30}},
				{"bottom inside", model.Box{X1: 0, X2: 30, Y1: 0, Y2: 18}},
			} {
				Convey("Then containment should be false for "+side.name, func() {
					So(possession.Contains(side.box, ball), ShouldBeFalse)
				})
			}
		})

		Convey("When the boxes only partially overlap", func() {
			So(possession.Contains(model.Box{X1: 15, X2: 40, Y1: 15, Y2: 40}, ball), ShouldBeFalse)
		})
	})
}

func TestSecondOf(t *testing.T) {
	Convey("Given a resolution of 50 frames per second", t, func() {
		const r = 50

		Convey("Then boundary frames should land in the expected seconds", func() {
			So(possession.SecondOf(0, r), ShouldEqual, 0)
			So(possession.SecondOf(r-1, r), ShouldEqual, 0)
			So(possession.SecondOf(r, r), ShouldEqual, 1)
			So(possession.SecondOf(r+1, r), ShouldEqual, 1)
		})

		Convey("And negative frames should use floor division", func() {
			So(possession.SecondOf(-1, r), ShouldEqual, -1)
			So(possession.SecondOf(-r, r), ShouldEqual, -1)
			So(possession.SecondOf(-r-1, r), ShouldEqual, -2)
		})
	})
}

func TestExtract(t *testing.T) {
	Convey("Given frames at 50 fps", t, func() {
		Convey("When holders of both parties contain the ball", func() {
			frames := []model.Frame{
				{Index: 0, Detections: []model.Detection{object(ball), holder(model.PartyA, around())}},
				{Index: 75, Detections: []model.Detection{object(ball), holder(model.PartyB, around())}},
			}
			ev := possession.Extract(frames, 50)

			Convey("Then each party should get the bucketed second", func() {
				So(ev.A, ShouldResemble, []int{0})
				So(ev.B, ShouldResemble, []int{1})
			})
		})

		Convey("When a holder is scanned before the ball in its frame", func() {
			frames := []model.Frame{
				{Index: 0, Detections: []model.Detection{holder(model.PartyA, around()), object(ball)}},
			}
			ev := possession.Extract(frames, 50)

			Convey("Then the holder should be skipped", func() {
				So(ev.A, ShouldBeEmpty)
			})
		})

		Convey("When a frame has no ball", func() {
			frames := []model.Frame{
				{Index: 0, Detections: []model.Detection{object(ball)}},
				{Index: 1, Detections: []model.Detection{holder(model.PartyA, around())}},
			}
			ev := possession.Extract(frames, 50)

			Convey("Then the previous frame's ball should not be reused", func() {
				So(ev.A, ShouldBeEmpty)
			})
		})

		Convey("When several balls appear in one frame", func() {
			far := model.Box{X1: 100, X2: 110, Y1: 100, Y2: 110}
			frames := []model.Frame{
				{Index: 0, Detections: []model.Detection{object(ball), object(far), holder(model.PartyA, around())}},
			}
			ev := possession.Extract(frames, 50)

			Convey("Then the last one seen should be used", func() {
				So(ev.A, ShouldBeEmpty)
			})
		})

		Convey("When holders carry no known party or detections are unknown", func() {
			frames := []model.Frame{
				{Index: 0, Detections: []model.Detection{
					object(ball),
					holder(model.PartyNone, around()),
					{Category: model.CategoryUnknown, Box: around()},
				}},
			}
			ev := possession.Extract(frames, 50)

			Convey("Then they should be ignored without error", func() {
				So(ev.A, ShouldBeEmpty)
				So(ev.B, ShouldBeEmpty)
			})
		})

		Convey("When there are no frames", func() {
			ev := possession.Extract(nil, 50)

			Convey("Then no events should be produced", func() {
				So(ev.A, ShouldBeEmpty)
				So(ev.B, ShouldBeEmpty)
			})
		})
	})
}

func TestEventsAdd(t *testing.T) {
	Convey("Given an empty event set", t, func() {
		var ev possession.Events

		Convey("When events of every party are added", func() {
			ev.Add(model.Event{Party: model.PartyA, Second: 3})
			ev.Add(model.Event{Party: model.PartyB, Second: 1})
			ev.Add(model.Event{Party: model.PartyNone, Second: 2})
			ev.Add(model.Event{Party: model.PartyA, Second: 3})

			Convey("Then seconds are kept per party in order and unknown parties dropped", func() {
				So(ev.A, ShouldResemble, []int{3, 3})
				So(ev.B, ShouldResemble, []int{1})
			})
		})
	})
}

func TestVerdicts(t *testing.T) {
	Convey("Given per-second counts", t, func() {
		Convey("When one party has more events in a second", func() {
			tl := possession.Verdicts(possession.Tally([]int{0, 0, 1}), possession.Tally([]int{0, 1, 1}))

			Convey("Then the majority should win that second", func() {
				So(tl, ShouldResemble, model.Timeline{model.VerdictA, model.VerdictB})
			})
		})

		Convey("When counts are equal and non-zero", func() {
			tl := possession.Verdicts(possession.Tally([]int{0}), possession.Tally([]int{0}))

			Convey("Then the second should be undecided", func() {
				So(tl, ShouldResemble, model.Timeline{model.VerdictUndecided})
			})
		})

		Convey("When a second has no events at all", func() {
			tl := possession.Verdicts(possession.Tally([]int{0, 2}), possession.Tally(nil))

			Convey("Then the gap should be undecided", func() {
				So(tl, ShouldResemble, model.Timeline{model.VerdictA, model.VerdictUndecided, model.VerdictA})
			})
		})

		Convey("When party B has events after party A's last second", func() {
			tl := possession.Verdicts(possession.Tally([]int{0}), possession.Tally([]int{3, 4}))

			Convey("Then the range should stop at party A's last second", func() {
				So(tl, ShouldHaveLength, 1)
			})

			Convey("And the union range should include them", func() {
				union := possession.UnionVerdicts(possession.Tally([]int{0}), possession.Tally([]int{3, 4}))
				So(union, ShouldHaveLength, 5)
				So(union[4], ShouldEqual, model.VerdictB)
			})
		})

		Convey("When party A has no events", func() {
			tl := possession.Verdicts(possession.Tally(nil), possession.Tally([]int{0, 1}))

			Convey("Then the timeline should be empty", func() {
				So(tl, ShouldBeEmpty)
			})
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Given held indicators", t, func() {
		Convey("When a single position is held", func() {
			So(possession.Encode([]bool{true}, model.PartyA), ShouldResemble,
				[]model.Interval{{Start: 0, End: 0, Owner: model.PartyA}})
		})

		Convey("When held positions are separated by a gap", func() {
			So(possession.Encode([]bool{true, false, true}, model.PartyA), ShouldResemble, []model.Interval{
				{Start: 0, End: 0, Owner: model.PartyA},
				{Start: 2, End: 2, Owner: model.PartyA},
			})
		})

		Convey("When a run touches both ends", func() {
			So(possession.Encode([]bool{true, true, false, false, true, true, true}, model.PartyB), ShouldResemble, []model.Interval{
				{Start: 0, End: 1, Owner: model.PartyB},
				{Start: 4, End: 6, Owner: model.PartyB},
			})
		})

		Convey("When nothing is held", func() {
			intervals := possession.Encode([]bool{false, false}, model.PartyA)
			So(intervals, ShouldBeEmpty)
			So(possession.TotalSeconds(intervals), ShouldEqual, 0)
		})

		Convey("When the indicator is empty", func() {
			So(possession.Encode(nil, model.PartyA), ShouldBeEmpty)
		})
	})
}

func TestDurationInvariant(t *testing.T) {
	count := func(held []bool) int {
		n := 0
		for _, h := range held {
			if h {
				n++
			}
		}
		return n
	}

	Convey("Given arbitrary indicator sequences", t, func() {
		fixed := [][]bool{
			{true, true, true, true},
			{false, false, false},
			{true, false, true, false, true},
			{false, true, false, true, false},
		}
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 200; i++ {
			held := make([]bool, rng.Intn(40))
			for j := range held {
				held[j] = rng.Intn(2) == 1
			}
			fixed = append(fixed, held)
		}

		Convey("Then total seconds should equal the number of held positions", func() {
			for _, held := range fixed {
				intervals := possession.Encode(held, model.PartyA)
				So(possession.TotalSeconds(intervals), ShouldEqual, count(held))
			}
		})

		Convey("And intervals should be ordered, disjoint and maximal", func() {
			for _, held := range fixed {
				intervals := possession.Encode(held, model.PartyA)
				for k, iv := range intervals {
					So(iv.End, ShouldBeGreaterThanOrEqualTo, iv.Start)
					if k > 0 {
						So(iv.Start, ShouldBeGreaterThan, intervals[k-1].End+1)
					}
				}
			}
		})
	})
}

func TestAnalyzer(t *testing.T) {
	Convey("Given 100 frames recorded at 50 fps", t, func() {
		frames := make([]model.Frame, 100)
		for i := range frames {
			frames[i] = model.Frame{Index: i, Detections: []model.Detection{object(ball)}}
		}
		// A holds in frames 0 and 10 (second 0) and 60 (second 1); B in 70.
		for _, i := range []int{0, 10, 60} {
			frames[i].Detections = append(frames[i].Detections, holder(model.PartyA, around()))
		}
		frames[70].Detections = append(frames[70].Detections, holder(model.PartyB, around()))

		a := possession.NewAnalyzer(possession.WithResolution(50))

		Convey("When analysing the frames", func() {
			r, err := a.Analyze(context.Background(), frames)

			Convey("Then counts, verdicts and intervals should match", func() {
				So(err, ShouldBeNil)
				So(r.Frames, ShouldEqual, 100)
				So(r.Counts, ShouldResemble, []model.SecondCount{
					{Second: 0, A: 2, B: 0},
					{Second: 1, A: 1, B: 1},
				})
				So(r.Timeline, ShouldResemble, model.Timeline{model.VerdictA, model.VerdictUndecided})
				So(r.A.Intervals, ShouldResemble, []model.Interval{{Start: 0, End: 0, Owner: model.PartyA}})
				So(r.A.TotalSeconds, ShouldEqual, 1)
				So(r.B.Intervals, ShouldBeEmpty)
				So(r.B.TotalSeconds, ShouldEqual, 0)
			})
		})

		Convey("When the input is empty", func() {
			r, err := a.Analyze(context.Background(), nil)

			Convey("Then the report should be empty without error", func() {
				So(err, ShouldBeNil)
				So(r.Timeline, ShouldBeEmpty)
				So(r.A.TotalSeconds, ShouldEqual, 0)
				So(r.B.TotalSeconds, ShouldEqual, 0)
			})
		})

		Convey("When the resolution is not positive", func() {
			_, err := possession.NewAnalyzer(possession.WithResolution(0)).Analyze(context.Background(), frames)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, possession.ErrInvalidResolution), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := a.Analyze(ctx, frames)

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
