package rating_test

import (
	"testing"

	"github.com/okian/cricscore/internal/domain/matchctx"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRateBowling(t *testing.T) {
	Convey("Given the chase match context", t, func() {
		mc := chaseContext()

		Convey("When a bowler takes 3 for 24 in four overs", func() {
			e := model.BowlingEntry{Name: "Sam Seamer", Role: model.RoleBowler, Overs: 4, RunsConceded: 24, Wickets: 3}
			r, d := rating.RateBowling(e, false, mc)

			Convey("Then the wickets sub-score is exactly 3.75", func() {
				So(r, ShouldNotBeNil)
				So(d.Wickets.Score, ShouldEqual, 3.75)
				So(d.Wickets.Value, ShouldEqual, 3.0)
			})

			Convey("Then economy is judged against the match", func() {
				So(d.Economy.Value, ShouldEqual, 6.0)
				So(d.Economy.MatchEconomy, ShouldAlmostEqual, 8.34, 0.001)
				So(d.Economy.Score, ShouldEqual, 1.5)
			})

			Convey("Then a full allotment earns the overs bonus", func() {
				So(d.OversBowled.Value, ShouldEqual, 4.0)
				So(d.OversBowled.Score, ShouldEqual, 0.1)
			})

			Convey("Then losing carries no result bonus", func() {
				So(d.MatchResult.Won, ShouldBeFalse)
				So(d.MatchResult.Score, ShouldEqual, 0.0)
			})
		})

		Convey("When the wicket count varies", func() {
			for w := 0; w <= 8; w++ {
				_, d := rating.RateBowling(model.BowlingEntry{Overs: 4, RunsConceded: 30, Wickets: w}, false, mc)
				So(d.Wickets.Score, ShouldEqual, 1.25*float64(w))
			}
		})

		Convey("When the dismissed list has a gap", func() {
			e := model.BowlingEntry{Overs: 4, RunsConceded: 30, Wickets: 3, DismissedRuns: []model.DismissedRun{
				{Runs: 55, Valid: true}, {Valid: false}, {Runs: 12, Valid: true},
			}}
			_, d := rating.RateBowling(e, false, mc)

			Convey("Then the gap contributes nothing", func() {
				So(d.WicketQuality.Score, ShouldAlmostEqual, 0.45, 1e-9)
				So(len(d.WicketQuality.DismissedRuns), ShouldEqual, 3)
				So(*d.WicketQuality.DismissedRuns[0], ShouldEqual, 55)
				So(d.WicketQuality.DismissedRuns[1], ShouldBeNil)
			})
		})

		Convey("When the list is longer than the wickets taken", func() {
			e := model.BowlingEntry{Overs: 4, RunsConceded: 30, Wickets: 1, DismissedRuns: []model.DismissedRun{
				{Runs: 55, Valid: true}, {Runs: 12, Valid: true},
			}}
			_, d := rating.RateBowling(e, false, mc)

			Convey("Then only the credited wickets are paired", func() {
				So(len(d.WicketQuality.DismissedRuns), ShouldEqual, 1)
				So(d.WicketQuality.Score, ShouldEqual, 0.4)
			})
		})

		Convey("When every wicket is a set batter", func() {
			runs := []model.DismissedRun{{60, true}, {70, true}, {80, true}, {90, true}}
			_, d := rating.RateBowling(model.BowlingEntry{Overs: 4, RunsConceded: 30, Wickets: 4, DismissedRuns: runs}, false, mc)
			So(d.WicketQuality.Score, ShouldEqual, 1.0)
		})

		Convey("When maidens and extras are recorded", func() {
			_, d := rating.RateBowling(model.BowlingEntry{Overs: 4, RunsConceded: 20, Maidens: 3, Wides: 4, NoBalls: 2}, true, mc)
			So(d.Maidens.Score, ShouldEqual, 3.0)
			So(d.Extras.Score, ShouldEqual, -0.6)
			So(d.Extras.Wides, ShouldEqual, 4)
			So(d.MatchResult.Score, ShouldEqual, 0.3)
		})

		Convey("When the spell is shorter than two overs", func() {
			_, d := rating.RateBowling(model.BowlingEntry{Overs: 1.2, RunsConceded: 4}, false, mc)

			Convey("Then the economy credit is halved", func() {
				So(d.Economy.Value, ShouldEqual, 3.0)
				So(d.Economy.Score, ShouldEqual, 1.25)
			})
		})

		Convey("When nothing was bowled", func() {
			r, d := rating.RateBowling(model.BowlingEntry{Overs: 0, Wickets: 1}, true, mc)

			Convey("Then the rating is undefined with a note", func() {
				So(r, ShouldBeNil)
				So(d.Note, ShouldEqual, rating.NoteDidNotBowl)
				So(d.Economy, ShouldBeNil)
			})
		})
	})

	Convey("Given the same economy in different matches", t, func() {
		e := model.BowlingEntry{Overs: 4, RunsConceded: 32}
		high := matchctx.New(model.Match{First: model.Innings{TotalRuns: 200, TotalOvers: 20}, Second: model.Innings{TotalRuns: 190, TotalOvers: 20}})
		low := matchctx.New(model.Match{First: model.Innings{TotalRuns: 130, TotalOvers: 20}, Second: model.Innings{TotalRuns: 120, TotalOvers: 20}})

		_, dh := rating.RateBowling(e, false, high)
		_, dl := rating.RateBowling(e, false, low)

		Convey("Then it scores better in the high-scoring match", func() {
			So(high.Level, ShouldEqual, matchctx.ScoringHigh)
			So(low.Level, ShouldEqual, matchctx.ScoringLow)
			So(dh.Economy.Score, ShouldBeGreaterThan, dl.Economy.Score)
		})
	})
}
