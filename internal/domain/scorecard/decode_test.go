package scorecard_test

import (
	"errors"
	"testing"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/rating"
	"github.com/okian/cricscore/internal/domain/scorecard"
	"github.com/smartystreets/goconvey/convey"
)

const validCard = `{
  "team1_name": "  Lions ",
  "team2_name": "Tigers",
  "winner": "Tigers",
  "venue": "Eden Park",
  "first_innings": {
    "total_runs": 160, "total_wickets": "5", "total_overs": 20,
    "batting": [
      {"name": "Ari  Opener", "role": "Batter", "runs": 40, "balls": 28, "fours": 5, "sixes": 1, "dismissal": "caught"},
      {"name": "   ", "runs": 3},
      {"name": "Ben Keeper", "role": "wicket keeper", "runs": "62", "balls": 41, "dismissal": "Not Out"}
    ],
    "bowling": [
      {"name": "Sam Seamer", "role": "bowler", "overs": 4, "runs_conceded": 24, "wickets": 3, "dismissed_batsmen_runs": "40, 62,abc"}
    ],
    "fielding_events": [
      {"player_name": "Uma Fielder", "event_type": "catch"},
      {"player_name": "Uma Fielder", "event_type": "juggle"}
    ]
  },
  "second_innings": {
    "total_runs": 161, "total_wickets": 6, "total_overs": "18.3",
    "batting": [{"name": "Vic Top", "runs": 70, "balls": 50}],
    "bowling": [{"name": "Dev Bowler", "overs": 4, "runs_conceded": 30, "wickets": 2, "dismissed_batsmen_runs": [70, "3"]}]
  }
}`

func kinds(notes []model.Anomaly) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Kind)
	}
	return out
}

func TestDecode(t *testing.T) {
	convey.Convey("Given a well-formed scorecard", t, func() {
		m, notes, err := scorecard.Decode([]byte(validCard))

		convey.Convey("Then it converts without error", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(m.Team1, convey.ShouldEqual, "Lions")
			convey.So(m.Team2, convey.ShouldEqual, "Tigers")
			convey.So(m.Venue, convey.ShouldEqual, "Eden Park")
			convey.So(m.First.BattingTeam, convey.ShouldEqual, "Lions")
		})

		convey.Convey("Then numeric strings are accepted", func() {
			convey.So(m.First.TotalWickets, convey.ShouldEqual, 5)
			convey.So(m.Second.TotalOvers, convey.ShouldEqual, 18.3)
			convey.So(m.First.Batting[1].Runs, convey.ShouldEqual, 62)
		})

		convey.Convey("Then blank rows are skipped and positions follow kept rows", func() {
			convey.So(len(m.First.Batting), convey.ShouldEqual, 2)
			convey.So(m.First.Batting[0].Name, convey.ShouldEqual, "Ari Opener")
			convey.So(m.First.Batting[0].Position, convey.ShouldEqual, 1)
			convey.So(m.First.Batting[1].Position, convey.ShouldEqual, 2)
			convey.So(kinds(notes), convey.ShouldContain, model.AnomalyBlankName)
		})

		convey.Convey("Then roles and dismissals are normalised", func() {
			convey.So(m.First.Batting[0].Role, convey.ShouldEqual, model.RoleBatter)
			convey.So(m.First.Batting[1].Role, convey.ShouldEqual, model.RoleWicketKeeper)
			convey.So(m.First.Batting[1].Dismissal, convey.ShouldEqual, model.DismissalNotOut)
			convey.So(m.Second.Batting[0].Dismissal, convey.ShouldEqual, model.DismissalCaught)
			convey.So(m.Second.Batting[0].Role, convey.ShouldEqual, model.Role(""))
		})

		convey.Convey("Then dismissed runs parse per slot", func() {
			convey.So(m.First.Bowling[0].DismissedRuns, convey.ShouldResemble, []model.DismissedRun{
				{Runs: 40, Valid: true}, {Runs: 62, Valid: true}, {Valid: false},
			})
			convey.So(m.Second.Bowling[0].DismissedRuns, convey.ShouldResemble, []model.DismissedRun{
				{Runs: 70, Valid: true}, {Runs: 3, Valid: true},
			})
			convey.So(kinds(notes), convey.ShouldContain, model.AnomalyDismissedRuns)
		})

		convey.Convey("Then unknown fielding events are dropped", func() {
			convey.So(m.First.FieldingEvents, convey.ShouldResemble, []model.FieldingEvent{
				{Player: "Uma Fielder", Kind: model.FieldingCatch},
			})
			convey.So(kinds(notes), convey.ShouldContain, model.AnomalyUnknownFielding)
		})
	})

	convey.Convey("Given malformed numeric fields", t, func() {
		raw := `{"first_innings": {"total_runs": "lots", "batting": [{"name": "A", "runs": -4, "balls": true}]},
		         "second_innings": {"total_overs": null}}`
		m, notes, err := scorecard.Decode([]byte(raw))

		convey.Convey("Then the engine input falls back instead of failing", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(m.First.TotalRuns, convey.ShouldEqual, 0)
			convey.So(m.First.Batting[0].Runs, convey.ShouldEqual, 0)
			convey.So(m.First.Batting[0].Balls, convey.ShouldEqual, 0)
			convey.So(m.First.TotalOvers, convey.ShouldEqual, 20.0)
			convey.So(m.Second.TotalOvers, convey.ShouldEqual, 20.0)
		})

		convey.Convey("Then every recovery is recorded", func() {
			k := kinds(notes)
			convey.So(k, convey.ShouldContain, model.AnomalyInvalidNumber)
			convey.So(k, convey.ShouldContain, model.AnomalyNegativeNumber)
			convey.So(k, convey.ShouldContain, model.AnomalyOversDefaulted)
		})

		convey.Convey("Then missing team names get placeholders", func() {
			convey.So(m.Team1, convey.ShouldEqual, scorecard.DefaultTeam1)
			convey.So(m.Team2, convey.ShouldEqual, scorecard.DefaultTeam2)
			convey.So(kinds(notes), convey.ShouldContain, model.AnomalyMissingTeamName)
		})
	})

	convey.Convey("Given an unknown role and winner", t, func() {
		raw := `{"team1_name": "A", "team2_name": "B", "winner": "C",
		         "first_innings": {"batting": [{"name": "X", "role": "twelfth man"}]}, "second_innings": {}}`
		m, notes, err := scorecard.Decode([]byte(raw))
		convey.So(err, convey.ShouldBeNil)
		convey.So(m.First.Batting[0].Role, convey.ShouldEqual, model.Role(""))
		convey.So(kinds(notes), convey.ShouldContain, model.AnomalyUnknownRole)
		convey.So(kinds(notes), convey.ShouldContain, model.AnomalyUnknownWinner)
	})

	convey.Convey("Given counts that are out of range or fractional", t, func() {
		raw := `{"team1_name": "A", "team2_name": "B",
		         "first_innings": {
		           "total_runs": 1e19,
		           "batting": [{"name": "X", "runs": 1e19, "balls": 2.9}],
		           "bowling": [{"name": "Y", "overs": 400, "maidens": 1e19, "wickets": 2.9,
		                        "dismissed_batsmen_runs": [1e19, 12.5, 30]}]},
		         "second_innings": {}}`
		m, notes, err := scorecard.Decode([]byte(raw))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then huge counts fall back to zero instead of overflowing", func() {
			convey.So(m.First.TotalRuns, convey.ShouldEqual, 0)
			convey.So(m.First.Batting[0].Runs, convey.ShouldEqual, 0)
			convey.So(m.First.Bowling[0].Maidens, convey.ShouldEqual, 0)
		})

		convey.Convey("Then fractional counts are truncated", func() {
			convey.So(m.First.Batting[0].Balls, convey.ShouldEqual, 2)
			convey.So(m.First.Bowling[0].Wickets, convey.ShouldEqual, 2)
		})

		convey.Convey("Then bowler overs are capped at a full innings", func() {
			convey.So(m.First.Bowling[0].Overs, convey.ShouldEqual, 20.0)
		})

		convey.Convey("Then only whole, bounded dismissed runs carry quality data", func() {
			convey.So(m.First.Bowling[0].DismissedRuns, convey.ShouldResemble, []model.DismissedRun{
				{Valid: false}, {Valid: false}, {Runs: 30, Valid: true},
			})
		})

		convey.Convey("Then every recovery is recorded", func() {
			fields := map[string]bool{}
			for _, n := range notes {
				fields[n.Field] = true
			}
			convey.So(fields["first_innings.total_runs"], convey.ShouldBeTrue)
			convey.So(fields["first_innings.batting[0].runs"], convey.ShouldBeTrue)
			convey.So(fields["first_innings.batting[0].balls"], convey.ShouldBeTrue)
			convey.So(fields["first_innings.bowling[0].overs"], convey.ShouldBeTrue)
			convey.So(fields["first_innings.bowling[0].maidens"], convey.ShouldBeTrue)
			convey.So(fields["first_innings.bowling[0].wickets"], convey.ShouldBeTrue)
			convey.So(fields["first_innings.bowling[0].dismissed_batsmen_runs[0]"], convey.ShouldBeTrue)
			convey.So(fields["first_innings.bowling[0].dismissed_batsmen_runs[1]"], convey.ShouldBeTrue)
		})

		convey.Convey("Then the ratings stay in range", func() {
			res, _ := rating.RateMatch(m)
			for _, p := range res.Players() {
				convey.So(p.OverallRating, convey.ShouldBeBetweenOrEqual, 0, 10)
				if p.BattingDetails.Runs != nil {
					convey.So(p.BattingDetails.Runs.Value, convey.ShouldBeGreaterThanOrEqualTo, 0)
				}
				if p.BowlingDetails.Maidens != nil {
					convey.So(p.BowlingDetails.Maidens.Score, convey.ShouldBeGreaterThanOrEqualTo, 0)
				}
			}
		})
	})

	convey.Convey("Given text fields sent as other scalars", t, func() {
		raw := `{"team1_name": 7, "team2_name": "B", "winner": 3,
		         "first_innings": {
		           "batting": [{"name": 7, "runs": 3}, {"name": "X", "role": true, "dismissal": 5}],
		           "fielding_events": [{"player_name": "Z", "event_type": 1}]},
		         "second_innings": {}}`
		m, notes, err := scorecard.Decode([]byte(raw))

		convey.Convey("Then the scorecard is still rated", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(m.Team1, convey.ShouldEqual, scorecard.DefaultTeam1)
			convey.So(len(m.First.Batting), convey.ShouldEqual, 1)
			convey.So(m.First.Batting[0].Name, convey.ShouldEqual, "X")
			convey.So(m.First.Batting[0].Role, convey.ShouldEqual, model.Role(""))
			convey.So(m.First.Batting[0].Dismissal, convey.ShouldEqual, model.DismissalCaught)
			convey.So(m.First.FieldingEvents, convey.ShouldBeEmpty)
		})

		convey.Convey("Then each value is recorded as an anomaly", func() {
			k := kinds(notes)
			convey.So(k, convey.ShouldContain, model.AnomalyMissingTeamName)
			convey.So(k, convey.ShouldContain, model.AnomalyBlankName)
			convey.So(k, convey.ShouldContain, model.AnomalyUnknownRole)
			convey.So(k, convey.ShouldContain, model.AnomalyUnknownDismissal)
			convey.So(k, convey.ShouldContain, model.AnomalyUnknownFielding)
			convey.So(k, convey.ShouldContain, model.AnomalyUnknownWinner)
		})
	})

	convey.Convey("Given structurally unusable documents", t, func() {
		cases := []struct{ name, raw string }{
			{"empty", ``},
			{"not json", `{"first_innings":`},
			{"array", `[]`},
			{"missing second", `{"first_innings": {}}`},
			{"batting object", `{"first_innings": {"batting": {}}, "second_innings": {}}`},
			{"object name", `{"first_innings": {"batting": [{"name": {}}]}, "second_innings": {}}`},
		}
		for _, tc := range cases {
			convey.Convey("When the body is "+tc.name, func() {
				_, _, err := scorecard.Decode([]byte(tc.raw))
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, scorecard.ErrInvalidScorecard), convey.ShouldBeTrue)

				var ve *scorecard.ValidationError
				convey.So(errors.As(err, &ve), convey.ShouldBeTrue)
				convey.So(ve.Problems, convey.ShouldNotBeEmpty)
			})
		}
	})

	convey.Convey("Given the embedded schema", t, func() {
		convey.So(string(scorecard.Schema()), convey.ShouldContainSubstring, "first_innings")
	})
}
