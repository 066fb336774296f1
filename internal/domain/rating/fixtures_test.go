package rating_test

import (
	"github.com/okian/cricscore/internal/domain/matchctx"
	"github.com/okian/cricscore/internal/domain/model"
)

// chaseMatch is 160/5 in 20 overs chased down 161/6 in 18.3 overs by the Tigers.
func chaseMatch() model.Match {
	return model.Match{
		Team1:  "Lions",
		Team2:  "Tigers",
		Winner: "Tigers",
		Venue:  "Eden Park",
		First: model.Innings{
			BattingTeam:  "Lions",
			TotalRuns:    160,
			TotalWickets: 5,
			TotalOvers:   20,
			Batting: []model.BattingEntry{
				{Name: "Ari Opener", Role: model.RoleBatter, Runs: 40, Balls: 28, Fours: 5, Sixes: 1, Dismissal: model.DismissalCaught, Position: 1},
				{Name: "Ben Keeper", Role: model.RoleWicketKeeper, Runs: 62, Balls: 41, Fours: 6, Sixes: 2, Dismissal: model.DismissalBowled, Position: 2},
				{Name: "Cal Allround", Role: model.RoleBattingAllRounder, Runs: 30, Balls: 25, Fours: 2, Sixes: 1, Dismissal: model.DismissalLBW, Position: 3},
				{Name: "Dev Bowler", Role: model.RoleBowler, Runs: 0, Balls: 0, Dismissal: model.DismissalDidNotBat, Position: 4},
			},
			Bowling: []model.BowlingEntry{
				{Name: "Sam Seamer", Role: model.RoleBowler, Overs: 4, RunsConceded: 24, Wickets: 3,
					DismissedRuns: []model.DismissedRun{{Runs: 40, Valid: true}, {Runs: 62, Valid: true}, {Valid: false}}},
				{Name: "Tom Spinner", Role: model.RoleBowlingAllRounder, Overs: 4, RunsConceded: 38, Wickets: 1, Wides: 2,
					DismissedRuns: []model.DismissedRun{{Runs: 30, Valid: true}}},
			},
			FieldingEvents: []model.FieldingEvent{
				{Player: "Uma Fielder", Kind: model.FieldingCatch},
				{Player: "Sam Seamer", Kind: model.FieldingDroppedCatch},
			},
		},
		Second: model.Innings{
			BattingTeam:  "Tigers",
			TotalRuns:    161,
			TotalWickets: 6,
			TotalOvers:   18.3,
			Batting: []model.BattingEntry{
				{Name: "Vic Top", Role: model.RoleBatter, Runs: 70, Balls: 50, Fours: 7, Sixes: 3, Dismissal: model.DismissalCaught, Position: 1},
				{Name: "Tom Spinner", Role: model.RoleBatter, Runs: 25, Balls: 10, Fours: 4, Sixes: 1, Dismissal: model.DismissalNotOut, Position: 2},
				{Name: "Sam Seamer", Role: model.RoleBowler, Runs: 0, Balls: 0, Dismissal: model.DismissalDidNotBat, Position: 3},
			},
			Bowling: []model.BowlingEntry{
				{Name: "Dev Bowler", Role: model.RoleBowler, Overs: 4, RunsConceded: 30, Wickets: 2, Maidens: 1,
					DismissedRuns: []model.DismissedRun{{Runs: 70, Valid: true}, {Runs: 3, Valid: true}}},
				{Name: "Cal Allround", Overs: 2.3, RunsConceded: 29, Wickets: 0, NoBalls: 1},
			},
			FieldingEvents: []model.FieldingEvent{
				{Player: "Ben Keeper", Kind: model.FieldingStumping},
				{Player: "Ari Opener", Kind: model.FieldingCatch},
			},
		},
	}
}

func chaseContext() matchctx.Context { return matchctx.New(chaseMatch()) }

func ptr(v float64) *float64 { return &v }
