package rating

import (
	"fmt"

	"github.com/okian/cricscore/internal/domain/matchctx"
	"github.com/okian/cricscore/internal/domain/model"
)

// RateMatch rates every player of a match. It is pure and deterministic: the same
// match always yields the same result. Team 1 is the side that batted first; its
// bowling and fielding come from the second innings. The returned anomalies are
// inconsistencies that were resolved while assembling teams.
func RateMatch(m model.Match) (model.MatchResult, []model.Anomaly) {
	mc := matchctx.New(m)

	team1, notes1 := AggregateTeam(m.Team1, matchctx.FirstInnings, m.First, m.Second, mc)
	team2, notes2 := AggregateTeam(m.Team2, matchctx.SecondInnings, m.Second, m.First, mc)

	res := model.MatchResult{
		Success: true,
		Team1:   team1,
		Team2:   team2,
		MatchInfo: model.MatchInfo{
			Team1Name:  m.Team1,
			Team2Name:  m.Team2,
			Team1Score: scoreLine(m.First),
			Team1Overs: m.First.TotalOvers,
			Team2Score: scoreLine(m.Second),
			Team2Overs: m.Second.TotalOvers,
			Winner:     winnerName(m, mc),
			Venue:      m.Venue,
		},
	}
	if best := SelectMVP(res.Players()); best != nil {
		res.MVP = &model.MVP{Name: best.Name, Team: best.Team, OverallRating: best.OverallRating}
	}
	return res, append(notes1, notes2...)
}

func scoreLine(in model.Innings) string {
	return fmt.Sprintf("%d/%d", in.TotalRuns, in.TotalWickets)
}

func winnerName(m model.Match, mc matchctx.Context) string {
	switch {
	case mc.Tied:
		return matchctx.TieWinner
	case mc.Winner == matchctx.FirstInnings:
		return m.Team1
	case mc.Winner == matchctx.SecondInnings:
		return m.Team2
	default:
		return m.Winner
	}
}
