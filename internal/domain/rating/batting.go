package rating

import (
	"github.com/okian/cricscore/internal/domain/matchctx"
	"github.com/okian/cricscore/internal/domain/model"
)

// Batting thresholds.
const (
	minBallsForStrikeRate = 4
	minBallsForDuck       = 6
	cameoMinBalls         = 2
	cameoMaxBalls         = 12
	cameoMinStrikeRate    = 180.0
	duckPenalty           = -1.0
)

// NoteDidNotBat marks a batting breakdown for a player who never batted.
const NoteDidNotBat = "Did not bat"

// runsCurve maps runs to points, flattening above 50.
var runsCurve = []point{
	{0, 0}, {5, 0.2}, {10, 0.4}, {15, 0.7}, {20, 1.0},
	{30, 1.5}, {40, 2.0}, {50, 2.5}, {75, 2.8}, {100, 3.0},
}

// BattingSituation places an innings within the match.
type BattingSituation struct {
	Side matchctx.Side
	Won  bool
	// RunsBefore and BallsBefore sum the figures of every earlier batter in the order;
	// they approximate the score when this batter walked in.
	RunsBefore  int
	BallsBefore int
}

// RateBatting scores one batting entry. The rating is nil when the player did not bat.
func RateBatting(e model.BattingEntry, sit BattingSituation, mc matchctx.Context) (*float64, model.BattingDetails) {
	if !e.DidBat() {
		return nil, model.BattingDetails{Note: NoteDidNotBat}
	}

	var d model.BattingDetails
	sr := e.StrikeRate()
	total := baseRating

	runs := clamp(interpolate(runsCurve, float64(e.Runs)), 0, 3)
	d.Runs = &model.ValueScore{Value: float64(e.Runs), Score: round2(runs)}
	total += runs

	srRaw, srApplied := strikeRateScore(e, sr, mc.StrikeRate(sit.Side))
	if e.Balls >= minBallsForStrikeRate {
		d.StrikeRate = &model.ValueScore{Value: round1(sr), Score: round2(srApplied)}
		total += srApplied

		bp := boundaryScore(e)
		d.BoundaryPct = &model.ValueScore{Value: round1(e.BoundaryPercentage()), Score: round2(bp)}
		total += bp
	} else {
		srApplied = 0
	}

	anchor := anchorScore(e, sr)
	d.Anchor = &model.AnchorScore{BallsFaced: e.Balls, Score: round2(anchor)}
	total += anchor

	pos := positionScore(e)
	d.Position = &model.PositionScore{Position: e.Position, Score: round2(pos)}
	total += pos

	var notOut float64
	if e.Dismissal == model.DismissalNotOut && sit.Side == matchctx.SecondInnings && sit.Won {
		notOut = 0.5
	}
	d.NotOutChase = &model.Score{Score: notOut}
	total += notOut

	var result float64
	if sit.Won {
		result = winBonus
	}
	d.MatchResult = &model.ResultScore{Won: sit.Won, Score: result}
	total += result

	rrr, chase := chasePressureScore(e, sr, sit, mc)
	d.ChasePressure = &model.ChaseScore{RRR: round2(rrr), Score: round2(chase)}
	total += chase

	cameo := cameoScore(e, sr, srRaw-srApplied)
	d.CameoImpact = &model.Score{Score: round2(cameo)}
	total += cameo

	if e.Runs == 0 && e.Dismissal.Out() && e.Balls >= minBallsForDuck {
		d.Duck = &model.Score{Score: duckPenalty}
		total += duckPenalty
	}

	rating := round1(clamp(total, 0, 10))
	d.Total = &rating
	return &rating, d
}

// strikeRateScore returns the strike-rate points before and after short-innings damping.
func strikeRateScore(e model.BattingEntry, sr, reference float64) (raw, applied float64) {
	raw = clamp(matchctx.StrikeRateAdjustment(sr, reference), -1.5, 2.0)
	switch {
	case e.Balls < 5:
		applied = raw * 0.35
	case e.Balls < 10:
		applied = raw * 0.5
	case e.Balls < 15:
		applied = raw * 0.75
	default:
		applied = raw
	}
	return raw, applied
}

func boundaryScore(e model.BattingEntry) float64 {
	if e.Runs == 0 {
		return 0
	}
	var s float64
	switch bp := e.BoundaryPercentage(); {
	case bp >= 70:
		s = 1.0
	case bp >= 60:
		s = 0.75
	case bp >= 50:
		s = 0.5
	case bp >= 35:
		s = 0.2
	case bp >= 20:
		s = 0
	default:
		s = -0.3
	}
	switch {
	case e.Balls < 5:
		s *= 0.35
	case e.Balls < 10:
		s *= 0.5
	}
	return clamp(s, -0.5, 1.0)
}

// anchorThreshold is the balls an innings must last to count as an anchor at a given position.
func anchorThreshold(position int) int {
	switch {
	case position <= 2:
		return 30
	case position <= 4:
		return 25
	case position <= 6:
		return 20
	default:
		return 15
	}
}

func anchorScore(e model.BattingEntry, sr float64) float64 {
	if e.Balls < anchorThreshold(e.Position) {
		return 0
	}
	switch {
	case sr >= 120:
		return 0.5
	case sr >= 100:
		return 0.3
	default:
		return 0.1
	}
}

func positionScore(e model.BattingEntry) float64 {
	switch {
	case e.Position >= 7 && e.Runs >= 15:
		return min(0.5, float64(e.Runs)*0.02)
	case e.Position >= 5 && e.Runs >= 20:
		return min(0.3, float64(e.Runs)*0.01)
	case e.Position >= 1 && e.Position <= 3 && e.Dismissal.Out() && e.Runs < 10 && e.Balls >= minBallsForDuck:
		return -0.2
	default:
		return 0
	}
}

// chasePressureScore estimates the required rate when the batter came in and rewards
// keeping up with it when it had climbed above the rate at the start of the chase.
func chasePressureScore(e model.BattingEntry, sr float64, sit BattingSituation, mc matchctx.Context) (rrr, score float64) {
	if sit.Side != matchctx.SecondInnings {
		return 0, 0
	}
	rrr = mc.RequiredRunRate(sit.RunsBefore, sit.BallsBefore)
	excess := rrr - mc.InitialRequiredRate
	if e.Balls < minBallsForStrikeRate || excess <= 0 {
		return rrr, 0
	}
	bonus := min(1.0, excess*0.2)
	required := rrr * 100 / model.BallsPerOver
	switch {
	case sr >= required:
		score = bonus
	case sr >= required*0.7:
		score = bonus * 0.3
	}
	return rrr, clamp(score, 0, 1)
}

// cameoScore rewards a short explosive innings, limited to the strike-rate credit that
// short-innings damping took away so the same balls are never paid twice.
func cameoScore(e model.BattingEntry, sr, dampedAway float64) float64 {
	if e.Balls < cameoMinBalls || e.Balls > cameoMaxBalls || sr < cameoMinStrikeRate {
		return 0
	}
	var s float64
	switch perBall := float64(e.Runs) / float64(e.Balls); {
	case perBall >= 3.0:
		s = 0.8
	case perBall >= 2.5:
		s = 0.6
	case perBall >= 2.0:
		s = 0.4
	case perBall >= 1.8:
		s = 0.2
	}
	if e.Sixes >= 1 && e.Balls <= 5 {
		s += 0.2
	}
	return clamp(min(s, dampedAway), 0, 1)
}
