package rating

import (
	"github.com/okian/cricscore/internal/domain/matchctx"
	"github.com/okian/cricscore/internal/domain/model"
)

// Bowling constants.
const (
	pointsPerWicket      = 1.25
	pointsPerMaiden      = 1.5
	maxMaidenPoints      = 3.0
	maxWicketQuality     = 1.0
	scoringLevelShift    = 0.2
	widePenalty          = 0.05
	noBallPenalty        = 0.2
	maxExtrasPenalty     = -1.5
	fullAllotmentOvers   = 4.0
	mostOfAllotmentOvers = 3.0
)

// NoteDidNotBowl marks a bowling breakdown for a player who never bowled.
const NoteDidNotBowl = "Did not bowl"

// RateBowling scores one bowling entry. The rating is nil when no legal ball was bowled.
func RateBowling(e model.BowlingEntry, won bool, mc matchctx.Context) (*float64, model.BowlingDetails) {
	if !e.DidBowl() {
		return nil, model.BowlingDetails{Note: NoteDidNotBowl}
	}

	var d model.BowlingDetails
	total := baseRating
	overs := model.BallsToOvers(e.Balls())

	wickets := pointsPerWicket * float64(max(e.Wickets, 0))
	d.Wickets = &model.ValueScore{Value: float64(e.Wickets), Score: round2(wickets)}
	total += wickets

	eco := economyScore(e.Economy(), overs, mc)
	d.Economy = &model.EconomyScore{
		Value:        round2(e.Economy()),
		MatchEconomy: round2(mc.MatchEconomy()),
		Score:        round2(eco),
	}
	total += eco

	maidens := min(pointsPerMaiden*float64(e.Maidens), maxMaidenPoints)
	d.Maidens = &model.ValueScore{Value: float64(e.Maidens), Score: round2(maidens)}
	total += maidens

	var quota float64
	switch {
	case overs >= fullAllotmentOvers:
		quota = 0.1
	case overs >= mostOfAllotmentOvers:
		quota = 0.05
	}
	d.OversBowled = &model.ValueScore{Value: round1(overs), Score: quota}
	total += quota

	slots, quality := wicketQuality(e)
	d.WicketQuality = &model.WicketQualityScore{DismissedRuns: slots, Score: round2(quality)}
	total += quality

	var result float64
	if won {
		result = winBonus
	}
	d.MatchResult = &model.ResultScore{Won: won, Score: result}
	total += result

	extras := clamp(-(widePenalty*float64(e.Wides) + noBallPenalty*float64(e.NoBalls)), maxExtrasPenalty, 0)
	d.Extras = &model.ExtrasScore{Wides: e.Wides, NoBalls: e.NoBalls, Score: round2(extras)}
	total += extras

	rating := round1(clamp(total, 0, 10))
	d.Total = &rating
	return &rating, d
}

// economyScore judges economy against the match economy, nudged by how high-scoring the match was.
func economyScore(economy, overs float64, mc matchctx.Context) float64 {
	s := matchctx.EconomyAdjustment(economy, mc.MatchEconomy())
	switch mc.Level {
	case matchctx.ScoringHigh:
		s += scoringLevelShift
	case matchctx.ScoringLow:
		s -= scoringLevelShift
	}
	switch {
	case overs < 2:
		s *= 0.5
	case overs < 3:
		s *= 0.75
	}
	return clamp(s, -2.0, 2.7)
}

// wicketQuality pairs the first Wickets slots of the dismissed list with a per-wicket bonus.
func wicketQuality(e model.BowlingEntry) ([]*int, float64) {
	n := min(max(e.Wickets, 0), len(e.DismissedRuns))
	slots := make([]*int, 0, n)
	var total float64
	for _, dr := range e.DismissedRuns[:n] {
		if !dr.Valid {
			slots = append(slots, nil)
			continue
		}
		runs := dr.Runs
		slots = append(slots, &runs)
		switch {
		case runs >= 50:
			total += 0.4
		case runs >= 30:
			total += 0.3
		case runs >= 15:
			total += 0.15
		default:
			total += 0.05
		}
	}
	return slots, min(total, maxWicketQuality)
}
