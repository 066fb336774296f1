// Package matchctx derives the match-level figures every rating calculator judges against.
package matchctx

import (
	"github.com/okian/cricscore/internal/domain/model"
)

// Scoring thresholds on the combined match run rate.
const (
	HighScoringRunRate = 8.75 // 350 runs over 40 overs
	LowScoringRunRate  = 7.0  // 280 runs over 40 overs
)

// MaxRequiredRate caps the required rate when no balls remain: six sixes an over.
const MaxRequiredRate = 36.0

// DefaultStrikeRate is used as the reference when an innings has no run rate.
const DefaultStrikeRate = 130.0

// TieWinner is the winner value for a tied match.
const TieWinner = "tie"

// ScoringLevel classifies the match by its combined run rate.
type ScoringLevel string

// Scoring levels.
const (
	ScoringHigh   ScoringLevel = "high"
	ScoringNormal ScoringLevel = "normal"
	ScoringLow    ScoringLevel = "low"
)

// Side identifies an innings by batting order.
type Side int

// Sides.
const (
	FirstInnings Side = iota + 1
	SecondInnings
)

// Context holds derived match figures. It is computed once per match and read-only after.
type Context struct {
	FirstRuns   int
	FirstBalls  int
	SecondRuns  int
	SecondBalls int

	FirstRunRate  float64
	SecondRunRate float64
	// MatchRunRate is combined runs over combined legal overs; it doubles as the match economy.
	MatchRunRate float64
	Level        ScoringLevel

	Target              int
	InitialRequiredRate float64
	ChaseSuccessful     bool

	Winner Side // zero when tied or unknown
	Tied   bool
}

// New analyses a match.
func New(m model.Match) Context {
	c := Context{
		FirstRuns:   m.First.TotalRuns,
		FirstBalls:  m.First.Balls(),
		SecondRuns:  m.Second.TotalRuns,
		SecondBalls: m.Second.Balls(),
	}
	c.FirstRunRate = runRate(c.FirstRuns, c.FirstBalls)
	c.SecondRunRate = runRate(c.SecondRuns, c.SecondBalls)
	c.MatchRunRate = runRate(c.FirstRuns+c.SecondRuns, c.FirstBalls+c.SecondBalls)

	switch {
	case c.MatchRunRate >= HighScoringRunRate:
		c.Level = ScoringHigh
	case c.MatchRunRate < LowScoringRunRate:
		c.Level = ScoringLow
	default:
		c.Level = ScoringNormal
	}

	c.Target = c.FirstRuns + 1
	c.InitialRequiredRate = float64(c.Target) / model.MaxOvers
	c.ChaseSuccessful = c.SecondRuns >= c.Target

	c.Winner, c.Tied = resolveWinner(m, c)
	return c
}

func resolveWinner(m model.Match, c Context) (Side, bool) {
	w := model.NameKey(m.Winner)
	switch {
	case w == TieWinner:
		return 0, true
	case w != "" && w == model.NameKey(m.Team1):
		return FirstInnings, false
	case w != "" && w == model.NameKey(m.Team2):
		return SecondInnings, false
	case w != "":
		return 0, false
	}
	// No declared winner: read it off the scores.
	switch {
	case c.ChaseSuccessful:
		return SecondInnings, false
	case c.SecondRuns < c.FirstRuns:
		return FirstInnings, false
	default:
		return 0, true
	}
}

func runRate(runs, balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return float64(runs) / model.BallsToOvers(balls)
}

// Won reports whether the side batting in the given innings won.
func (c Context) Won(s Side) bool { return c.Winner != 0 && c.Winner == s }

// MatchEconomy is the combined runs conceded per over across both innings.
func (c Context) MatchEconomy() float64 { return c.MatchRunRate }

// RunRate is the run rate of one innings.
func (c Context) RunRate(s Side) float64 {
	if s == SecondInnings {
		return c.SecondRunRate
	}
	return c.FirstRunRate
}

// StrikeRate converts an innings' run rate to runs per hundred balls,
// falling back to DefaultStrikeRate for an empty innings.
func (c Context) StrikeRate(s Side) float64 {
	rr := c.RunRate(s)
	if rr <= 0 {
		return DefaultStrikeRate
	}
	return rr * 100 / model.BallsPerOver
}

// RequiredRunRate is the chasing side's required rate after scoring runs from ballsFaced legal balls.
// It is always finite: MaxRequiredRate when runs are still needed with nothing left to bowl.
func (c Context) RequiredRunRate(runs, ballsFaced int) float64 {
	needed := c.Target - runs
	if needed <= 0 {
		return 0
	}
	remaining := model.MaxOvers*model.BallsPerOver - ballsFaced
	if remaining <= 0 {
		return MaxRequiredRate
	}
	return min(float64(needed)/model.BallsToOvers(remaining), MaxRequiredRate)
}
