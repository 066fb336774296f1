package model

import (
	"encoding/json"
	"fmt"
)

// RatingColor is the display band of an overall rating.
type RatingColor string

// Rating colour bands.
const (
	ColorBlue       RatingColor = "blue"
	ColorGreen      RatingColor = "green"
	ColorLightGreen RatingColor = "light-green"
	ColorYellow     RatingColor = "yellow"
	ColorOrange     RatingColor = "orange"
	ColorRed        RatingColor = "red"
)

// ColorFor maps a 0-10 rating to its colour band.
func ColorFor(rating float64) RatingColor {
	switch {
	case rating >= 9.0:
		return ColorBlue
	case rating >= 7.5:
		return ColorGreen
	case rating >= 6.5:
		return ColorLightGreen
	case rating >= 5.5:
		return ColorYellow
	case rating >= 4.5:
		return ColorOrange
	default:
		return ColorRed
	}
}

// Score is a sub-score with no extra context.
type Score struct {
	Score float64 `json:"score"`
}

// ValueScore pairs a measured value with the points it earned.
type ValueScore struct {
	Value float64 `json:"value"`
	Score float64 `json:"score"`
}

// AnchorScore is the anchor sub-score.
type AnchorScore struct {
	BallsFaced int     `json:"balls_faced"`
	Score      float64 `json:"score"`
}

// PositionScore is the batting-position sub-score.
type PositionScore struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

// ResultScore is the match-result sub-score.
type ResultScore struct {
	Won   bool    `json:"won"`
	Score float64 `json:"score"`
}

// ChaseScore is the chase-pressure sub-score; RRR is the estimated required rate at entry.
type ChaseScore struct {
	RRR   float64 `json:"rrr"`
	Score float64 `json:"score"`
}

// EconomyScore is the economy sub-score.
type EconomyScore struct {
	Value        float64 `json:"value"`
	MatchEconomy float64 `json:"match_economy"`
	Score        float64 `json:"score"`
}

// WicketQualityScore lists the run counts of the dismissed batters considered.
// A nil slot had no usable run count.
type WicketQualityScore struct {
	DismissedRuns []*int  `json:"dismissed_runs"`
	Score         float64 `json:"score"`
}

// ExtrasScore is the extras penalty.
type ExtrasScore struct {
	Wides   int     `json:"wides"`
	NoBalls int     `json:"no_balls"`
	Score   float64 `json:"score"`
}

// BreakdownRow is one labelled line of a component breakdown.
type BreakdownRow struct {
	Key   string
	Label string
	Value string
	Score float64
}

// BattingDetails explains a batting rating. Nil rows were not evaluated.
type BattingDetails struct {
	Note          string         `json:"note,omitempty"`
	Runs          *ValueScore    `json:"runs,omitempty"`
	StrikeRate    *ValueScore    `json:"strike_rate,omitempty"`
	BoundaryPct   *ValueScore    `json:"boundary_pct,omitempty"`
	Anchor        *AnchorScore   `json:"anchor,omitempty"`
	Position      *PositionScore `json:"position,omitempty"`
	NotOutChase   *Score         `json:"not_out_chase,omitempty"`
	MatchResult   *ResultScore   `json:"match_result,omitempty"`
	ChasePressure *ChaseScore    `json:"chase_pressure,omitempty"`
	CameoImpact   *Score         `json:"cameo_impact,omitempty"`
	Duck          *Score         `json:"duck,omitempty"`
	Total         *float64       `json:"total,omitempty"`
}

// Rows returns the evaluated rows in display order.
func (d BattingDetails) Rows() []BreakdownRow {
	var rows []BreakdownRow
	add := func(key, label, value string, score float64) {
		rows = append(rows, BreakdownRow{Key: key, Label: label, Value: value, Score: score})
	}
	if d.Runs != nil {
		add("runs", "Runs", fmt.Sprintf("%.0f", d.Runs.Value), d.Runs.Score)
	}
	if d.StrikeRate != nil {
		add("strike_rate", "Strike Rate", fmt.Sprintf("%.1f", d.StrikeRate.Value), d.StrikeRate.Score)
	}
	if d.BoundaryPct != nil {
		add("boundary_pct", "Boundary %", fmt.Sprintf("%.1f%%", d.BoundaryPct.Value), d.BoundaryPct.Score)
	}
	if d.Anchor != nil {
		add("anchor", "Anchor", fmt.Sprintf("%d balls", d.Anchor.BallsFaced), d.Anchor.Score)
	}
	if d.Position != nil {
		add("position", "Position", fmt.Sprintf("#%d", d.Position.Position), d.Position.Score)
	}
	if d.NotOutChase != nil {
		add("not_out_chase", "Not Out Chase", "", d.NotOutChase.Score)
	}
	if d.MatchResult != nil {
		add("match_result", "Match Result", wonLabel(d.MatchResult.Won), d.MatchResult.Score)
	}
	if d.ChasePressure != nil {
		add("chase_pressure", "Chase Pressure", fmt.Sprintf("RRR %.2f", d.ChasePressure.RRR), d.ChasePressure.Score)
	}
	if d.CameoImpact != nil {
		add("cameo_impact", "Cameo Impact", "", d.CameoImpact.Score)
	}
	if d.Duck != nil {
		add("duck", "Duck", "", d.Duck.Score)
	}
	return rows
}

// BowlingDetails explains a bowling rating. Nil rows were not evaluated.
type BowlingDetails struct {
	Note          string              `json:"note,omitempty"`
	Wickets       *ValueScore         `json:"wickets,omitempty"`
	Economy       *EconomyScore       `json:"economy,omitempty"`
	Maidens       *ValueScore         `json:"maidens,omitempty"`
	OversBowled   *ValueScore         `json:"overs_bowled,omitempty"`
	WicketQuality *WicketQualityScore `json:"wicket_quality,omitempty"`
	MatchResult   *ResultScore        `json:"match_result,omitempty"`
	Extras        *ExtrasScore        `json:"extras,omitempty"`
	Total         *float64            `json:"total,omitempty"`
}

// Rows returns the evaluated rows in display order.
func (d BowlingDetails) Rows() []BreakdownRow {
	var rows []BreakdownRow
	add := func(key, label, value string, score float64) {
		rows = append(rows, BreakdownRow{Key: key, Label: label, Value: value, Score: score})
	}
	if d.Wickets != nil {
		add("wickets", "Wickets", fmt.Sprintf("%.0f", d.Wickets.Value), d.Wickets.Score)
	}
	if d.Economy != nil {
		add("economy", "Economy", fmt.Sprintf("%.2f (match %.2f)", d.Economy.Value, d.Economy.MatchEconomy), d.Economy.Score)
	}
	if d.Maidens != nil {
		add("maidens", "Maidens", fmt.Sprintf("%.0f", d.Maidens.Value), d.Maidens.Score)
	}
	if d.OversBowled != nil {
		add("overs_bowled", "Overs Bowled", fmt.Sprintf("%.1f", d.OversBowled.Value), d.OversBowled.Score)
	}
	if d.WicketQuality != nil {
		add("wicket_quality", "Wicket Quality", fmt.Sprintf("%d dismissals", len(d.WicketQuality.DismissedRuns)), d.WicketQuality.Score)
	}
	if d.MatchResult != nil {
		add("match_result", "Match Result", wonLabel(d.MatchResult.Won), d.MatchResult.Score)
	}
	if d.Extras != nil {
		add("extras", "Extras", fmt.Sprintf("%dwd %dnb", d.Extras.Wides, d.Extras.NoBalls), d.Extras.Score)
	}
	return rows
}

func wonLabel(won bool) string {
	if won {
		return "won"
	}
	return "lost"
}

// FieldingEventScore is one fielding event and its points.
type FieldingEventScore struct {
	Type   FieldingKind `json:"type"`
	Label  string       `json:"label"`
	Points float64      `json:"points"`
}

// FieldingDetails explains a fielding rating.
type FieldingDetails struct {
	Events     []FieldingEventScore `json:"events"`
	Adjustment float64              `json:"adjustment"`
	Total      float64              `json:"total"`
	HasEvents  bool                 `json:"has_events"`
}

// Weights are the normalised component weights applied to a player.
type Weights struct {
	Batting  float64 `json:"batting"`
	Bowling  float64 `json:"bowling"`
	Fielding float64 `json:"fielding"`
}

// PlayerRating is a player's rating for one match.
type PlayerRating struct {
	Name            string          `json:"name"`
	Team            string          `json:"team"`
	Role            Role            `json:"role"`
	OverallRating   float64         `json:"overall_rating"`
	BattingRating   *float64        `json:"batting_rating"`
	BowlingRating   *float64        `json:"bowling_rating"`
	FieldingRating  float64         `json:"fielding_rating"`
	DidBat          bool            `json:"did_bat"`
	DidBowl         bool            `json:"did_bowl"`
	Weights         Weights         `json:"weights"`
	BattingDetails  BattingDetails  `json:"batting_details"`
	BowlingDetails  BowlingDetails  `json:"bowling_details"`
	FieldingDetails FieldingDetails `json:"fielding_details"`
}

// Color is derived from OverallRating and never stored.
func (p PlayerRating) Color() RatingColor { return ColorFor(p.OverallRating) }

// MarshalJSON adds rating_color.
func (p PlayerRating) MarshalJSON() ([]byte, error) {
	type plain PlayerRating
	return json.Marshal(struct {
		plain
		RatingColor RatingColor `json:"rating_color"`
	}{plain: plain(p), RatingColor: p.Color()})
}

// TeamRating is one side's player ratings in batting-then-bowling order.
type TeamRating struct {
	Name    string         `json:"name"`
	Players []PlayerRating `json:"players"`
}

// MatchInfo summarises the match for display.
type MatchInfo struct {
	Team1Name  string  `json:"team1_name"`
	Team2Name  string  `json:"team2_name"`
	Team1Score string  `json:"team1_score"`
	Team1Overs float64 `json:"team1_overs"`
	Team2Score string  `json:"team2_score"`
	Team2Overs float64 `json:"team2_overs"`
	Winner     string  `json:"winner"`
	Venue      string  `json:"venue"`
}

// MVP references the match's most valuable player.
type MVP struct {
	Name          string  `json:"name"`
	Team          string  `json:"team"`
	OverallRating float64 `json:"overall_rating"`
}

// MatchResult is the complete output of rating a match.
type MatchResult struct {
	Success   bool       `json:"success"`
	ResultID  string     `json:"result_id,omitempty"`
	Team1     TeamRating `json:"team1"`
	Team2     TeamRating `json:"team2"`
	MatchInfo MatchInfo  `json:"match_info"`
	MVP       *MVP       `json:"mvp"`
}

// Players returns every rating, team 1 first.
func (r MatchResult) Players() []PlayerRating {
	out := make([]PlayerRating, 0, len(r.Team1.Players)+len(r.Team2.Players))
	out = append(out, r.Team1.Players...)
	return append(out, r.Team2.Players...)
}
