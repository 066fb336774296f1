// Package model contains the scorecard and rating types passed between layers.
package model

import (
	"math"
	"strings"
)

// MaxOvers is the length of a T20 innings.
const MaxOvers = 20

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// Role is the declared playing role of a player.
type Role string

// Player roles.
const (
	RoleBatter            Role = "batter"
	RoleBowler            Role = "bowler"
	RoleBattingAllRounder Role = "batting_all_rounder"
	RoleBowlingAllRounder Role = "bowling_all_rounder"
	RoleWicketKeeper      Role = "wicket_keeper"
)

var roles = map[string]Role{
	"batter":              RoleBatter,
	"batsman":             RoleBatter,
	"bowler":              RoleBowler,
	"batting_all_rounder": RoleBattingAllRounder,
	"bowling_all_rounder": RoleBowlingAllRounder,
	"wicket_keeper":       RoleWicketKeeper,
	"wicketkeeper":        RoleWicketKeeper,
	"keeper":              RoleWicketKeeper,
}

// ParseRole maps free text such as "Wicket Keeper" or "bowling-all-rounder" to a Role.
func ParseRole(s string) (Role, bool) {
	r, ok := roles[enumKey(s)]
	return r, ok
}

// Dismissal is how a batting innings ended.
type Dismissal string

// Dismissal kinds.
const (
	DismissalNotOut      Dismissal = "not_out"
	DismissalBowled      Dismissal = "bowled"
	DismissalCaught      Dismissal = "caught"
	DismissalLBW         Dismissal = "lbw"
	DismissalRunOut      Dismissal = "run_out"
	DismissalStumped     Dismissal = "stumped"
	DismissalHitWicket   Dismissal = "hit_wicket"
	DismissalRetiredHurt Dismissal = "retired_hurt"
	DismissalDidNotBat   Dismissal = "did_not_bat"
)

var dismissals = map[string]Dismissal{
	"not_out":      DismissalNotOut,
	"bowled":       DismissalBowled,
	"caught":       DismissalCaught,
	"lbw":          DismissalLBW,
	"run_out":      DismissalRunOut,
	"stumped":      DismissalStumped,
	"hit_wicket":   DismissalHitWicket,
	"retired_hurt": DismissalRetiredHurt,
	"did_not_bat":  DismissalDidNotBat,
	"dnb":          DismissalDidNotBat,
}

// ParseDismissal maps free text to a Dismissal.
func ParseDismissal(s string) (Dismissal, bool) {
	d, ok := dismissals[enumKey(s)]
	return d, ok
}

// Out reports whether the batter was dismissed.
func (d Dismissal) Out() bool {
	switch d {
	case DismissalNotOut, DismissalRetiredHurt, DismissalDidNotBat:
		return false
	default:
		return true
	}
}

// FieldingKind is the kind of a fielding event.
type FieldingKind string

// Fielding event kinds.
const (
	FieldingCatch          FieldingKind = "catch"
	FieldingDirectRunOut   FieldingKind = "direct_run_out"
	FieldingAssistedRunOut FieldingKind = "assisted_run_out"
	FieldingStumping       FieldingKind = "stumping"
	FieldingDroppedCatch   FieldingKind = "dropped_catch"
	FieldingMisfield       FieldingKind = "misfield"
)

var fieldingKinds = map[string]FieldingKind{
	"catch":            FieldingCatch,
	"direct_run_out":   FieldingDirectRunOut,
	"assisted_run_out": FieldingAssistedRunOut,
	"stumping":         FieldingStumping,
	"dropped_catch":    FieldingDroppedCatch,
	"misfield":         FieldingMisfield,
}

// ParseFieldingKind maps free text to a FieldingKind.
func ParseFieldingKind(s string) (FieldingKind, bool) {
	k, ok := fieldingKinds[enumKey(s)]
	return k, ok
}

// Label is the human readable form, e.g. "Direct Run Out".
func (k FieldingKind) Label() string { return titleCase(string(k)) }

func enumKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func titleCase(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// OversToBalls converts legal-ball notation (3.4 = 3 overs and 4 balls) to a ball count.
func OversToBalls(overs float64) int {
	if overs <= 0 || math.IsNaN(overs) || math.IsInf(overs, 0) {
		return 0
	}
	whole := math.Floor(overs)
	part := int(math.Round((overs - whole) * 10))
	return int(whole)*BallsPerOver + part
}

// BallsToOvers converts a ball count to fractional overs (20 balls = 3.333).
func BallsToOvers(balls int) float64 {
	return float64(balls) / BallsPerOver
}

// BattingEntry is one batter's innings.
type BattingEntry struct {
	Name      string
	Role      Role
	Runs      int
	Balls     int
	Fours     int
	Sixes     int
	Dismissal Dismissal
	// Position is the 1-based batting order, fixed at ingestion.
	Position int
}

// StrikeRate is runs per hundred balls; 0 when no balls were faced.
func (b BattingEntry) StrikeRate() float64 {
	if b.Balls == 0 {
		return 0
	}
	return float64(b.Runs) / float64(b.Balls) * 100
}

// BoundaryPercentage is the share of runs scored in fours and sixes, capped at 100.
func (b BattingEntry) BoundaryPercentage() float64 {
	if b.Runs == 0 {
		return 0
	}
	return math.Min(float64(b.Fours*4+b.Sixes*6)/float64(b.Runs)*100, 100)
}

// DidBat reports whether the entry represents an actual innings.
func (b BattingEntry) DidBat() bool {
	if b.Dismissal == DismissalDidNotBat {
		return false
	}
	if b.Balls == 0 && b.Runs == 0 && !b.Dismissal.Out() {
		return false
	}
	return true
}

// DismissedRun is one slot of a bowler's dismissed-batter list.
// Valid is false when the slot carried no usable run count.
type DismissedRun struct {
	Runs  int
	Valid bool
}

// BowlingEntry is one bowler's figures.
type BowlingEntry struct {
	Name          string
	Role          Role
	Overs         float64
	Maidens       int
	RunsConceded  int
	Wickets       int
	Wides         int
	NoBalls       int
	DismissedRuns []DismissedRun
}

// Balls is the number of legal deliveries bowled.
func (b BowlingEntry) Balls() int { return OversToBalls(b.Overs) }

// Economy is runs conceded per over; 0 when nothing was bowled.
func (b BowlingEntry) Economy() float64 {
	balls := b.Balls()
	if balls == 0 {
		return 0
	}
	return float64(b.RunsConceded) / BallsToOvers(balls)
}

// DidBowl reports whether at least one legal ball was bowled.
func (b BowlingEntry) DidBowl() bool { return b.Balls() > 0 }

// FieldingEvent credits a fielder with an event.
type FieldingEvent struct {
	Player string
	Kind   FieldingKind
}

// Innings is one side's innings together with the fielding side's bowling and fielding.
type Innings struct {
	BattingTeam    string
	TotalRuns      int
	TotalWickets   int
	TotalOvers     float64
	Batting        []BattingEntry
	Bowling        []BowlingEntry
	FieldingEvents []FieldingEvent
}

// Balls is the number of legal deliveries in the innings.
func (i Innings) Balls() int {
	return min(OversToBalls(i.TotalOvers), MaxOvers*BallsPerOver)
}

// Match is a complete, validated two-innings scorecard.
type Match struct {
	Team1  string
	Team2  string
	Winner string
	Venue  string
	First  Innings
	Second Innings
}

// CleanName trims a name and collapses internal whitespace.
func CleanName(s string) string { return strings.Join(strings.Fields(s), " ") }

// NameKey is the case-folded form of a name used to join entries of the same player.
func NameKey(s string) string { return strings.ToLower(CleanName(s)) }

// Anomaly records input the engine recovered from instead of rejecting.
type Anomaly struct {
	Kind   string `json:"kind"`
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// Anomaly kinds.
const (
	AnomalyInvalidNumber    = "invalid_number"
	AnomalyNegativeNumber   = "negative_number"
	AnomalyBlankName        = "blank_name"
	AnomalyUnknownRole      = "unknown_role"
	AnomalyUnknownDismissal = "unknown_dismissal"
	AnomalyUnknownFielding  = "unknown_fielding_event"
	AnomalyDismissedRuns    = "dismissed_runs"
	AnomalyMissingTeamName  = "missing_team_name"
	AnomalyUnknownWinner    = "unknown_winner"
	AnomalyRoleConflict     = "role_conflict"
	AnomalyDuplicateEntry   = "duplicate_entry"
	AnomalyOversDefaulted   = "overs_defaulted"
)
