// Package scorecard turns a raw JSON scorecard into a model.Match.
//
// Decoding is two-staged: an embedded JSON Schema rejects documents that are
// structurally unusable, then a lenient pass recovers from bad field values,
// recording each recovery as a model.Anomaly.
package scorecard

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/okian/cricscore/internal/domain/matchctx"
	"github.com/okian/cricscore/internal/domain/model"
)

// maxCount bounds every count field; larger values are treated as invalid.
const maxCount = 10_000

// Default team names used when a scorecard omits them.
const (
	DefaultTeam1 = "Team 1"
	DefaultTeam2 = "Team 2"
)

// Decode validates and converts a scorecard. The error is a *ValidationError
// wrapping ErrInvalidScorecard when the document cannot be rated at all.
func Decode(raw []byte) (model.Match, []model.Anomaly, error) {
	if err := validate(raw); err != nil {
		return model.Match{}, nil, err
	}
	var w wireMatch
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Match{}, nil, &ValidationError{Problems: []string{err.Error()}}
	}
	var c converter
	return c.match(w), c.notes, nil
}

type converter struct {
	notes []model.Anomaly
}

func (c *converter) note(kind, field, format string, args ...any) {
	c.notes = append(c.notes, model.Anomaly{Kind: kind, Field: field, Detail: fmt.Sprintf(format, args...)})
}

func (c *converter) match(w wireMatch) model.Match {
	m := model.Match{
		Team1:  c.teamName(w.Team1, "team1_name", DefaultTeam1),
		Team2:  c.teamName(w.Team2, "team2_name", DefaultTeam2),
		Winner: model.CleanName(w.Winner.value),
		Venue:  model.CleanName(w.Venue.value),
	}
	m.First = c.innings(w.First, "first_innings", m.Team1)
	m.Second = c.innings(w.Second, "second_innings", m.Team2)

	switch key := model.NameKey(m.Winner); key {
	case "", matchctx.TieWinner, model.NameKey(m.Team1), model.NameKey(m.Team2):
	default:
		c.note(model.AnomalyUnknownWinner, "winner", "%q is neither team nor a tie, result read from the scores", m.Winner)
	}
	return m
}

func (c *converter) teamName(t text, field, def string) string {
	if t.scalar {
		c.note(model.AnomalyMissingTeamName, field, "%s is not a name, defaulted to %q", t.value, def)
		return def
	}
	if name := model.CleanName(t.value); name != "" {
		return name
	}
	c.note(model.AnomalyMissingTeamName, field, "defaulted to %q", def)
	return def
}

// playerName returns the cleaned name, or "" when the value is blank or not text.
func playerName(t text) string {
	if t.scalar {
		return ""
	}
	return model.CleanName(t.value)
}

func (c *converter) innings(w wireInnings, field, team string) model.Innings {
	in := model.Innings{
		BattingTeam:  team,
		TotalRuns:    c.count(w.TotalRuns, field+".total_runs"),
		TotalWickets: c.count(w.TotalWickets, field+".total_wickets"),
		TotalOvers:   c.totalOvers(w.TotalOvers, field+".total_overs"),
	}
	if in.TotalWickets > 10 {
		c.note(model.AnomalyInvalidNumber, field+".total_wickets", "%d wickets capped at 10", in.TotalWickets)
		in.TotalWickets = 10
	}

	for i, b := range w.Batting {
		f := fmt.Sprintf("%s.batting[%d]", field, i)
		name := playerName(b.Name)
		if name == "" {
			c.note(model.AnomalyBlankName, f, "row skipped")
			continue
		}
		in.Batting = append(in.Batting, model.BattingEntry{
			Name:      name,
			Role:      c.role(b.Role.value, f),
			Runs:      c.count(b.Runs, f+".runs"),
			Balls:     c.count(b.Balls, f+".balls"),
			Fours:     c.count(b.Fours, f+".fours"),
			Sixes:     c.count(b.Sixes, f+".sixes"),
			Dismissal: c.dismissal(b.Dismissal.value, f),
			Position:  len(in.Batting) + 1,
		})
	}

	for i, b := range w.Bowling {
		f := fmt.Sprintf("%s.bowling[%d]", field, i)
		name := playerName(b.Name)
		if name == "" {
			c.note(model.AnomalyBlankName, f, "row skipped")
			continue
		}
		in.Bowling = append(in.Bowling, model.BowlingEntry{
			Name:          name,
			Role:          c.role(b.Role.value, f),
			Overs:         c.overs(b.Overs, f+".overs"),
			Maidens:       c.count(b.Maidens, f+".maidens"),
			RunsConceded:  c.count(b.RunsConceded, f+".runs_conceded"),
			Wickets:       c.count(b.Wickets, f+".wickets"),
			Wides:         c.count(b.Wides, f+".wides"),
			NoBalls:       c.count(b.NoBalls, f+".no_balls"),
			DismissedRuns: c.dismissedRuns(b.DismissedRuns, f+".dismissed_batsmen_runs"),
		})
	}

	for i, e := range w.FieldingEvents {
		f := fmt.Sprintf("%s.fielding_events[%d]", field, i)
		name := playerName(e.Player)
		if name == "" {
			c.note(model.AnomalyBlankName, f, "event skipped")
			continue
		}
		kind, ok := model.ParseFieldingKind(e.Kind.value)
		if !ok {
			c.note(model.AnomalyUnknownFielding, f, "event type %q skipped", e.Kind.value)
			continue
		}
		in.FieldingEvents = append(in.FieldingEvents, model.FieldingEvent{Player: name, Kind: kind})
	}
	return in
}

// count reads a non-negative whole number; missing is 0.
func (c *converter) count(n number, field string) int {
	v, ok := c.finite(n, field)
	if !ok {
		return 0
	}
	switch {
	case v < 0:
		c.note(model.AnomalyNegativeNumber, field, "%v treated as 0", v)
		return 0
	case v > maxCount:
		c.note(model.AnomalyInvalidNumber, field, "%v above %d treated as 0", v, maxCount)
		return 0
	case v != math.Trunc(v):
		c.note(model.AnomalyInvalidNumber, field, "%v truncated to %d", v, int(v))
	}
	return int(v)
}

// overs reads a bowler's overs; missing is 0.
func (c *converter) overs(n number, field string) float64 {
	v, ok := c.finite(n, field)
	if !ok {
		return 0
	}
	if v < 0 {
		c.note(model.AnomalyNegativeNumber, field, "%v treated as 0", v)
		return 0
	}
	if v > model.MaxOvers {
		c.note(model.AnomalyInvalidNumber, field, "%v capped at %d", v, model.MaxOvers)
		return model.MaxOvers
	}
	return v
}

// totalOvers reads an innings length, defaulting to a full innings.
func (c *converter) totalOvers(n number, field string) float64 {
	if !n.present {
		c.note(model.AnomalyOversDefaulted, field, "missing, defaulted to %d", model.MaxOvers)
		return model.MaxOvers
	}
	v, ok := c.finite(n, field)
	if !ok || v <= 0 {
		c.note(model.AnomalyOversDefaulted, field, "%q defaulted to %d", n.raw, model.MaxOvers)
		return model.MaxOvers
	}
	if v > model.MaxOvers {
		c.note(model.AnomalyInvalidNumber, field, "%v capped at %d", v, model.MaxOvers)
		return model.MaxOvers
	}
	return v
}

func (c *converter) finite(n number, field string) (float64, bool) {
	if !n.present {
		return 0, false
	}
	if n.invalid || math.IsNaN(n.value) || math.IsInf(n.value, 0) {
		c.note(model.AnomalyInvalidNumber, field, "%q treated as 0", n.raw)
		return 0, false
	}
	return n.value, true
}

// role returns the declared role, or "" when blank or unknown so that the
// aggregator falls back to the list's natural role.
func (c *converter) role(s, field string) model.Role {
	if model.CleanName(s) == "" {
		return ""
	}
	r, ok := model.ParseRole(s)
	if !ok {
		c.note(model.AnomalyUnknownRole, field+".role", "%q ignored", s)
		return ""
	}
	return r
}

func (c *converter) dismissal(s, field string) model.Dismissal {
	if model.CleanName(s) == "" {
		return model.DismissalCaught
	}
	d, ok := model.ParseDismissal(s)
	if !ok {
		c.note(model.AnomalyUnknownDismissal, field+".dismissal", "%q treated as caught", s)
		return model.DismissalCaught
	}
	return d
}

func (c *converter) dismissedRuns(list dismissedList, field string) []model.DismissedRun {
	if len(list) == 0 {
		return nil
	}
	out := make([]model.DismissedRun, 0, len(list))
	for i, s := range list {
		v, ok := parseNumber(s)
		if !ok || v < 0 || v > maxCount || v != math.Trunc(v) {
			c.note(model.AnomalyDismissedRuns, fmt.Sprintf("%s[%d]", field, i), "%q carries no quality data", s)
			out = append(out, model.DismissedRun{})
			continue
		}
		out = append(out, model.DismissedRun{Runs: int(v), Valid: true})
	}
	return out
}
