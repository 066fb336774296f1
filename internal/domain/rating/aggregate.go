package rating

import (
	"fmt"

	"github.com/okian/cricscore/internal/domain/matchctx"
	"github.com/okian/cricscore/internal/domain/model"
)

// player collects one player's entries across the match.
type player struct {
	name     string
	role     model.Role
	batting  *model.BattingEntry
	bowling  *model.BowlingEntry
	fielding []model.FieldingKind
	sit      BattingSituation
}

// roster keeps players of one team in first-seen order.
type roster struct {
	team    string
	players []*player
	byKey   map[string]*player
	notes   []model.Anomaly
}

func newRoster(team string) *roster {
	return &roster{team: team, byKey: make(map[string]*player)}
}

// get returns the player for name, creating it with fallback as the role when undeclared.
func (r *roster) get(name string, declared, fallback model.Role, field string) *player {
	key := model.NameKey(name)
	p, ok := r.byKey[key]
	if !ok {
		role := declared
		if role == "" {
			role = fallback
		}
		p = &player{name: model.CleanName(name), role: role}
		r.byKey[key] = p
		r.players = append(r.players, p)
		return p
	}
	if declared != "" && declared != p.role {
		r.notes = append(r.notes, model.Anomaly{
			Kind:   model.AnomalyRoleConflict,
			Field:  field,
			Detail: fmt.Sprintf("%s declared %s, keeping %s", p.name, declared, p.role),
		})
	}
	return p
}

// AggregateTeam assembles a team from its batting innings and the innings it fielded in,
// rating every player. Players are ordered by batting order, then bowling order, then
// fielding-only players in event order.
func AggregateTeam(name string, side matchctx.Side, batted, fielded model.Innings, mc matchctx.Context) (model.TeamRating, []model.Anomaly) {
	r := newRoster(name)
	won := mc.Won(side)
	prefix := inningsField(side)
	fieldedPrefix := inningsField(opposite(side))

	var runsBefore, ballsBefore int
	for i := range batted.Batting {
		e := batted.Batting[i]
		field := fmt.Sprintf("%s.batting[%d]", prefix, i)
		p := r.get(e.Name, e.Role, model.RoleBatter, field)
		if p.batting != nil {
			r.notes = append(r.notes, duplicate(field, p.name))
			continue
		}
		p.batting = &e
		p.sit = BattingSituation{Side: side, Won: won, RunsBefore: runsBefore, BallsBefore: ballsBefore}
		if e.DidBat() {
			runsBefore += e.Runs
			ballsBefore += e.Balls
		}
	}

	for i := range fielded.Bowling {
		e := fielded.Bowling[i]
		field := fmt.Sprintf("%s.bowling[%d]", fieldedPrefix, i)
		p := r.get(e.Name, e.Role, model.RoleBowler, field)
		if p.bowling != nil {
			r.notes = append(r.notes, duplicate(field, p.name))
			continue
		}
		p.bowling = &e
	}

	for i, ev := range fielded.FieldingEvents {
		field := fmt.Sprintf("%s.fielding_events[%d]", fieldedPrefix, i)
		p := r.get(ev.Player, "", model.RoleBatter, field)
		p.fielding = append(p.fielding, ev.Kind)
	}

	team := model.TeamRating{Name: name, Players: make([]model.PlayerRating, 0, len(r.players))}
	for _, p := range r.players {
		team.Players = append(team.Players, ratePlayer(p, name, won, mc))
	}
	return team, r.notes
}

func ratePlayer(p *player, team string, won bool, mc matchctx.Context) model.PlayerRating {
	pr := model.PlayerRating{
		Name:           p.name,
		Team:           team,
		Role:           p.role,
		BattingDetails: model.BattingDetails{Note: NoteDidNotBat},
		BowlingDetails: model.BowlingDetails{Note: NoteDidNotBowl},
	}
	c := Contribution{Role: p.role}

	if p.batting != nil {
		pr.BattingRating, pr.BattingDetails = RateBatting(*p.batting, p.sit, mc)
		pr.DidBat = pr.BattingRating != nil
		if pr.DidBat {
			c.BallsFaced = p.batting.Balls
		}
	}
	if p.bowling != nil {
		pr.BowlingRating, pr.BowlingDetails = RateBowling(*p.bowling, won, mc)
		pr.DidBowl = pr.BowlingRating != nil
		c.BallsBowled = p.bowling.Balls()
	}
	pr.FieldingRating, pr.FieldingDetails = RateFielding(p.fielding)
	pr.OverallRating, pr.Weights = Combine(c, pr.BattingRating, pr.BowlingRating, pr.FieldingRating)
	return pr
}

func duplicate(field, name string) model.Anomaly {
	return model.Anomaly{
		Kind:   model.AnomalyDuplicateEntry,
		Field:  field,
		Detail: fmt.Sprintf("second entry for %s ignored", name),
	}
}

func inningsField(s matchctx.Side) string {
	if s == matchctx.SecondInnings {
		return "second_innings"
	}
	return "first_innings"
}

func opposite(s matchctx.Side) matchctx.Side {
	if s == matchctx.SecondInnings {
		return matchctx.FirstInnings
	}
	return matchctx.SecondInnings
}
