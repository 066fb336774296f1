package rating

import "github.com/okian/cricscore/internal/domain/model"

// minBallsForContribution is the six-ball floor that decides whether a secondary skill counts.
const minBallsForContribution = 6

// baseWeights are the batting/bowling/fielding weights by declared role.
var baseWeights = map[model.Role]model.Weights{
	model.RoleBatter:            {Batting: 0.80, Bowling: 0.05, Fielding: 0.15},
	model.RoleBowler:            {Batting: 0.05, Bowling: 0.80, Fielding: 0.15},
	model.RoleBattingAllRounder: {Batting: 0.55, Bowling: 0.30, Fielding: 0.15},
	model.RoleBowlingAllRounder: {Batting: 0.30, Bowling: 0.55, Fielding: 0.15},
	model.RoleWicketKeeper:      {Batting: 0.75, Bowling: 0, Fielding: 0.25},
}

// Contribution is what a player actually did, as seen by the combiner.
type Contribution struct {
	Role        model.Role
	BallsFaced  int
	BallsBowled int
}

// RoleWeights returns the role's weights after redistribution, before applicability.
func RoleWeights(c Contribution) model.Weights {
	w, ok := baseWeights[c.Role]
	if !ok {
		w = baseWeights[model.RoleBatter]
	}
	switch c.Role {
	case model.RoleBowler:
		if c.BallsFaced < minBallsForContribution {
			// The batting share moves to bowling and fielding in proportion.
			rest := w.Bowling + w.Fielding
			return model.Weights{
				Bowling:  w.Bowling + w.Batting*w.Bowling/rest,
				Fielding: w.Fielding + w.Batting*w.Fielding/rest,
			}
		}
		return model.Weights{Batting: 0.20, Bowling: 0.65, Fielding: 0.15}
	case model.RoleBatter, model.RoleWicketKeeper:
		if c.BallsBowled >= minBallsForContribution {
			return model.Weights{Batting: 0.75, Bowling: 0.15, Fielding: 0.10}
		}
	}
	return w
}

// Combine computes the overall rating over the applicable components.
// Batting and bowling apply only when non-nil; fielding always applies.
// The returned weights are the normalised weights actually used.
func Combine(c Contribution, batting, bowling *float64, fielding float64) (float64, model.Weights) {
	w := RoleWeights(c)
	if batting == nil {
		w.Batting = 0
	}
	if bowling == nil {
		w.Bowling = 0
	}
	sum := w.Batting + w.Bowling + w.Fielding
	if sum <= 0 {
		return round1(clamp(fielding, 0, 10)), model.Weights{Fielding: 1}
	}
	w = model.Weights{Batting: w.Batting / sum, Bowling: w.Bowling / sum, Fielding: w.Fielding / sum}

	overall := w.Fielding * fielding
	if batting != nil {
		overall += w.Batting * *batting
	}
	if bowling != nil {
		overall += w.Bowling * *bowling
	}
	return round1(clamp(overall, 0, 10)), w
}
