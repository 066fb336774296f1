package rating

import (
	"math"

	"github.com/okian/cricscore/internal/domain/model"
)

// SelectMVP picks the highest overall rating. Ties go to the higher bowling rating,
// then the higher batting rating (a missing component ranks below any value), then
// to whoever comes first in players. It returns nil for an empty slice.
func SelectMVP(players []model.PlayerRating) *model.PlayerRating {
	var best *model.PlayerRating
	for i := range players {
		p := &players[i]
		if best == nil || better(p, best) {
			best = p
		}
	}
	return best
}

func better(a, b *model.PlayerRating) bool {
	if a.OverallRating != b.OverallRating {
		return a.OverallRating > b.OverallRating
	}
	if ab, bb := orNegInf(a.BowlingRating), orNegInf(b.BowlingRating); ab != bb {
		return ab > bb
	}
	return orNegInf(a.BattingRating) > orNegInf(b.BattingRating)
}

func orNegInf(v *float64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return *v
}
