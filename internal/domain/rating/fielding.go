package rating

import "github.com/okian/cricscore/internal/domain/model"

// FieldingPoints is the rating adjustment for each fielding event kind.
var FieldingPoints = map[model.FieldingKind]float64{
	model.FieldingCatch:          1.0,
	model.FieldingDirectRunOut:   1.5,
	model.FieldingAssistedRunOut: 0.75,
	model.FieldingStumping:       1.0,
	model.FieldingDroppedCatch:   -1.5,
	model.FieldingMisfield:       -0.5,
}

// RateFielding scores a player's fielding events; it is always defined.
func RateFielding(events []model.FieldingKind) (float64, model.FieldingDetails) {
	d := model.FieldingDetails{
		Events:    make([]model.FieldingEventScore, 0, len(events)),
		HasEvents: len(events) > 0,
	}
	for _, k := range events {
		pts := FieldingPoints[k]
		d.Adjustment += pts
		d.Events = append(d.Events, model.FieldingEventScore{Type: k, Label: k.Label(), Points: pts})
	}
	d.Adjustment = round2(d.Adjustment)
	d.Total = round1(clamp(baseRating+d.Adjustment, 0, 10))
	return d.Total, d
}
