// Package rating turns a scorecard into per-player 0-10 ratings.
package rating

import "math"

const (
	baseRating = 5.0
	winBonus   = 0.3
)

type point struct{ x, y float64 }

// interpolate evaluates a piecewise-linear curve; beyond the last point it stays flat.
func interpolate(curve []point, x float64) float64 {
	if x <= curve[0].x {
		return curve[0].y
	}
	for i := 1; i < len(curve); i++ {
		if x <= curve[i].x {
			prev := curve[i-1]
			frac := (x - prev.x) / (curve[i].x - prev.x)
			return prev.y + frac*(curve[i].y-prev.y)
		}
	}
	return curve[len(curve)-1].y
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
