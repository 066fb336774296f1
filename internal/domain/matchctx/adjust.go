package matchctx

// ChasePressureFactor maps a required run rate to a 0-1 pressure multiplier.
func ChasePressureFactor(rrr float64) float64 {
	switch {
	case rrr <= 6:
		return 0
	case rrr <= 8:
		return 0.1 + (rrr-6)*0.05
	case rrr <= 10:
		return 0.2 + (rrr-8)*0.15
	case rrr <= 12:
		return 0.5 + (rrr-10)*0.1
	default:
		return min(1.0, 0.7+(rrr-12)*0.1)
	}
}

// EconomyAdjustment scores a bowler's economy against a reference economy, in [-2.0, 2.5].
func EconomyAdjustment(economy, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	diff := reference - economy // positive: cheaper than the match
	switch {
	case diff >= 5:
		return 2.5
	case diff >= 3:
		return 2.0
	case diff >= 2:
		return 1.5
	case diff >= 1:
		return 1.0
	case diff >= 0:
		return diff * 0.8
	case diff >= -1:
		return diff * 0.5
	case diff >= -2:
		return -0.5 + (diff+1)*0.5
	case diff >= -4:
		return -1.0 + (diff+2)*0.25
	default:
		return max(-2.0, -1.5+(diff+4)*0.1)
	}
}

// StrikeRateAdjustment scores a strike rate against a reference strike rate, in [-1.5, 2.0].
func StrikeRateAdjustment(sr, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	ratio := sr / reference
	switch {
	case ratio >= 1.6:
		return 2.0
	case ratio >= 1.4:
		return 1.5
	case ratio >= 1.2:
		return 1.0
	case ratio >= 1.0:
		return (ratio - 1.0) * 5.0
	case ratio >= 0.8:
		return (ratio - 1.0) * 2.5
	case ratio >= 0.6:
		return -0.5 + (ratio-0.8)*2.5
	default:
		return max(-1.5, -1.0+(ratio-0.6)*2.5)
	}
}
