package scorecard

import (
	"errors"
	"strings"
)

// ErrInvalidScorecard is returned when a scorecard is structurally unusable.
var ErrInvalidScorecard = errors.New("invalid scorecard")

// ValidationError lists the structural problems found in a scorecard.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidScorecard.Error()
	}
	return ErrInvalidScorecard.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidScorecard }
