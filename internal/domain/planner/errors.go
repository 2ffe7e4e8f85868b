package planner

import "errors"

// Sentinel kinds for plan generation errors.
var (
	ErrInvalidWeeks    = errors.New("invalid plan length")
	ErrMissingRaceDate = errors.New("race date is required")
)
