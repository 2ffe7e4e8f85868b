package repository

import "errors"

// Sentinel kinds for activity store errors.
var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrZeroDate     = errors.New("activity has no date")
)
