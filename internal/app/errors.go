package service

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrNoInput = errors.New("no activity files given")
	ErrNoPlan  = errors.New("no plan generated")
)
