package activity

import "errors"

// Sentinel kinds for loader errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported activity file format")
	ErrMissingColumn     = errors.New("required column missing")
	ErrMalformedRow      = errors.New("malformed row")
	ErrNoActivities      = errors.New("no activities in file")
)
