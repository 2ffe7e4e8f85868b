package activity

import "time"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLocation sets the time zone of naive timestamps (CSV startTimeLocal).
func WithLocation(loc *time.Location) Option {
	return func(l *Loader) {
		if loc != nil {
			l.loc = loc
		}
	}
}
