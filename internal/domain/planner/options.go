package planner

// Option applies a configuration option to the Planner.
type Option func(*Planner)

// WithMinHistory sets how many valid runs a summary needs before the plan is
// computed from it instead of the beginner template.
func WithMinHistory(n int) Option {
	return func(p *Planner) {
		if n >= 0 {
			p.minHistory = n
		}
	}
}

// WithPeakLongRun sets the longest long run (km) of the build phase.
func WithPeakLongRun(km float64) Option {
	return func(p *Planner) {
		if km >= minStartLongRun {
			p.peakLongRun = km
		}
	}
}

// WithRaceDistance overrides the race-day distance (km).
func WithRaceDistance(km float64) Option {
	return func(p *Planner) {
		if km > 0 {
			p.raceDistance = km
		}
	}
}
