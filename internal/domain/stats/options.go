package stats

import "github.com/okian/stride/internal/domain/types"

// Option applies a configuration option to the Summarizer.
type Option func(*Summarizer)

// WithPaceBounds sets the open interval of paces treated as valid runs.
// Paces outside it (GPS glitches, walks logged as runs) are ignored.
func WithPaceBounds(minPace, maxPace types.Pace) Option {
	return func(s *Summarizer) {
		if minPace >= 0 && maxPace > minPace {
			s.minPace = minPace
			s.maxPace = maxPace
		}
	}
}
