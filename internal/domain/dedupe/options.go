package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of sessions to keep in memory.
// If maxSize > 0: bounded mode, the oldest recorded session is evicted first.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}

// WithDistanceTolerance sets how far apart (km) two sessions starting in the
// same minute may be and still count as one. Negative values are ignored.
func WithDistanceTolerance(km float64) Option {
	return func(d *inMemoryDeduper) {
		if km >= 0 {
			d.toleranceKM = km
		}
	}
}
