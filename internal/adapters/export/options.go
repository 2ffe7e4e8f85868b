package export

// Option applies a configuration option to the Exporter.
type Option func(*Exporter)

// WithIDGenerator overrides how plan ids embedded in TCX workouts are made.
func WithIDGenerator(gen func() string) Option {
	return func(e *Exporter) {
		if gen != nil {
			e.newID = gen
		}
	}
}
