package dedupe

// Option configures the deduper.
type Option func(*matchDeduper)

// WithMaxSize bounds the number of remembered ids; zero or less is unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *matchDeduper) {
		d.maxSize = maxSize
	}
}
