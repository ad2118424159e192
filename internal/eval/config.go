package eval

import "time"

// Config bounds an evaluation run. Defaults follow the teacher's
// detector.DefaultOptions() pattern: generous enough for real magic files,
// tight enough to guarantee termination on adversarial input.
type Config struct {
	// MaxRecursionDepth bounds how many nested "use" links may be followed
	// before a rule is abandoned as a LimitExceeded diagnostic instead of
	// evaluated.
	MaxRecursionDepth int

	// KeepGoing evaluates every top-level rule instead of stopping at the
	// first one that matches, mirroring file(1)'s -k flag.
	KeepGoing bool

	// Timeout bounds total wall-clock time spent in Evaluate. Zero means
	// unbounded.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRecursionDepth: 20,
		KeepGoing:         false,
		Timeout:           0,
	}
}
