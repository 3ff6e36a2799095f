package normalizer

import "time"

// Clock supplies the reference instant relative phrases are resolved against.
type Clock interface {
	Now() time.Time
}

// FixedClock always returns the same instant, which keeps normalization deterministic.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
