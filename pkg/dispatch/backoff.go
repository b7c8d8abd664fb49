package dispatch

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy computes the delay before a retry attempt. Implementations
// must be safe for concurrent use. Attempt starts at 1 for the first retry.
type BackoffStrategy interface {
	NextInterval(attempt int) time.Duration
}

// ExponentialBackoff grows the delay geometrically with optional jitter.
// Jitter spreads retries out so failing providers are not hit by a
// synchronized wave of them.
type ExponentialBackoff struct {
	// Base is the delay before the first retry. Defaults to one second.
	Base time.Duration
	// Max caps the computed delay. Defaults to 30 seconds.
	Max time.Duration
	// Multiplier is the growth factor per attempt. Defaults to 2.
	Multiplier float64
	// Jitter randomizes the delay by ±Jitter (0 to 1). Zero means
	// deterministic delays.
	Jitter float64
}

// NextInterval returns min(Base * Multiplier^(attempt-1) * (1 ± Jitter), Max).
func (e ExponentialBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	base := e.Base
	if base <= 0 {
		base = time.Second
	}
	ceiling := e.Max
	if ceiling <= 0 {
		ceiling = 30 * time.Second
	}
	mult := e.Multiplier
	if mult <= 0 {
		mult = 2
	}

	d := float64(base) * math.Pow(mult, float64(attempt-1))
	if e.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*e.Jitter
	}
	if d > float64(ceiling) {
		d = float64(ceiling)
	}
	return time.Duration(d)
}

// FixedBackoff waits the same interval before every retry. Useful in tests
// where deterministic, short delays matter more than herd protection.
type FixedBackoff struct {
	Interval time.Duration
}

func (f FixedBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Interval
}

// DefaultBackoff returns the retry strategy used when none is configured:
// exponential from one second, capped at 30 seconds, with 10% jitter.
func DefaultBackoff() BackoffStrategy {
	return ExponentialBackoff{
		Base:       time.Second,
		Max:        30 * time.Second,
		Multiplier: 2,
		Jitter:     0.1,
	}
}
