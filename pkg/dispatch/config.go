package dispatch

import (
	"time"

	"github.com/dmitrymomot/notifykit/pkg/queue"
)

// Config holds dispatcher tuning knobs, loadable from the environment via
// pkg/config. The zero value is normalized by New to the documented defaults.
type Config struct {
	// Workers is the number of concurrent delivery workers.
	Workers int `env:"DISPATCH_WORKERS" envDefault:"4"`

	// BucketCapacity is the per-priority-bucket queue capacity.
	BucketCapacity int `env:"DISPATCH_BUCKET_CAPACITY" envDefault:"1024"`

	// OverflowPolicy decides what Enqueue does when a bucket is full:
	// reject, block or evict_lowest.
	OverflowPolicy queue.OverflowPolicy `env:"DISPATCH_OVERFLOW_POLICY" envDefault:"reject"`

	// BlockTimeout bounds how long the block overflow policy waits for space.
	BlockTimeout time.Duration `env:"DISPATCH_BLOCK_TIMEOUT" envDefault:"5s"`

	// SendTimeout bounds a single provider Send call.
	SendTimeout time.Duration `env:"DISPATCH_SEND_TIMEOUT" envDefault:"30s"`

	// MaxAttempts is the total number of delivery attempts per logical
	// message, the original send included. 1 disables retries.
	MaxAttempts int `env:"DISPATCH_MAX_ATTEMPTS" envDefault:"3"`

	// RetryBase is the base delay of the default exponential retry backoff.
	RetryBase time.Duration `env:"DISPATCH_RETRY_BASE" envDefault:"1s"`
}

// normalize fills zero or nonsense values with defaults so a partially
// populated Config is always usable.
func (c Config) normalize() Config {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.BucketCapacity <= 0 {
		c.BucketCapacity = queue.DefaultCapacity
	}
	if !c.OverflowPolicy.Valid() {
		c.OverflowPolicy = queue.PolicyReject
	}
	if c.BlockTimeout <= 0 {
		c.BlockTimeout = 5 * time.Second
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 30 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBase <= 0 {
		c.RetryBase = time.Second
	}
	return c
}
