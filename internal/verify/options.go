package verify

import "time"

// Defaults for Options.
const (
	DefaultConcurrency  = 8
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRetries   = 1
	DefaultMaxRedirects = 5
	DefaultRetryDelay   = time.Second
	DefaultUserAgent    = "ghlinks-verify/1.0"
)

// Options configures a Verifier.
type Options struct {
	// Concurrency is the number of links checked at once.
	Concurrency int

	// Timeout bounds a single request, redirects included.
	Timeout time.Duration

	// MaxRetries is how often a transient failure (network error, 5xx,
	// 429) is retried.
	MaxRetries int

	// MaxRedirects caps the hops followed to reach the raw content host.
	MaxRedirects int

	// RetryDelay is the first backoff step; it doubles per attempt.
	RetryDelay time.Duration

	UserAgent string
}

// DefaultOptions returns the options used by ghlinks --verify.
func DefaultOptions() Options {
	return Options{
		Concurrency:  DefaultConcurrency,
		Timeout:      DefaultTimeout,
		MaxRetries:   DefaultMaxRetries,
		MaxRedirects: DefaultMaxRedirects,
		RetryDelay:   DefaultRetryDelay,
		UserAgent:    DefaultUserAgent,
	}
}

// WithConcurrency sets the number of workers. Non-positive values are ignored.
func (o Options) WithConcurrency(n int) Options {
	if n > 0 {
		o.Concurrency = n
	}
	return o
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func (o Options) WithTimeout(d time.Duration) Options {
	if d > 0 {
		o.Timeout = d
	}
	return o
}

// WithMaxRetries sets the retry count. Negative values are ignored.
func (o Options) WithMaxRetries(n int) Options {
	if n >= 0 {
		o.MaxRetries = n
	}
	return o
}
