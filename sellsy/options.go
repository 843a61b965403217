package sellsy

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultAPIURL is the public Sellsy API endpoint
const DefaultAPIURL = "https://apifeed.sellsy.com/0/"

const defaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout     time.Duration
	userAgent   string
	executor    Executor
	tlsPolicy   TLSPolicy
	nowFunc     func() time.Time
	intnFunc    func(n int) int
	limiter     *rate.Limiter
	observer    Observer
	collections CollectionFactory
}

// WithTimeout sets the HTTP timeout of the default executor.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithExecutor replaces the HTTP executor.
func WithExecutor(executor Executor) Option {
	return func(o *clientOptions) {
		o.executor = executor
	}
}

// WithTLSPolicy sets how peer certificates are verified.
func WithTLSPolicy(policy TLSPolicy) Option {
	return func(o *clientOptions) {
		o.tlsPolicy = policy
	}
}

// WithClock fixes the time used for timestamps and nonces.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		o.nowFunc = now
	}
}

// WithRandom sets the jitter source of the nonce, e.g. a seeded rand.Rand's Intn.
func WithRandom(intn func(n int) int) Option {
	return func(o *clientOptions) {
		o.intnFunc = intn
	}
}

// WithRateLimit throttles calls to perSecond with the given burst.
// A non-positive rate disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return WithLimiter(NewRateLimiter(perSecond, burst))
}

// WithLimiter throttles calls with limiter, which may be shared by several
// clients to bound their combined rate. Nil disables throttling.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(o *clientOptions) {
		o.limiter = limiter
	}
}

// NewRateLimiter returns a limiter allowing perSecond calls with the given
// burst, or nil when perSecond is not positive.
func NewRateLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// WithObserver reports every finished call to obs.
func WithObserver(obs Observer) Option {
	return func(o *clientOptions) {
		o.observer = obs
	}
}

// WithCollectionFactory replaces how Client.Collection builds accessors.
func WithCollectionFactory(factory CollectionFactory) Option {
	return func(o *clientOptions) {
		o.collections = factory
	}
}
