package client

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"liveosc/middleware"
)

// DefaultTimeout bounds a Query when no explicit deadline is given. Live
// answers on the order of milliseconds when present; a few seconds absorbs a
// busy UI thread without parking callers forever.
const DefaultTimeout = 5 * time.Second

// defaultBacklog is the notification queue capacity between the listener
// loop and the dispatch goroutine.
const defaultBacklog = 256

type options struct {
	timeout     time.Duration
	logger      *zap.Logger
	limiter     *rate.Limiter
	middlewares []middleware.Middleware
	backlog     int
}

// Option customizes a Client at Dial time.
type Option func(*options)

func applyOptions(opts ...Option) *options {
	o := &options{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
		backlog: defaultBacklog,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTimeout sets the default Query deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRateLimit paces all outgoing datagrams (sends and query requests) to
// perSecond messages with the given burst. Live's remote script handles
// messages on its UI thread, so unpaced bulk edits can make it unresponsive.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) { o.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithMiddleware wraps the Query path with the given middleware, outermost
// first.
func WithMiddleware(middlewares ...middleware.Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, middlewares...) }
}

// WithNotificationBacklog sets the subscription queue capacity. When the
// backlog is full the listener loop drops the notification rather than
// block.
func WithNotificationBacklog(n int) Option {
	return func(o *options) { o.backlog = n }
}
