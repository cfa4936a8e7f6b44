package zepstream

import (
	"log/slog"
	"time"
)

type config struct {
	role          Role
	cache         *Cache
	dedup         bool
	skipOnError   bool
	commitTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		role:        RoleAssistant,
		dedup:       true,
		skipOnError: true,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case !cfg.dedup:
		cfg.cache = nil
	case cfg.cache == nil:
		cfg.cache = DefaultCache()
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	return cfg
}

// WithCache sets the cache used to suppress duplicate writes.
//
// If not specified, the process-wide cache returned by DefaultCache is used.
func WithCache(cache *Cache) Option {
	return func(cfg *config) {
		cfg.cache = cache
	}
}

// WithoutDeduplication commits every non-empty message without consulting
// any cache.
func WithoutDeduplication() Option {
	return func(cfg *config) {
		cfg.dedup = false
	}
}

// WithSkipOnError controls what happens when the store fails to record the
// message. When true (the default), the error is logged and the stream ends
// normally. When false, the error is returned where the stream is finalized.
func WithSkipOnError(skip bool) Option {
	return func(cfg *config) {
		cfg.skipOnError = skip
	}
}

// WithRole sets the role of the committed message. Defaults to RoleAssistant.
func WithRole(role Role) Option {
	return func(cfg *config) {
		cfg.role = role
	}
}

// WithCommitTimeout bounds the duration of the store call made when the
// stream is finalized. The call is not bound to the stream context, so it
// still runs after the stream was cancelled.
func WithCommitTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		cfg.commitTimeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithClock replaces the function used to timestamp committed messages.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		cfg.now = now
	}
}
