package lang

import (
	"github.com/ardnew/reshape/cast"
	"github.com/ardnew/reshape/log"
)

// Option configures parsing and compilation.
type Option func(*options)

type options struct {
	logger log.Logger
	casts  cast.Registry
	cache  bool
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCasts makes the casts in r available to documents. Casts declared by a
// document take precedence.
func WithCasts(r cast.Registry) Option {
	return func(o *options) {
		o.casts = r
	}
}

// WithCache enables or disables the compiled transform cache used by [Load].
// The cache is enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) {
		o.cache = enable
	}
}

// applyDefaults sets default option values.
func applyDefaults(o *options) {
	o.cache = true
}

// applyOptions applies functional options.
func applyOptions(o *options, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

func makeOptions(opts ...Option) options {
	var o options

	applyDefaults(&o)
	applyOptions(&o, opts...)

	return o
}
