package rxlane

import (
	"context"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

// Option defines a functional option for configuring a lane.
type Option func(*options)

type options struct {
	filter           timelane.Filter
	source           string
	hasSource        bool
	transform        any
	sink             timelane.Sink
	registry         *timelane.Registry
	logger           timelane.Logger
	contextualLogger timelane.ContextualLogger
	loggerCtx        context.Context
	onFault          func(error)
}

func newOptions(opts []Option) *options {
	o := &options{
		filter:    timelane.FilterAll,
		registry:  timelane.DefaultRegistry(),
		loggerCtx: context.Background(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithFilter selects the reported axes. The default is timelane.FilterAll.
func WithFilter(filter timelane.Filter) Option {
	return func(o *options) {
		o.filter = filter
	}
}

// WithSource replaces the captured call site.
func WithSource(source string) Option {
	return func(o *options) {
		o.source = source
		o.hasSource = true
	}
}

// WithTransform replaces the default value formatter. The transform's element type must match the
// lane's; a mismatching transform is ignored and reported as a warning to the configured loggers.
func WithTransform[T any](transform func(T) string) Option {
	return func(o *options) {
		if transform != nil {
			o.transform = transform
		}
	}
}

// WithSink binds a sink. Without it each subscription uses the registry's default sink
// as it is at subscribe time.
func WithSink(sink timelane.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithRegistry takes ids, the default sink and the version marker from registry.
func WithRegistry(registry *timelane.Registry) Option {
	return func(o *options) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// WithLogger sets a logger for diagnostics: sink and transform faults, ignored transforms.
func WithLogger(logger timelane.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithContextualLogger sets a context-aware logger for diagnostics; ctx is passed to every call.
func WithContextualLogger(ctx context.Context, logger timelane.ContextualLogger) Option {
	return func(o *options) {
		o.contextualLogger = logger
		if ctx != nil {
			o.loggerCtx = ctx
		}
	}
}

// WithFaultHandler receives every *timelane.SinkPanicError and *TransformPanicError in addition
// to the loggers.
func WithFaultHandler(handler func(error)) Option {
	return func(o *options) {
		o.onFault = handler
	}
}
