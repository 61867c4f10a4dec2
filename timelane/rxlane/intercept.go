package rxlane

import (
	"github.com/AntonStoeckl/timelane-go/rx"
	"github.com/AntonStoeckl/timelane-go/timelane"
)

// shape describes which signals a sequence can carry.
type shape struct {
	name            string
	multiValue      bool
	canFail         bool
	successTerminal bool
}

var (
	observableShape  = shape{name: "Observable", multiValue: true, canFail: true}
	singleShape      = shape{name: "Single", canFail: true, successTerminal: true}
	maybeShape       = shape{name: "Maybe", canFail: true, successTerminal: true}
	completableShape = shape{name: "Completable", canFail: true}
	infallibleShape  = shape{name: "Infallible", multiValue: true}
)

// lane is one application of the operator: everything that stays constant across subscriptions.
type lane[T any] struct {
	name      string
	shape     shape
	opts      *options
	source    string
	transform func(T) string
}

func newLane[T any](name string, s shape, opts *options) *lane[T] {
	l := &lane[T]{
		name:      name,
		shape:     s,
		opts:      opts,
		source:    opts.source,
		transform: timelane.DefaultTransform[T](),
	}

	if opts.transform != nil {
		if transform, ok := opts.transform.(func(T) string); ok {
			l.transform = transform
		} else {
			l.warnTransformMismatch()
		}
	}

	return l
}

// intercept wraps the subscribe primitive of the upstream sequence.
// Every subscription gets its own timelane.Subscription and guard; events reach the downstream
// observer unchanged after they were reported.
func (l *lane[T]) intercept(upstream func(rx.Observer[T]) rx.Disposable) func(rx.Observer[T]) rx.Disposable {
	return func(downstream rx.Observer[T]) rx.Disposable {
		sub := timelane.NewSubscription(l.name, l.opts.sink,
			timelane.WithRegistry(l.opts.registry),
			timelane.WithFaultHandler(l.sinkFault),
		)
		g := &guard{}

		if l.opts.filter.Has(timelane.FilterSubscription) {
			sub.Begin(l.source)
		}

		inner := upstream(func(e rx.Event[T]) {
			l.observe(sub, g, e)
			downstream(e)
		})

		return rx.NewDisposable(func() {
			l.cancel(sub, g)
			inner.Dispose()
		})
	}
}

func (l *lane[T]) observe(sub *timelane.Subscription, g *guard, e rx.Event[T]) {
	switch e.Kind {
	case rx.KindNext:
		if !l.shape.multiValue {
			return
		}

		g.whilePending(func() {
			l.reportValue(sub, e.Value)
		})

	case rx.KindSuccess:
		if !l.shape.successTerminal {
			return
		}

		g.fire(timelane.Completed(), func() {
			l.reportValue(sub, e.Value)
			l.reportEnd(sub, timelane.Completed(), timelane.Completion())
		})

	case rx.KindError:
		if !l.shape.canFail {
			return
		}

		description := describe(e.Err)
		state := timelane.Errored(description)
		g.fire(state, func() {
			l.reportEnd(sub, state, timelane.Failure(description))
		})

	case rx.KindCompleted:
		g.fire(timelane.Completed(), func() {
			l.reportEnd(sub, timelane.Completed(), timelane.Completion())
		})
	}
}

func (l *lane[T]) cancel(sub *timelane.Subscription, g *guard) {
	g.fire(timelane.Cancelled(), func() {
		l.reportEnd(sub, timelane.Cancelled(), timelane.Cancellation())
	})
}

func (l *lane[T]) reportValue(sub *timelane.Subscription, value T) {
	if !l.opts.filter.Has(timelane.FilterEvent) {
		return
	}

	text, ok := l.format(sub, value)
	if !ok {
		return
	}

	sub.Event(timelane.Value(text), l.source)
}

func (l *lane[T]) reportEnd(sub *timelane.Subscription, state timelane.EndState, event timelane.EventValue) {
	if l.opts.filter.Has(timelane.FilterSubscription) {
		sub.End(state)
	}

	if l.opts.filter.Has(timelane.FilterEvent) {
		sub.Event(event, l.source)
	}
}

// format applies the transform. A panicking transform drops the value event.
func (l *lane[T]) format(sub *timelane.Subscription, value T) (text string, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			l.transformFault(newTransformPanicError(l.name, sub.ID(), v))
			text, ok = "", false
		}
	}()

	return l.transform(value), true
}

func describe(err error) string {
	if err == nil {
		return "<nil>"
	}

	return err.Error()
}
