package rxlane

import (
	"github.com/AntonStoeckl/timelane-go/rx"
)

// Observable instruments every subscription to source under the lane name.
func Observable[T any](source rx.Observable[T], name string, opts ...Option) rx.Observable[T] {
	o := newOptions(opts)
	if !o.hasSource {
		o.source = captureCallSite()
	}

	l := newLane[T](name, observableShape, o)

	return rx.CreateObservable(l.intercept(source.Subscribe))
}

// Single instruments every subscription to source under the lane name.
// The success value is terminal: it is reported as an output event followed by the completion.
func Single[T any](source rx.Single[T], name string, opts ...Option) rx.Single[T] {
	o := newOptions(opts)
	if !o.hasSource {
		o.source = captureCallSite()
	}

	l := newLane[T](name, singleShape, o)

	return rx.CreateSingle(l.intercept(source.Subscribe))
}

// Maybe instruments every subscription to source under the lane name.
// A success value is reported like the one of a Single; completion without a value only completes.
func Maybe[T any](source rx.Maybe[T], name string, opts ...Option) rx.Maybe[T] {
	o := newOptions(opts)
	if !o.hasSource {
		o.source = captureCallSite()
	}

	l := newLane[T](name, maybeShape, o)

	return rx.CreateMaybe(l.intercept(source.Subscribe))
}

// Completable instruments every subscription to source under the lane name.
func Completable(source rx.Completable, name string, opts ...Option) rx.Completable {
	o := newOptions(opts)
	if !o.hasSource {
		o.source = captureCallSite()
	}

	l := newLane[rx.Void](name, completableShape, o)

	return rx.CreateCompletable(l.intercept(source.Subscribe))
}

// Infallible instruments every subscription to source under the lane name.
func Infallible[T any](source rx.Infallible[T], name string, opts ...Option) rx.Infallible[T] {
	o := newOptions(opts)
	if !o.hasSource {
		o.source = captureCallSite()
	}

	l := newLane[T](name, infallibleShape, o)

	return rx.CreateInfallible(l.intercept(source.Subscribe))
}
