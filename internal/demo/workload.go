package demo

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/AntonStoeckl/timelane-go/rx"
	"github.com/AntonStoeckl/timelane-go/timelane"
	"github.com/AntonStoeckl/timelane-go/timelane/rxlane"
)

// Lane names of the demo workload.
const (
	LaneNumbers   = "numbers"
	LaneFetch     = "fetch"
	LaneLookup    = "lookup"
	LaneFlush     = "flush"
	LaneHeartbeat = "heartbeat"
	LaneTicks     = "ticks"
)

const defaultTickInterval = 10 * time.Millisecond

var errUpstreamUnavailable = errors.New("upstream unavailable")

// WorkloadOptions configures RunWorkload. Filter is passed as is, so the zero value reports nothing.
type WorkloadOptions struct {
	Values   int
	Interval time.Duration
	Filter   timelane.Filter
	Source   string
	Registry *timelane.Registry
	Logger   timelane.Logger
	Faults   func(error)
}

// RunWorkload subscribes one lane of every shape to sink:
//   - numbers completes after Values values
//   - fetch fails
//   - lookup completes empty
//   - flush completes without values
//   - heartbeat emits two values and completes
//   - ticks is fed from another goroutine every Interval and disposed halfway, so it ends cancelled
//
// It returns when every lane terminated or ctx is done.
func RunWorkload(ctx context.Context, sink timelane.Sink, opts WorkloadOptions) error {
	laneOptions := func(extra ...rxlane.Option) []rxlane.Option {
		options := []rxlane.Option{
			rxlane.WithSink(sink),
			rxlane.WithFilter(opts.Filter),
			rxlane.WithRegistry(opts.Registry),
			rxlane.WithLogger(opts.Logger),
			rxlane.WithFaultHandler(opts.Faults),
		}

		if opts.Source != "" {
			options = append(options, rxlane.WithSource(opts.Source))
		}

		return append(options, extra...)
	}

	values := make([]int, 0, max(opts.Values, 0))
	for i := 1; i <= opts.Values; i++ {
		values = append(values, i)
	}

	rxlane.Observable(rx.From(values...), LaneNumbers,
		laneOptions(rxlane.WithTransform(func(v int) string { return "#" + strconv.Itoa(v) }))...,
	).Subscribe(nil)

	rxlane.Single(rx.FailSingle[string](errUpstreamUnavailable), LaneFetch, laneOptions()...).Subscribe(nil)

	rxlane.Maybe(rx.EmptyMaybe[string](), LaneLookup, laneOptions()...).Subscribe(nil)

	rxlane.Completable(rx.Complete(), LaneFlush, laneOptions()...).Subscribe(nil)

	rxlane.Infallible(rx.FromInfallible("ok", "ok"), LaneHeartbeat, laneOptions()...).Subscribe(nil)

	var wg sync.WaitGroup
	wg.Add(1)

	tickErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		tickErr <- runTicks(ctx, opts, laneOptions())
	}()

	wg.Wait()

	return <-tickErr
}

func runTicks(ctx context.Context, opts WorkloadOptions, laneOptions []rxlane.Option) error {
	subject := rx.NewPublishSubject[time.Time]()
	subscription := rxlane.Observable(subject.Observable(), LaneTicks,
		append(laneOptions, rxlane.WithTransform(func(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }))...,
	).Subscribe(nil)
	defer subscription.Dispose()

	interval := opts.Interval
	if interval <= 0 {
		interval = defaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for emitted := 0; emitted < opts.Values/2+1; emitted++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			subject.Next(t)
		}
	}

	return nil
}
