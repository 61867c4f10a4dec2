// Package rxlane provides the lane operator: it wraps an rx sequence so that every subscription to it
// is recorded on a timelane lane, without changing what the subscriber receives.
//
// For each subscription the operator reports, subject to the configured filter:
//   - begin, when the subscription starts (subscription axis)
//   - an output event per value (event axis)
//   - exactly one terminal outcome: completed, error or cancelled. The end record belongs to the
//     subscription axis, the matching Completed, Error or Cancelled event to the event axis.
//
// Disposal after completion or error reports nothing; disposal before it reports the cancellation.
// Single and Maybe treat their success value as terminal: output event, end, completion event.
//
// Sink and transform panics never reach the subscriber. They are logged at warn level to the
// configured loggers and handed to the fault handler; a value whose transform panicked is not
// reported.
//
// Usage:
//
//	numbers := rxlane.Observable(rx.From(1, 2, 3), "numbers",
//		rxlane.WithFilter(timelane.FilterEvent),
//		rxlane.WithTransform(func(v int) string { return fmt.Sprintf("#%d", v) }),
//	)
//	numbers.Subscribe(func(e rx.Event[int]) { ... })
package rxlane
