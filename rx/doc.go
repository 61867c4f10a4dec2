// Package rx is a small push-based reactive library: the host sequences the timelane lane operator
// wraps.
//
// It models the five sequence shapes the instrumentation understands:
//   - Observable: any number of values, then an error or completion
//   - Single: exactly one success value or an error
//   - Maybe: one success value, completion without a value, or an error
//   - Completable: completion or an error, never a value
//   - Infallible: any number of values, then completion, never an error
//
// Every shape is created through a grammar-enforcing sink. Events that the shape cannot carry are
// dropped, nothing is delivered after the first stop event, and the upstream resource is disposed
// as soon as a stop event was delivered. Disposal hooks registered with Do therefore run on every
// termination path, including natural completion.
//
// Usage:
//
//	values := rx.From(1, 2, 3).Do(rx.Hooks[int]{
//		OnNext: func(v int) { fmt.Println("saw", v) },
//	})
//
//	disposable := values.Subscribe(func(e rx.Event[int]) {
//		switch e.Kind {
//		case rx.KindNext:
//			fmt.Println(e.Value)
//		case rx.KindCompleted:
//			fmt.Println("done")
//		}
//	})
//	defer disposable.Dispose()
package rx
