package rx

// Observable is a sequence of any number of values terminated by an error or completion.
// The zero value never emits.
type Observable[T any] struct {
	subscribe subscribeFunc[T]
}

// CreateObservable builds an Observable from producer. The producer is called once per subscription
// with an observer that enforces the Observable grammar; the Disposable it returns is disposed when
// the subscriber disposes or the sequence terminates.
func CreateObservable[T any](producer func(Observer[T]) Disposable) Observable[T] {
	return Observable[T]{subscribe: guarded(producer, observableGrammar)}
}

// Subscribe starts a new subscription delivering events to observer.
func (o Observable[T]) Subscribe(observer Observer[T]) Disposable {
	return subscribe(o.subscribe, observer)
}

// Just emits value and completes.
func Just[T any](value T) Observable[T] {
	return From(value)
}

// From emits values in order and completes.
func From[T any](values ...T) Observable[T] {
	return CreateObservable(func(observer Observer[T]) Disposable {
		for _, v := range values {
			observer.Next(v)
		}
		observer.Complete()

		return Nop()
	})
}

// Empty completes immediately.
func Empty[T any]() Observable[T] {
	return CreateObservable(func(observer Observer[T]) Disposable {
		observer.Complete()
		return Nop()
	})
}

// Fail terminates immediately with err.
func Fail[T any](err error) Observable[T] {
	return CreateObservable(func(observer Observer[T]) Disposable {
		observer.Fail(err)
		return Nop()
	})
}

// Never neither emits nor terminates.
func Never[T any]() Observable[T] {
	return CreateObservable(func(Observer[T]) Disposable {
		return Nop()
	})
}

// Concat emits the values of o and then, when o completes, those of next.
func (o Observable[T]) Concat(next Observable[T]) Observable[T] {
	return CreateObservable(func(observer Observer[T]) Disposable {
		group := NewComposite()
		group.Add(o.Subscribe(func(e Event[T]) {
			if e.Kind != KindCompleted {
				observer(e)
				return
			}

			group.Add(next.Subscribe(observer))
		}))

		return group
	})
}

// Do attaches side-effect hooks; see Hooks.
func (o Observable[T]) Do(hooks Hooks[T]) Observable[T] {
	return CreateObservable(tap(o.subscribe, hooks))
}

// AsInfallible converts o into an Infallible. An upstream error is handed to onError, when set,
// and ends the sequence with completion.
func (o Observable[T]) AsInfallible(onError func(error)) Infallible[T] {
	return CreateInfallible(func(observer Observer[T]) Disposable {
		return o.Subscribe(func(e Event[T]) {
			if e.Kind == KindError {
				if onError != nil {
					onError(e.Err)
				}
				observer.Complete()

				return
			}

			observer(e)
		})
	})
}
