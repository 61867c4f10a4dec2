package rx

// Hooks are side effects attached to a sequence with Do. Every field is optional.
// Events are forwarded to the subscriber unchanged after the matching hook returned.
type Hooks[T any] struct {
	OnSubscribe func()
	OnNext      func(T)
	OnSuccess   func(T)
	OnError     func(error)
	OnCompleted func()

	// OnDispose runs once when the subscription is released: by the subscriber, or right after a
	// stop event was delivered.
	OnDispose func()
}

func (h Hooks[T]) on(e Event[T]) {
	switch e.Kind {
	case KindNext:
		if h.OnNext != nil {
			h.OnNext(e.Value)
		}
	case KindSuccess:
		if h.OnSuccess != nil {
			h.OnSuccess(e.Value)
		}
	case KindError:
		if h.OnError != nil {
			h.OnError(e.Err)
		}
	case KindCompleted:
		if h.OnCompleted != nil {
			h.OnCompleted()
		}
	}
}

func tap[T any](upstream subscribeFunc[T], hooks Hooks[T]) func(Observer[T]) Disposable {
	return func(observer Observer[T]) Disposable {
		if hooks.OnSubscribe != nil {
			hooks.OnSubscribe()
		}

		inner := subscribe(upstream, func(e Event[T]) {
			hooks.on(e)
			observer(e)
		})

		return NewDisposable(func() {
			inner.Dispose()

			if hooks.OnDispose != nil {
				hooks.OnDispose()
			}
		})
	}
}
