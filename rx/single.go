package rx

// Single delivers exactly one success value or an error.
type Single[T any] struct {
	subscribe subscribeFunc[T]
}

// CreateSingle builds a Single from producer. Only KindSuccess and KindError reach the subscriber.
func CreateSingle[T any](producer func(Observer[T]) Disposable) Single[T] {
	return Single[T]{subscribe: guarded(producer, singleGrammar)}
}

// Subscribe starts a new subscription delivering events to observer.
func (s Single[T]) Subscribe(observer Observer[T]) Disposable {
	return subscribe(s.subscribe, observer)
}

// JustSingle succeeds with value.
func JustSingle[T any](value T) Single[T] {
	return CreateSingle(func(observer Observer[T]) Disposable {
		observer.Success(value)
		return Nop()
	})
}

// FailSingle fails with err.
func FailSingle[T any](err error) Single[T] {
	return CreateSingle(func(observer Observer[T]) Disposable {
		observer.Fail(err)
		return Nop()
	})
}

// NeverSingle never terminates.
func NeverSingle[T any]() Single[T] {
	return CreateSingle(func(Observer[T]) Disposable {
		return Nop()
	})
}

// Do attaches side-effect hooks; see Hooks.
func (s Single[T]) Do(hooks Hooks[T]) Single[T] {
	return CreateSingle(tap(s.subscribe, hooks))
}

// AsObservable emits the success value as a single next followed by completion.
func (s Single[T]) AsObservable() Observable[T] {
	return CreateObservable(func(observer Observer[T]) Disposable {
		return s.Subscribe(successAsNext(observer))
	})
}

func successAsNext[T any](observer Observer[T]) Observer[T] {
	return func(e Event[T]) {
		if e.Kind == KindSuccess {
			observer.Next(e.Value)
			observer.Complete()

			return
		}

		observer(e)
	}
}
