package rx

// Maybe delivers one success value, completes without a value, or fails.
type Maybe[T any] struct {
	subscribe subscribeFunc[T]
}

// CreateMaybe builds a Maybe from producer. KindNext events are dropped.
func CreateMaybe[T any](producer func(Observer[T]) Disposable) Maybe[T] {
	return Maybe[T]{subscribe: guarded(producer, maybeGrammar)}
}

// Subscribe starts a new subscription delivering events to observer.
func (m Maybe[T]) Subscribe(observer Observer[T]) Disposable {
	return subscribe(m.subscribe, observer)
}

// JustMaybe succeeds with value.
func JustMaybe[T any](value T) Maybe[T] {
	return CreateMaybe(func(observer Observer[T]) Disposable {
		observer.Success(value)
		return Nop()
	})
}

// EmptyMaybe completes without a value.
func EmptyMaybe[T any]() Maybe[T] {
	return CreateMaybe(func(observer Observer[T]) Disposable {
		observer.Complete()
		return Nop()
	})
}

// FailMaybe fails with err.
func FailMaybe[T any](err error) Maybe[T] {
	return CreateMaybe(func(observer Observer[T]) Disposable {
		observer.Fail(err)
		return Nop()
	})
}

// NeverMaybe never terminates.
func NeverMaybe[T any]() Maybe[T] {
	return CreateMaybe(func(Observer[T]) Disposable {
		return Nop()
	})
}

// Do attaches side-effect hooks; see Hooks.
func (m Maybe[T]) Do(hooks Hooks[T]) Maybe[T] {
	return CreateMaybe(tap(m.subscribe, hooks))
}

// AsObservable emits the success value, if any, as a next followed by completion.
func (m Maybe[T]) AsObservable() Observable[T] {
	return CreateObservable(func(observer Observer[T]) Disposable {
		return m.Subscribe(successAsNext(observer))
	})
}
