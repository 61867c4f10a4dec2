package rx

// Infallible is a sequence of any number of values that can only terminate by completing.
type Infallible[T any] struct {
	subscribe subscribeFunc[T]
}

// CreateInfallible builds an Infallible from producer. Errors emitted by the producer are dropped.
func CreateInfallible[T any](producer func(Observer[T]) Disposable) Infallible[T] {
	return Infallible[T]{subscribe: guarded(producer, infallibleGrammar)}
}

// Subscribe starts a new subscription delivering events to observer.
func (i Infallible[T]) Subscribe(observer Observer[T]) Disposable {
	return subscribe(i.subscribe, observer)
}

// JustInfallible emits value and completes.
func JustInfallible[T any](value T) Infallible[T] {
	return FromInfallible(value)
}

// FromInfallible emits values in order and completes.
func FromInfallible[T any](values ...T) Infallible[T] {
	return CreateInfallible(func(observer Observer[T]) Disposable {
		for _, v := range values {
			observer.Next(v)
		}
		observer.Complete()

		return Nop()
	})
}

// Do attaches side-effect hooks; see Hooks. OnError is never called.
func (i Infallible[T]) Do(hooks Hooks[T]) Infallible[T] {
	return CreateInfallible(tap(i.subscribe, hooks))
}

// AsObservable exposes the values as an Observable.
func (i Infallible[T]) AsObservable() Observable[T] {
	return CreateObservable(func(observer Observer[T]) Disposable {
		return i.Subscribe(observer)
	})
}
