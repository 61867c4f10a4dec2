package rx

// Completable completes or fails and never carries a value.
type Completable struct {
	subscribe subscribeFunc[Void]
}

// CreateCompletable builds a Completable from producer. Value-bearing events are dropped.
func CreateCompletable(producer func(Observer[Void]) Disposable) Completable {
	return Completable{subscribe: guarded(producer, completableGrammar)}
}

// Subscribe starts a new subscription delivering events to observer.
func (c Completable) Subscribe(observer Observer[Void]) Disposable {
	return subscribe(c.subscribe, observer)
}

// Complete completes immediately.
func Complete() Completable {
	return CreateCompletable(func(observer Observer[Void]) Disposable {
		observer.Complete()
		return Nop()
	})
}

// FailCompletable fails with err.
func FailCompletable(err error) Completable {
	return CreateCompletable(func(observer Observer[Void]) Disposable {
		observer.Fail(err)
		return Nop()
	})
}

// NeverCompletable never terminates.
func NeverCompletable() Completable {
	return CreateCompletable(func(Observer[Void]) Disposable {
		return Nop()
	})
}

// Do attaches side-effect hooks; see Hooks.
func (c Completable) Do(hooks Hooks[Void]) Completable {
	return CreateCompletable(tap(c.subscribe, hooks))
}
