package rx_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/timelane-go/rx"
)

type eventLog[T any] struct {
	mu     sync.Mutex
	events []rx.Event[T]
}

func (l *eventLog[T]) observer() rx.Observer[T] {
	return func(e rx.Event[T]) {
		l.mu.Lock()
		defer l.mu.Unlock()

		l.events = append(l.events, e)
	}
}

func (l *eventLog[T]) kinds() []rx.EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()

	kinds := make([]rx.EventKind, 0, len(l.events))
	for _, e := range l.events {
		kinds = append(kinds, e.Kind)
	}

	return kinds
}

func (l *eventLog[T]) values() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	var values []T
	for _, e := range l.events {
		if e.Kind == rx.KindNext || e.Kind == rx.KindSuccess {
			values = append(values, e.Value)
		}
	}

	return values
}

func Test_Observable_From_DeliversValuesThenCompletion(t *testing.T) {
	// arrange
	received := &eventLog[int]{}

	// act
	rx.From(1, 2, 3).Subscribe(received.observer())

	// assert
	assert.Equal(t, []int{1, 2, 3}, received.values())
	assert.Equal(t, []rx.EventKind{rx.KindNext, rx.KindNext, rx.KindNext, rx.KindCompleted}, received.kinds())
}

func Test_Observable_Create_DropsEventsAfterStop(t *testing.T) {
	// arrange
	received := &eventLog[string]{}
	source := rx.CreateObservable(func(observer rx.Observer[string]) rx.Disposable {
		observer.Next("a")
		observer.Fail(errors.New("boom"))
		observer.Next("b")
		observer.Complete()

		return rx.Nop()
	})

	// act
	source.Subscribe(received.observer())

	// assert
	assert.Equal(t, []rx.EventKind{rx.KindNext, rx.KindError}, received.kinds())
}

func Test_Observable_Create_DropsSuccessEvents(t *testing.T) {
	// arrange
	received := &eventLog[int]{}
	source := rx.CreateObservable(func(observer rx.Observer[int]) rx.Disposable {
		observer.Success(1)
		observer.Complete()

		return rx.Nop()
	})

	// act
	source.Subscribe(received.observer())

	// assert
	assert.Equal(t, []rx.EventKind{rx.KindCompleted}, received.kinds())
}

func Test_Observable_Create_DisposesUpstreamAfterStop(t *testing.T) {
	// arrange
	disposed := 0
	source := rx.CreateObservable(func(observer rx.Observer[int]) rx.Disposable {
		observer.Complete()

		return rx.NewDisposable(func() { disposed++ })
	})

	// act
	subscription := source.Subscribe(nil)
	subscription.Dispose()
	subscription.Dispose()

	// assert
	assert.Equal(t, 1, disposed, "upstream should be disposed exactly once")
}

func Test_Observable_Subscribe_DisposeStopsDelivery(t *testing.T) {
	// arrange
	subject := rx.NewPublishSubject[int]()
	received := &eventLog[int]{}
	subscription := subject.Observable().Subscribe(received.observer())

	// act
	subject.Next(1)
	subscription.Dispose()
	subject.Next(2)
	subject.Complete()

	// assert
	assert.Equal(t, []int{1}, received.values())
	assert.False(t, subject.HasObservers())
}

func Test_Observable_ZeroValue_NeverEmits(t *testing.T) {
	// arrange
	var source rx.Observable[int]
	received := &eventLog[int]{}

	// act
	subscription := source.Subscribe(received.observer())

	// assert
	require.NotNil(t, subscription)
	assert.Empty(t, received.kinds())
}

func Test_Observable_Do_RunsHooksInOrder(t *testing.T) {
	// arrange
	var calls []string
	source := rx.From(1, 2).Do(rx.Hooks[int]{
		OnSubscribe: func() { calls = append(calls, "subscribe") },
		OnNext:      func(v int) { calls = append(calls, "next") },
		OnCompleted: func() { calls = append(calls, "completed") },
		OnDispose:   func() { calls = append(calls, "dispose") },
	})
	received := &eventLog[int]{}

	// act
	source.Subscribe(received.observer())

	// assert
	assert.Equal(t, []string{"subscribe", "next", "next", "completed", "dispose"}, calls)
	assert.Equal(t, []int{1, 2}, received.values())
}

func Test_Observable_Do_OnDisposeRunsOnceOnExplicitDispose(t *testing.T) {
	// arrange
	disposeCalls := 0
	source := rx.Never[int]().Do(rx.Hooks[int]{
		OnDispose: func() { disposeCalls++ },
	})

	// act
	subscription := source.Subscribe(nil)
	subscription.Dispose()
	subscription.Dispose()

	// assert
	assert.Equal(t, 1, disposeCalls)
}

func Test_Observable_Concat_EmitsBothSequences(t *testing.T) {
	// arrange
	received := &eventLog[int]{}

	// act
	rx.From(1, 2).Concat(rx.Just(3)).Subscribe(received.observer())

	// assert
	assert.Equal(t, []int{1, 2, 3}, received.values())
	assert.Equal(t, rx.KindCompleted, received.kinds()[3])
}

func Test_Observable_AsInfallible_TurnsErrorIntoCompletion(t *testing.T) {
	// arrange
	var seen error
	failure := errors.New("boom")
	received := &eventLog[int]{}

	// act
	rx.Fail[int](failure).AsInfallible(func(err error) { seen = err }).Subscribe(received.observer())

	// assert
	assert.ErrorIs(t, seen, failure)
	assert.Equal(t, []rx.EventKind{rx.KindCompleted}, received.kinds())
}

func Test_Disposable_Composite_DisposesLateAdditions(t *testing.T) {
	// arrange
	group := rx.NewComposite()
	disposed := 0
	group.Dispose()

	// act
	group.Add(rx.NewDisposable(func() { disposed++ }))

	// assert
	assert.True(t, group.IsDisposed())
	assert.Equal(t, 1, disposed)
}

func Test_Disposable_ConcurrentDispose_RunsOnce(t *testing.T) {
	// arrange
	var mu sync.Mutex
	disposed := 0
	d := rx.NewDisposable(func() {
		mu.Lock()
		disposed++
		mu.Unlock()
	})

	// act
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispose()
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, 1, disposed)
}
