package timelane_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/timelane-go/testutil/helper"
	"github.com/AntonStoeckl/timelane-go/timelane"
)

func Test_NewSubscription_AssignsAscendingIDs(t *testing.T) {
	// arrange
	registry := timelane.NewRegistry()
	registry.MarkVersionEmitted()

	// act
	first := timelane.NewSubscription("a", timelane.Discard, timelane.WithRegistry(registry))
	second := timelane.NewSubscription("b", timelane.Discard, timelane.WithRegistry(registry))

	// assert
	assert.Equal(t, uint64(1), first.ID())
	assert.Equal(t, uint64(2), second.ID())
	assert.Equal(t, uint64(2), registry.LastSubscriptionID())
}

func Test_NewSubscription_ConcurrentCreationYieldsUniqueIDs(t *testing.T) {
	// arrange
	registry := timelane.NewRegistry()
	registry.MarkVersionEmitted()
	const count = 200

	var mu sync.Mutex
	ids := make(map[uint64]struct{}, count)

	// act
	var wg sync.WaitGroup
	for range count {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := timelane.NewSubscription("lane", timelane.Discard, timelane.WithRegistry(registry))

			mu.Lock()
			ids[s.ID()] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	// assert
	assert.Len(t, ids, count)
	assert.Equal(t, uint64(count), registry.LastSubscriptionID())
}

func Test_NewSubscription_EmitsVersionOnce(t *testing.T) {
	// arrange
	registry := timelane.NewRegistry()
	recorder := helper.NewSinkRecorder()

	// act
	timelane.NewSubscription("a", recorder.Sink(), timelane.WithRegistry(registry))
	timelane.NewSubscription("b", recorder.Sink(), timelane.WithRegistry(registry))

	// assert
	assert.Equal(t, []string{"version, 1"}, recorder.TLDR())
	assert.True(t, registry.VersionEmitted())
}

func Test_Subscription_BeginEventEnd(t *testing.T) {
	// arrange
	registry := timelane.NewRegistry()
	registry.MarkVersionEmitted()
	recorder := helper.NewSinkRecorder()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := timelane.NewSubscription("Test Subscription", recorder.Sink(),
		timelane.WithRegistry(registry),
		timelane.WithClock(func() time.Time { return now }),
	)

	// act
	s.Begin("file.go:1 - f")
	s.Event(timelane.Value("3"), "file.go:1 - f")
	s.Event(timelane.Completion(), "file.go:1 - f")
	s.End(timelane.Completed())

	// assert
	assert.Equal(t, []string{
		"begin, Test Subscription",
		"Output, Test Subscription, 3",
		"Completed, Test Subscription, ",
		"end, Test Subscription, completed",
	}, recorder.TLDR())

	for _, record := range recorder.Records() {
		assert.Equal(t, s.ID(), record.SubscriptionID)
		assert.Equal(t, now, record.OccurredAt)
	}
}

func Test_Subscription_SinkPanicGoesToFaultHandler(t *testing.T) {
	// arrange
	registry := timelane.NewRegistry()
	registry.MarkVersionEmitted()
	var faults []error
	s := timelane.NewSubscription("lane",
		func(timelane.Record) { panic("sink down") },
		timelane.WithRegistry(registry),
		timelane.WithFaultHandler(func(err error) { faults = append(faults, err) }),
	)

	// act
	assert.NotPanics(t, func() { s.Begin("src") })

	// assert
	require.Len(t, faults, 1)
	var sinkPanic *timelane.SinkPanicError
	require.ErrorAs(t, faults[0], &sinkPanic)
	assert.Equal(t, "sink down", sinkPanic.Value)
	assert.Equal(t, timelane.RecordBegin, sinkPanic.Record.Kind)
	assert.NotEmpty(t, sinkPanic.Stack)
}

func Test_Subscription_SinkPanicWithoutFaultHandlerIsSwallowed(t *testing.T) {
	registry := timelane.NewRegistry()
	registry.MarkVersionEmitted()
	s := timelane.NewSubscription("lane", func(timelane.Record) { panic("sink down") }, timelane.WithRegistry(registry))

	assert.NotPanics(t, func() { s.End(timelane.Cancelled()) })
}

func Test_Registry_SetDefaultSink_RestoresPrevious(t *testing.T) {
	// arrange
	registry := timelane.NewRegistry()
	registry.MarkVersionEmitted()
	first := helper.NewSinkRecorder()
	second := helper.NewSinkRecorder()

	restoreFirst := registry.SetDefaultSink(first.Sink())
	restoreSecond := registry.SetDefaultSink(second.Sink())

	// act
	timelane.NewSubscription("a", nil, timelane.WithRegistry(registry)).Begin("")
	restoreSecond()
	timelane.NewSubscription("b", nil, timelane.WithRegistry(registry)).Begin("")
	restoreFirst()

	// assert
	assert.Equal(t, []string{"begin, a"}, second.TLDR())
	assert.Equal(t, []string{"begin, b"}, first.TLDR())
}

func Test_Registry_DefaultSink_LogsThroughSlog(t *testing.T) {
	// arrange
	registry := timelane.NewRegistry()
	registry.MarkVersionEmitted()
	spy := helper.NewLogHandlerSpy(false)
	restore := registry.SetDefaultSink(timelane.SlogSink(spy.Logger()))
	defer restore()

	// act
	timelane.NewSubscription("lane", nil, timelane.WithRegistry(registry)).Begin("src")

	// assert
	assert.Equal(t, 1, spy.GetRecordCount())
}

func Test_Registry_Reset(t *testing.T) {
	// arrange
	registry := timelane.NewRegistry()
	registry.NextSubscriptionID()
	registry.SetDefaultSink(timelane.Discard)

	// act
	registry.Reset(100, true)

	// assert
	assert.Equal(t, uint64(101), registry.NextSubscriptionID())
	assert.True(t, registry.VersionEmitted())
}
