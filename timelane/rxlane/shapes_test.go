package rxlane_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/timelane-go/rx"
	"github.com/AntonStoeckl/timelane-go/testutil/helper"
	"github.com/AntonStoeckl/timelane-go/timelane"
	"github.com/AntonStoeckl/timelane-go/timelane/rxlane"
)

func Test_Single_EventFilter_SuccessIsTerminal(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Single(rx.JustSingle(3), testLane, givenOptions(recorder, timelane.FilterEvent)...)

	// act
	source.Subscribe(nil)

	// assert
	assert.Equal(t, []string{
		"Output, Test Subscription, 3",
		"Completed, Test Subscription, ",
	}, recorder.TLDR())
}

func Test_Single_AllAxes_ValueThenEndThenCompletion(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Single(rx.JustSingle(3), testLane, givenOptions(recorder, timelane.FilterAll)...)

	// act
	subscription := source.Subscribe(nil)
	subscription.Dispose()

	// assert
	assert.Equal(t, []string{
		"begin, Test Subscription",
		"Output, Test Subscription, 3",
		"end, Test Subscription, completed",
		"Completed, Test Subscription, ",
	}, recorder.TLDR())
}

func Test_Single_Error_ReportsErrorDescription(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Single(rx.FailSingle[int](errors.New("Error description")), testLane, givenOptions(recorder, timelane.FilterEvent)...)

	// act
	source.Subscribe(nil)

	// assert
	records := recorder.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Error", records[0].Type())
	assert.Equal(t, "Error description", records[0].Value)
}

func Test_Single_DisposeBeforeSuccess_ReportsCancelled(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Single(rx.NeverSingle[int](), testLane, givenOptions(recorder, timelane.FilterAll)...)

	// act
	source.Subscribe(nil).Dispose()

	// assert
	assert.Equal(t, []string{
		"begin, Test Subscription",
		"end, Test Subscription, cancelled",
		"Cancelled, Test Subscription, ",
	}, recorder.TLDR())
}

func Test_Single_PanickingTransform_StillCompletes(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	received := &downstream[int]{}
	source := rxlane.Single(rx.JustSingle(3), testLane, givenOptions(recorder, timelane.FilterAll,
		rxlane.WithTransform(func(int) string { panic("cannot format") }),
	)...)

	// act
	source.Subscribe(received.observer())

	// assert
	assert.Equal(t, []string{
		"begin, Test Subscription",
		"end, Test Subscription, completed",
		"Completed, Test Subscription, ",
	}, recorder.TLDR())
	assert.Equal(t, []string{"success(3)"}, received.calls())
}

func Test_Maybe_Success_IsTerminal(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Maybe(rx.JustMaybe("v"), testLane, givenOptions(recorder, timelane.FilterEvent)...)

	// act
	source.Subscribe(nil)

	// assert
	assert.Equal(t, []string{
		"Output, Test Subscription, v",
		"Completed, Test Subscription, ",
	}, recorder.TLDR())
}

func Test_Maybe_EmptyCompletion_ReportsCompletionOnly(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Maybe(rx.EmptyMaybe[string](), testLane, givenOptions(recorder, timelane.FilterEvent)...)

	// act
	source.Subscribe(nil)

	// assert
	assert.Equal(t, []string{"Completed, Test Subscription, "}, recorder.TLDR())
}

func Test_Maybe_Error_ReportsEndError(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Maybe(rx.FailMaybe[string](errors.New("gone")), testLane, givenOptions(recorder, timelane.FilterSubscription)...)

	// act
	source.Subscribe(nil)

	// assert
	assert.Equal(t, []string{"begin, Test Subscription", "end, Test Subscription, error"}, recorder.TLDR())
	assert.Equal(t, "gone", recorder.RecordsOfKind(timelane.RecordEnd)[0].State.Description())
}

func Test_Completable_EventFilter_ReportsCompletionOnly(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	received := &downstream[rx.Void]{}
	source := rxlane.Completable(rx.Complete(), testLane, givenOptions(recorder, timelane.FilterEvent)...)

	// act
	source.Subscribe(received.observer())

	// assert
	assert.Equal(t, []string{"Completed, Test Subscription, "}, recorder.TLDR())
	assert.Equal(t, []string{"completed"}, received.calls())
}

func Test_Completable_Error_ReportsErrorOnce(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Completable(rx.FailCompletable(errors.New("Error description")), testLane, givenOptions(recorder, timelane.FilterAll)...)

	// act
	subscription := source.Subscribe(nil)
	subscription.Dispose()

	// assert
	assert.Equal(t, []string{
		"begin, Test Subscription",
		"end, Test Subscription, error",
		"Error, Test Subscription, Error description",
	}, recorder.TLDR())
}

func Test_Completable_Dispose_ReportsCancelled(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Completable(rx.NeverCompletable(), testLane, givenOptions(recorder, timelane.FilterEvent)...)

	// act
	source.Subscribe(nil).Dispose()

	// assert
	assert.Equal(t, []string{"Cancelled, Test Subscription, "}, recorder.TLDR())
}

func Test_Infallible_ReportsValuesAndCompletion(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	source := rxlane.Infallible(rx.FromInfallible(1, 2), testLane, givenOptions(recorder, timelane.FilterEvent)...)

	// act
	source.Subscribe(nil)

	// assert
	assert.Equal(t, []string{
		"Output, Test Subscription, 1",
		"Output, Test Subscription, 2",
		"Completed, Test Subscription, ",
	}, recorder.TLDR())
}

func Test_Infallible_KeepsUpstreamHooksIntact(t *testing.T) {
	// arrange
	var calls []string
	upstream := rx.JustInfallible(1).Do(rx.Hooks[int]{
		OnSubscribe: func() { calls = append(calls, "Subscribed") },
		OnNext:      func(v int) { calls = append(calls, "Value: "+timelane.FormatValue(v)) },
		OnDispose:   func() { calls = append(calls, "Disposed") },
	})
	source := rxlane.Infallible(upstream, testLane, givenOptions(helper.NewSinkRecorder(), timelane.FilterAll)...)

	// act
	source.Subscribe(nil)

	// assert
	assert.Equal(t, []string{"Subscribed", "Value: 1", "Disposed"}, calls)
}

func Test_Infallible_Dispose_ReportsCancelled(t *testing.T) {
	// arrange
	recorder := helper.NewSinkRecorder()
	subject := rx.NewPublishSubject[int]()
	source := rxlane.Infallible(subject.Observable().AsInfallible(nil), testLane, givenOptions(recorder, timelane.FilterSubscription)...)

	// act
	source.Subscribe(nil).Dispose()

	// assert
	assert.Equal(t, []string{"begin, Test Subscription", "end, Test Subscription, cancelled"}, recorder.TLDR())
}
