package timelane_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

func Test_Record_Message(t *testing.T) {
	testCases := []struct {
		name     string
		record   timelane.Record
		signpost timelane.SignpostType
		expected string
	}{
		{
			name:     "version",
			record:   timelane.Record{Kind: timelane.RecordVersion, Version: 1},
			signpost: timelane.SignpostEvent,
			expected: "version:1",
		},
		{
			name:     "begin",
			record:   timelane.Record{Kind: timelane.RecordBegin, Subscription: "Test Subscription", Source: "main.go:12 - main.main", SubscriptionID: 7},
			signpost: timelane.SignpostBegin,
			expected: "subscribe:Test Subscription###source:main.go:12 - main.main###id:7",
		},
		{
			name: "output event",
			record: timelane.Record{
				Kind:           timelane.RecordEvent,
				Subscription:   "Test Subscription",
				EventType:      timelane.EventOutput,
				Value:          "3",
				Source:         "src",
				SubscriptionID: 7,
			},
			signpost: timelane.SignpostEvent,
			expected: "subscription:Test Subscription###type:Output###value:3###source:src###id:7",
		},
		{
			name:     "completed end",
			record:   timelane.Record{Kind: timelane.RecordEnd, Subscription: "lane", SubscriptionID: 2, State: timelane.Completed()},
			signpost: timelane.SignpostEnd,
			expected: "subscribe:lane###id:2###state:1###",
		},
		{
			name:     "errored end",
			record:   timelane.Record{Kind: timelane.RecordEnd, Subscription: "lane", SubscriptionID: 2, State: timelane.Errored("Error description")},
			signpost: timelane.SignpostEnd,
			expected: "subscribe:lane###id:2###state:2###Error description",
		},
		{
			name:     "cancelled end",
			record:   timelane.Record{Kind: timelane.RecordEnd, Subscription: "lane", SubscriptionID: 2, State: timelane.Cancelled()},
			signpost: timelane.SignpostEnd,
			expected: "subscribe:lane###id:2###state:3###",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.record.Message())
			assert.Equal(t, tc.signpost, tc.record.Signpost())
		})
	}
}

func Test_ParseMessage_RestoresRecord(t *testing.T) {
	// arrange
	original := timelane.Record{
		Kind:           timelane.RecordEnd,
		Subscription:   "lane",
		SubscriptionID: 42,
		State:          timelane.Errored("connection refused"),
	}

	// act
	parsed, err := timelane.ParseMessage(original.Signpost(), original.Message())

	// assert
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
	assert.Equal(t, 2, parsed.State.Code())
	assert.Equal(t, "connection refused", parsed.State.Description())
}

func Test_ParseMessage_Event(t *testing.T) {
	// act
	parsed, err := timelane.ParseMessage(
		timelane.SignpostEvent,
		"subscription:lane###type:Cancelled###value:###source:a.go:1 - f###id:3",
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, timelane.RecordEvent, parsed.Kind)
	assert.Equal(t, timelane.EventCancelled, parsed.EventType)
	assert.Equal(t, "Cancelled", parsed.Type())
	assert.Equal(t, "a.go:1 - f", parsed.Source)
	assert.Equal(t, uint64(3), parsed.SubscriptionID)
}

func Test_ParseMessage_Malformed(t *testing.T) {
	testCases := []struct {
		name     string
		signpost timelane.SignpostType
		message  string
	}{
		{"missing fields", timelane.SignpostBegin, "subscribe:lane###id:1"},
		{"bad id", timelane.SignpostBegin, "subscribe:lane###source:x###id:abc"},
		{"unknown state", timelane.SignpostEnd, "subscribe:lane###id:1###state:9###"},
		{"unknown type", timelane.SignpostEvent, "subscription:lane###type:Next###value:1###source:x###id:1"},
		{"bad version", timelane.SignpostEvent, "version:x"},
		{"unknown signpost", timelane.SignpostType("other"), "x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := timelane.ParseMessage(tc.signpost, tc.message)

			assert.ErrorIs(t, err, timelane.ErrMalformedMessage)
		})
	}
}

func Test_RecordJSON_KeepsEndStateAndTimestamp(t *testing.T) {
	// arrange
	occurredAt := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC)
	original := timelane.Record{
		Kind:           timelane.RecordEnd,
		Subscription:   "lane",
		SubscriptionID: 9,
		State:          timelane.Errored("boom"),
		OccurredAt:     occurredAt,
	}

	// act
	data, err := timelane.MarshalRecordJSON(original)
	require.NoError(t, err)
	decoded, err := timelane.UnmarshalRecordJSON(data)

	// assert
	require.NoError(t, err)
	assert.Equal(t, original.State, decoded.State)
	assert.True(t, occurredAt.Equal(decoded.OccurredAt))
	assert.Equal(t, original.Message(), decoded.Message())
	assert.Contains(t, string(data), `"state_code":2`)
}

func Test_UnmarshalRecordJSON_RejectsUnknownKind(t *testing.T) {
	_, err := timelane.UnmarshalRecordJSON([]byte(`{"kind":"something"}`))

	assert.ErrorIs(t, err, timelane.ErrDecodingRecordFailed)
	assert.ErrorIs(t, err, timelane.ErrUnknownRecordKind)
}

func Test_UnmarshalRecordJSON_RejectsInvalidJSON(t *testing.T) {
	_, err := timelane.UnmarshalRecordJSON([]byte(`{`))

	assert.ErrorIs(t, err, timelane.ErrDecodingRecordFailed)
}
