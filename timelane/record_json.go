package timelane

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

type recordJSON struct {
	Kind           string `json:"kind"`
	SubscriptionID uint64 `json:"subscription_id,omitempty"`
	Subscription   string `json:"subscription,omitempty"`
	Source         string `json:"source,omitempty"`
	Type           string `json:"type,omitempty"`
	Value          string `json:"value,omitempty"`
	State          string `json:"state,omitempty"`
	StateCode      int    `json:"state_code,omitempty"`
	Version        int    `json:"version,omitempty"`
	OccurredAt     string `json:"occurred_at,omitempty"`
}

// MarshalRecordJSON encodes r for persistent sinks.
func MarshalRecordJSON(r Record) ([]byte, error) {
	dto := recordJSON{
		Kind:           r.Kind.String(),
		SubscriptionID: r.SubscriptionID,
		Subscription:   r.Subscription,
		Source:         r.Source,
		Type:           r.Type(),
		Value:          r.Value,
		Version:        r.Version,
	}

	if r.Kind == RecordEnd {
		dto.State = r.State.String()
		dto.StateCode = r.State.Code()
		dto.Value = r.State.Description()
	}

	if !r.OccurredAt.IsZero() {
		dto.OccurredAt = r.OccurredAt.UTC().Format(time.RFC3339Nano)
	}

	data, err := jsoniter.ConfigFastest.Marshal(dto)
	if err != nil {
		return nil, errors.Join(ErrEncodingRecordFailed, err)
	}

	return data, nil
}

// UnmarshalRecordJSON decodes a record written by MarshalRecordJSON.
func UnmarshalRecordJSON(data []byte) (Record, error) {
	var dto recordJSON
	if err := jsoniter.ConfigFastest.Unmarshal(data, &dto); err != nil {
		return Record{}, errors.Join(ErrDecodingRecordFailed, err)
	}

	kind, err := ParseRecordKind(dto.Kind)
	if err != nil {
		return Record{}, errors.Join(ErrDecodingRecordFailed, err)
	}

	r := Record{
		Kind:           kind,
		SubscriptionID: dto.SubscriptionID,
		Subscription:   dto.Subscription,
		Source:         dto.Source,
		Version:        dto.Version,
	}

	switch kind {
	case RecordEvent:
		eventKind, ok := eventKindFromType(dto.Type)
		if !ok {
			return Record{}, errors.Join(ErrDecodingRecordFailed, errors.New("unknown event type: "+dto.Type))
		}
		r.EventType = eventKind
		r.Value = dto.Value
	case RecordEnd:
		r.State = endStateFromString(dto.State, dto.Value)
	}

	if dto.OccurredAt != "" {
		occurredAt, parseErr := time.Parse(time.RFC3339Nano, dto.OccurredAt)
		if parseErr != nil {
			return Record{}, errors.Join(ErrDecodingRecordFailed, parseErr)
		}
		r.OccurredAt = occurredAt
	}

	return r, nil
}
