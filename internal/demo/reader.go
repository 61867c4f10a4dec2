package demo

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/timelane-go/timelane"
	"github.com/AntonStoeckl/timelane-go/timelane/postgressink"
	"github.com/AntonStoeckl/timelane-go/timelane/redissink"
)

var ErrUnknownStore = errors.New("unknown record store")

// Query selects stored records. Zero fields do not filter.
type Query struct {
	From  string
	RunID uuid.UUID
	Lane  string
	Limit int
}

// Entry is one stored record in the shape the demo prints and serves.
type Entry struct {
	ID       string              `json:"id"`
	RunID    string              `json:"run_id"`
	Signpost string              `json:"signpost"`
	Message  string              `json:"message"`
	Record   jsoniter.RawMessage `json:"record"`
}

// Read returns the records of the store named by q.From in write order.
func (s *Stack) Read(ctx context.Context, q Query) ([]Entry, error) {
	switch q.From {
	case StoreRedis:
		if s.Redis == nil {
			return nil, errors.Join(ErrSinkNotConfigured, errors.New(q.From))
		}

		stored, err := s.Redis.Read(ctx, redissink.ReadQuery{RunID: q.RunID, Lane: q.Lane, Count: q.Limit})
		if err != nil {
			return nil, err
		}

		entries := make([]Entry, 0, len(stored))
		for _, st := range stored {
			entry, entryErr := newEntry(st.EntryID, st.RunID, st.Record)
			if entryErr != nil {
				return nil, entryErr
			}
			entries = append(entries, entry)
		}

		return entries, nil

	case StorePostgres:
		if s.Recorder == nil {
			return nil, errors.Join(ErrSinkNotConfigured, errors.New(q.From))
		}

		limit := uint(0)
		if q.Limit > 0 {
			limit = uint(q.Limit)
		}

		stored, err := s.Recorder.Query(ctx, postgressink.RecordQuery{RunID: q.RunID, Lane: q.Lane, Limit: limit})
		if err != nil {
			return nil, err
		}

		entries := make([]Entry, 0, len(stored))
		for _, st := range stored {
			entry, entryErr := newEntry(strconv.FormatInt(st.SequenceNumber, 10), st.RunID, st.Record)
			if entryErr != nil {
				return nil, entryErr
			}
			entries = append(entries, entry)
		}

		return entries, nil

	default:
		return nil, errors.Join(ErrUnknownStore, errors.New(q.From))
	}
}

func newEntry(id string, runID uuid.UUID, record timelane.Record) (Entry, error) {
	payload, err := timelane.MarshalRecordJSON(record)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		ID:       id,
		RunID:    runID.String(),
		Signpost: string(record.Signpost()),
		Message:  record.Message(),
		Record:   payload,
	}, nil
}
