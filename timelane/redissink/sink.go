package redissink

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

const (
	fieldRunID          = "run_id"
	fieldKind           = "kind"
	fieldLane           = "lane"
	fieldSubscriptionID = "subscription_id"
	fieldPayload        = "payload"

	logMsgWritten      = "timelane records appended to stream"
	logMsgWriteFailed  = "appending timelane records to stream failed"
	logMsgReadFailed   = "reading timelane records from stream failed"
	logMsgEntryInvalid = "skipping invalid stream entry"

	logAttrStream = "stream"
	logAttrCount  = "record_count"
	logAttrError  = "error"
	logAttrEntry  = "entry_id"
)

// Sink appends records to a Redis stream.
type Sink struct {
	client    *backend.Client
	ownClient bool
	streamKey string
	maxLen    int64
	runID     uuid.UUID
	logger    timelane.Logger
}

// ReadQuery selects stream entries. Zero fields do not filter, a zero Count returns all entries.
type ReadQuery struct {
	RunID uuid.UUID
	Lane  string
	Count int
}

// StoredRecord is a record together with the stream entry it was read from.
type StoredRecord struct {
	EntryID string
	RunID   uuid.UUID
	Record  timelane.Record
}

// New creates a Sink on an existing client. Close leaves the client open.
func New(client *backend.Client, opts ...Option) (*Sink, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	s := &Sink{
		client:    client,
		streamKey: defaultStreamKey,
		runID:     uuid.New(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// NewFromAddress creates a Sink with its own client. Close closes that client.
func NewFromAddress(address, password string, db int, opts ...Option) (*Sink, error) {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	s, err := New(client, opts...)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	s.ownClient = true

	return s, nil
}

// RunID identifies the entries written by this Sink.
func (s *Sink) RunID() uuid.UUID {
	return s.runID
}

// StreamKey returns the configured stream.
func (s *Sink) StreamKey() string {
	return s.streamKey
}

// Write appends records with one pipelined XADD per record. It has the signature of buffered.Writer.
func (s *Sink) Write(ctx context.Context, records []timelane.Record) error {
	if len(records) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()

	for _, record := range records {
		payload, err := timelane.MarshalRecordJSON(record)
		if err != nil {
			return errors.Join(ErrWritingRecordsFailed, err)
		}

		args := &backend.XAddArgs{
			Stream: s.streamKey,
			Values: map[string]any{
				fieldRunID:          s.runID.String(),
				fieldKind:           record.Kind.String(),
				fieldLane:           record.Subscription,
				fieldSubscriptionID: strconv.FormatUint(record.SubscriptionID, 10),
				fieldPayload:        string(payload),
			},
		}

		if s.maxLen > 0 {
			args.MaxLen = s.maxLen
			args.Approx = true
		}

		pipe.XAdd(ctx, args)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		s.logError(logMsgWriteFailed, err, logAttrCount, len(records))
		return errors.Join(ErrWritingRecordsFailed, err)
	}

	if s.logger != nil {
		s.logger.Debug(logMsgWritten, logAttrStream, s.streamKey, logAttrCount, len(records))
	}

	return nil
}

// Read returns the entries matching q in stream order.
// Entries that cannot be decoded are skipped and logged.
func (s *Sink) Read(ctx context.Context, q ReadQuery) ([]StoredRecord, error) {
	messages, err := s.client.XRange(ctx, s.streamKey, "-", "+").Result()
	if err != nil {
		s.logError(logMsgReadFailed, err)
		return nil, errors.Join(ErrReadingRecordsFailed, err)
	}

	stored := make([]StoredRecord, 0, len(messages))

	for _, message := range messages {
		entry, decodeErr := decodeEntry(message)
		if decodeErr != nil {
			s.logError(logMsgEntryInvalid, decodeErr, logAttrEntry, message.ID)
			continue
		}

		if q.RunID != uuid.Nil && entry.RunID != q.RunID {
			continue
		}

		if q.Lane != "" && entry.Record.Subscription != q.Lane {
			continue
		}

		stored = append(stored, entry)

		if q.Count > 0 && len(stored) == q.Count {
			break
		}
	}

	return stored, nil
}

// Close releases the client when the Sink created it.
func (s *Sink) Close() error {
	if !s.ownClient {
		return nil
	}

	return s.client.Close()
}

func decodeEntry(message backend.XMessage) (StoredRecord, error) {
	runIDValue, _ := message.Values[fieldRunID].(string)

	runID, err := uuid.Parse(runIDValue)
	if err != nil {
		return StoredRecord{}, errors.Join(timelane.ErrDecodingRecordFailed, err)
	}

	payload, ok := message.Values[fieldPayload].(string)
	if !ok {
		return StoredRecord{}, errors.Join(timelane.ErrDecodingRecordFailed, fmt.Errorf("entry %s has no payload", message.ID))
	}

	record, err := timelane.UnmarshalRecordJSON([]byte(payload))
	if err != nil {
		return StoredRecord{}, err
	}

	return StoredRecord{EntryID: message.ID, RunID: runID, Record: record}, nil
}

func (s *Sink) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error(), logAttrStream, s.streamKey}
		allArgs = append(allArgs, args...)
		s.logger.Error(msg, allArgs...)
	}
}
