package redissink

import (
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

var ErrNilClient = errors.New("redis client must not be nil")
var ErrEmptyStreamKey = errors.New("stream key must not be empty")
var ErrInvalidMaxLen = errors.New("max length must not be negative")
var ErrNilRunID = errors.New("run id must not be the nil uuid")
var ErrWritingRecordsFailed = errors.New("writing records to redis failed")
var ErrReadingRecordsFailed = errors.New("reading records from redis failed")

const defaultStreamKey = "timelane:records"

// Option defines a functional option for configuring a Sink.
type Option func(*Sink) error

// WithStreamKey sets the stream the records are appended to. The default is "timelane:records".
func WithStreamKey(key string) Option {
	return func(s *Sink) error {
		if key == "" {
			return ErrEmptyStreamKey
		}

		s.streamKey = key

		return nil
	}
}

// WithMaxLen caps the stream at roughly maxLen entries. Zero keeps every entry.
func WithMaxLen(maxLen int64) Option {
	return func(s *Sink) error {
		if maxLen < 0 {
			return ErrInvalidMaxLen
		}

		s.maxLen = maxLen

		return nil
	}
}

// WithRunID replaces the random run id generated for every Sink.
func WithRunID(runID uuid.UUID) Option {
	return func(s *Sink) error {
		if runID == uuid.Nil {
			return ErrNilRunID
		}

		s.runID = runID

		return nil
	}
}

// WithLogger sets the logger for write and read diagnostics.
func WithLogger(logger timelane.Logger) Option {
	return func(s *Sink) error {
		s.logger = logger
		return nil
	}
}
