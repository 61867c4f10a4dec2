package helper

import (
	"fmt"
	"strings"
	"sync"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

// SinkRecorder captures every record delivered to its Sink.
type SinkRecorder struct {
	mu      sync.Mutex
	records []timelane.Record
}

// NewSinkRecorder creates an empty SinkRecorder.
func NewSinkRecorder() *SinkRecorder {
	return &SinkRecorder{records: make([]timelane.Record, 0)}
}

// Sink returns the capturing sink.
func (r *SinkRecorder) Sink() timelane.Sink {
	return func(record timelane.Record) {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.records = append(r.records, record)
	}
}

// Records returns a copy of all captured records.
func (r *SinkRecorder) Records() []timelane.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]timelane.Record, len(r.records))
	copy(records, r.records)

	return records
}

// RecordsOfKind returns the captured records of one kind.
func (r *SinkRecorder) RecordsOfKind(kind timelane.RecordKind) []timelane.Record {
	var matching []timelane.Record
	for _, record := range r.Records() {
		if record.Kind == kind {
			matching = append(matching, record)
		}
	}

	return matching
}

// Count returns the number of captured records.
func (r *SinkRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.records)
}

// Messages returns "<signpost> <message>" for every captured record.
func (r *SinkRecorder) Messages() []string {
	records := r.Records()
	messages := make([]string, 0, len(records))
	for _, record := range records {
		messages = append(messages, record.String())
	}

	return messages
}

// TLDR returns a short summary per record:
//   - events: "<Type>, <lane>, <value>"
//   - begin: "begin, <lane>"
//   - end: "end, <lane>, <state>"
//   - version: "version, <n>"
func (r *SinkRecorder) TLDR() []string {
	records := r.Records()
	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, tldr(record))
	}

	return lines
}

// Reset drops all captured records.
func (r *SinkRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = r.records[:0]
}

func tldr(record timelane.Record) string {
	switch record.Kind {
	case timelane.RecordVersion:
		return fmt.Sprintf("version, %d", record.Version)
	case timelane.RecordBegin:
		return "begin, " + record.Subscription
	case timelane.RecordEnd:
		return strings.Join([]string{"end", record.Subscription, record.State.String()}, ", ")
	default:
		return strings.Join([]string{record.Type(), record.Subscription, record.Value}, ", ")
	}
}
