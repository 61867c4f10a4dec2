package timelane

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Discard drops every record.
var Discard Sink = func(Record) {}

// SlogSink logs every record at info level.
func SlogSink(logger *slog.Logger) Sink {
	if logger == nil {
		return Discard
	}

	return func(record Record) {
		logger.Info(logMsgRecord, recordArgs(record)...)
	}
}

// ContextualSink logs every record at info level through a context-aware logger.
// ctx is used for every call, typically to correlate the records with the trace that set up the lane.
func ContextualSink(ctx context.Context, logger ContextualLogger) Sink {
	if logger == nil {
		return Discard
	}

	return func(record Record) {
		logger.InfoContext(ctx, logMsgRecord, recordArgs(record)...)
	}
}

// WriterSink writes one "<signpost> <message>" line per record to w.
func WriterSink(w io.Writer) Sink {
	var mu sync.Mutex

	return func(record Record) {
		line := record.String() + "\n"

		mu.Lock()
		defer mu.Unlock()

		_, _ = io.WriteString(w, line)
	}
}

// Tee delivers every record to all sinks in order. A panicking sink does not keep the others from
// receiving the record; the first panic is raised again once all sinks were called.
func Tee(sinks ...Sink) Sink {
	return func(record Record) {
		var first any

		for _, sink := range sinks {
			if sink == nil {
				continue
			}

			func() {
				defer func() {
					if v := recover(); v != nil && first == nil {
						first = v
					}
				}()

				sink(record)
			}()
		}

		if first != nil {
			panic(first)
		}
	}
}

func recordArgs(record Record) []any {
	return append(record.LogArgs(),
		logAttrSignpost, string(record.Signpost()),
		logAttrMessage, record.Message(),
	)
}
