// Package postgressink persists lane records into a PostgreSQL table and reads timelines back.
//
// A Recorder is created from a pgxpool.Pool, a sql.DB or a sqlx.DB. Every record is stored as one
// row carrying the run id of the recording process, the record kind, the lane name and the
// subscription id as columns, plus the full record as a jsonb payload.
//
// Recorder.Write has the signature of buffered.Writer, so the usual setup is
//
//	recorder, _ := postgressink.NewRecorderFromPGXPool(pool)
//	sink, _ := buffered.New(recorder)
//	timelane.SetDefaultSink(sink.Sink())
//
// Writes then happen in batches on the buffered sink's goroutine and never block a lane.
//
// Observability follows the same pattern as the rest of the module: a Logger, a ContextualLogger,
// a MetricsCollector and a TracingCollector can be supplied as options and are silent when nil.
package postgressink
