// Package redissink appends lane records to a Redis stream and reads them back.
//
// Each record becomes one stream entry with the fields run_id, kind, lane, subscription_id and
// payload, where payload is the record's JSON encoding. Sink.Write has the signature of
// buffered.Writer, so a Sink is normally driven by a buffered.Sink.
package redissink
