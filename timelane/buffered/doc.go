// Package buffered decouples lane recording from slow destinations.
//
// A Sink accepts records without ever blocking the instrumented sequence: records go into a bounded
// queue and a single background goroutine writes them in batches through a Writer. When the queue is
// full the newest record is dropped and counted. Close stops the intake and drains what is queued.
package buffered
