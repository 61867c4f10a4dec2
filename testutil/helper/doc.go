// Package helper provides test doubles for lane instrumentation: a capturing sink plus spies for the
// logging, metrics and tracing interfaces of package timelane.
package helper
