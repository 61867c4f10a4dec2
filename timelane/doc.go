// Package timelane is the event model behind lane instrumentation of reactive sequences.
//
// A lane is a named channel on a visualization timeline. Every activation of an instrumented
// sequence gets a Subscription with a process-wide ascending id; the Subscription turns the
// lifecycle calls Begin, Event and End into Records and hands them to a Sink.
//
// Records render to the timelane wire format with Record.Message:
//
//	version:1
//	subscribe:<lane>###source:<source>###id:<id>
//	subscription:<lane>###type:<Output|Completed|Error|Cancelled>###value:<value>###source:<source>###id:<id>
//	subscribe:<lane>###id:<id>###state:<1|2|3>###<error description>
//
// Sinks are plain functions. The package ships sinks for log/slog, context-aware loggers, io.Writer,
// metrics and tracing collectors, plus Tee and Discard. The metrics, tracing and logging
// interfaces are dependency-free; OpenTelemetry and Prometheus implementations live in the
// oteladapters and promadapters packages.
//
// The operator wrapping the sequences lives in package rxlane.
package timelane
