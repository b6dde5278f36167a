// Package log records a machine-readable trace of provisioning runs.
//
// The trace is separate from operational logging (slog). Every candidate,
// pipeline step, readiness wait and session result is emitted as an Event,
// which gives an operator a complete per-device record to diagnose a failed
// device after the fact.
//
// # Basic Usage
//
//	// Console only, at debug level
//	trace := log.NewSlogAdapter(slog.Default())
//
//	// Binary trace file
//	trace, _ := log.NewFileLogger("/var/log/unbox/run.ulog")
//
//	// Both
//	trace := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Categories
//
//   - RUN: a discovery run started or finished
//   - CANDIDATE: a candidate network was found, joined, declined or failed to join
//   - STEP: a pipeline step produced a result
//   - READINESS: a readiness wait after a disruptive step ended
//   - SESSION: a provisioning session reached a terminal state
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer keys
// (.ulog extension). Reader streams them back with optional filtering;
// "unbox log view" and "unbox log stats" build on it.
package log
