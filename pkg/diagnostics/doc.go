// Package diagnostics persists failed provider calls.
//
// A Sink gets two things for every classified failure: a one-line
// description for the log, and (for failures other than a missing profile or
// post) a Record kept for later analysis. FileSink appends records to a
// JSON-lines file, LogSink only logs, Multi fans out. No sink ever returns an
// error to the caller.
package diagnostics
