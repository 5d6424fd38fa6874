// Package ingest turns uploaded artifacts into summarised notes.
//
// Each ingestion walks a fixed state machine:
//
//	received -> validated -> [transcribed] -> extracted -> summarised -> persisted
//
// and any step may move to failed. Every transition is logged with the
// request's correlation id. Failures carry a user-safe message and an HTTP
// status; the underlying cause is kept for logs only.
//
// Audio is written to a scratch file for the transcription service and the
// file is removed on every exit path.
package ingest
