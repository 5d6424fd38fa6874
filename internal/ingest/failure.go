package ingest

import (
	"errors"
	"fmt"
	"net/http"

	"studivio/internal/services"
)

// State names a step of the ingestion state machine.
type State string

const (
	StateReceived    State = "received"
	StateValidated   State = "validated"
	StateTranscribed State = "transcribed"
	StateExtracted   State = "extracted"
	StateSummarised  State = "summarised"
	StatePersisted   State = "persisted"
	StateFailed      State = "failed"
)

// User-facing failure messages.
const (
	MsgDocumentRequired     = "Document upload required"
	MsgDocumentNameRequired = "Please choose a document to upload"
	MsgDocumentNotPDF       = "Document must be in PDF format"
	MsgDocumentTooLarge     = "Document size exceeds %dMB limit"
	MsgDocumentNoText       = "Unable to extract readable text from document"
	MsgDocumentCorrupt      = "Document appears to be corrupted or unreadable"

	MsgAudioRequired       = "Audio file upload required"
	MsgAudioNameRequired   = "Please choose an audio file to upload"
	MsgAudioUnsupported    = "Audio format not supported. Use: %s"
	MsgAudioTooLarge       = "Audio file size exceeds %dMB limit"
	MsgNoSpeech            = "No clear speech detected in audio"
	MsgTranscriptionFailed = "Audio transcription failed"
	MsgTranscriptionDown   = "Audio transcription service unavailable"

	MsgVideoURLRequired = "YouTube URL required"
	MsgVideoURLInvalid  = "Invalid YouTube URL"
	MsgNoTranscript     = "No transcript available for this video"
	MsgTranscriptDown   = "Transcript service unavailable"

	MsgSummaryEmpty  = "AI summary generation unsuccessful"
	MsgSummaryDown   = "Summary generation service unavailable"
	MsgStorageFailed = "Note storage failed"
	MsgTextRequired  = "Text to summarise is required"
)

// Failure describes why an ingestion stopped.
type Failure struct {
	// State is the last state reached before failing.
	State   State
	Kind    string
	Status  int
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("ingest failed after %s: %s", f.State, f.Message)
	}
	return fmt.Sprintf("ingest failed after %s: %s: %v", f.State, f.Message, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Client reports whether the failure is the caller's fault.
func (f *Failure) Client() bool {
	return f.Status >= 400 && f.Status < 500
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}

func badRequest(state State, message string, err error) *Failure {
	return &Failure{State: state, Kind: services.Kind(err), Status: http.StatusBadRequest, Message: message, Err: err}
}

func serverError(state State, message string, err error) *Failure {
	kind := services.Kind(err)
	if kind == "" {
		kind = "internal"
	}
	return &Failure{State: state, Kind: kind, Status: http.StatusInternalServerError, Message: message, Err: err}
}
