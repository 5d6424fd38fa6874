package ingest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"studivio/internal/extract"
	"studivio/internal/ingest"
	"studivio/internal/logging"
	"studivio/internal/services"
	"studivio/internal/services/assemblyai"
	"studivio/internal/services/llm"
	"studivio/internal/services/youtube"
	"studivio/internal/store"
	"studivio/internal/testsupport"
)

type fakeSummariser struct {
	mu    sync.Mutex
	calls []string
	types []string
	out   string
	err   error
}

func (f *fakeSummariser) Summarise(_ context.Context, text, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	f.types = append(f.types, contentType)
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeTranscriber struct {
	text     string
	err      error
	seenPath string
	existed  bool
}

func (f *fakeTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	f.seenPath = path
	_, statErr := os.Stat(path)
	f.existed = statErr == nil
	return f.text, f.err
}

type fakeNotes struct {
	notes []store.NoteInput
	err   error
}

func (f *fakeNotes) CreateNote(_ context.Context, in store.NoteInput) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.notes = append(f.notes, in)
	return "note-1", nil
}

type fakeTranscripts struct {
	text string
	err  error
}

func (f fakeTranscripts) Transcript(context.Context, string) (string, error) {
	return f.text, f.err
}

type fakeNotifier struct {
	ready  []string
	failed []string
}

func (f *fakeNotifier) NotifyNoteReady(_ context.Context, _ string, title string) error {
	f.ready = append(f.ready, title)
	return nil
}

func (f *fakeNotifier) NotifyIngestFailed(_ context.Context, _ string, reason string) error {
	f.failed = append(f.failed, reason)
	return nil
}

func (f *fakeNotifier) TestNotification(context.Context) error { return nil }

type fakeArchive struct {
	err error
}

func (f fakeArchive) Store(_ context.Context, user, filename string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return user + "/" + filename, nil
}

type fixture struct {
	pipeline    *ingest.Pipeline
	summariser  *fakeSummariser
	transcriber *fakeTranscriber
	notes       *fakeNotes
	notifier    *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		summariser:  &fakeSummariser{out: "a tidy summary"},
		transcriber: &fakeTranscriber{text: "hello from the lecture hall"},
		notes:       &fakeNotes{},
		notifier:    &fakeNotifier{},
	}
	f.pipeline = &ingest.Pipeline{
		Extractor:   extract.New(extract.DefaultLimits(), nil),
		Transcriber: f.transcriber,
		Summariser:  f.summariser,
		Transcripts: fakeTranscripts{text: "video words"},
		Notes:       f.notes,
		Notifier:    f.notifier,
		TempDir:     t.TempDir(),
	}
	return f
}

func expectFailure(t *testing.T, err error, status int, message string) *ingest.Failure {
	t.Helper()
	failure, ok := ingest.AsFailure(err)
	if !ok {
		t.Fatalf("expected *ingest.Failure, got %v", err)
	}
	if failure.Status != status {
		t.Fatalf("status = %d, want %d (%v)", failure.Status, status, err)
	}
	if failure.Message != message {
		t.Fatalf("message = %q, want %q", failure.Message, message)
	}
	return failure
}

func pdfUpload(t *testing.T, name string, data []byte) ingest.Upload {
	t.Helper()
	return ingest.Upload{Present: true, Filename: name, Size: int64(len(data)), Data: data, UserID: "alice"}
}

func TestIngestPDFCreatesNote(t *testing.T) {
	f := newFixture(t)
	f.pipeline.Archive = fakeArchive{}
	data := testsupport.PDF(t, "Photosynthesis converts light", "Chlorophyll absorbs red light")

	res, err := f.pipeline.IngestPDF(context.Background(), pdfUpload(t, "bio.pdf", data))
	if err != nil {
		t.Fatalf("IngestPDF: %v", err)
	}
	if res.NoteID != "note-1" || res.Content != "a tidy summary" || res.SourceFile != "bio.pdf" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(f.notes.notes) != 1 {
		t.Fatalf("expected one stored note, got %d", len(f.notes.notes))
	}
	note := f.notes.notes[0]
	if note.Title != "Document Summary: bio.pdf" || note.ContentType != store.ContentPDFSummary {
		t.Fatalf("unexpected note %+v", note)
	}
	if note.SourceDocument != "bio.pdf" || note.DocumentSize != int64(len(data)) || note.UserID != "alice" {
		t.Fatalf("unexpected provenance %+v", note)
	}
	if note.SourceObject != "alice/bio.pdf" {
		t.Fatalf("source object = %q", note.SourceObject)
	}
	if f.summariser.types[0] != llm.ContentPDF {
		t.Fatalf("content type = %q", f.summariser.types[0])
	}
	text := f.summariser.calls[0]
	if strings.Index(text, "Photosynthesis") > strings.Index(text, "Chlorophyll") {
		t.Fatalf("pages out of order: %q", text)
	}
	if len(f.notifier.ready) != 1 {
		t.Fatalf("expected ready notification, got %v", f.notifier.ready)
	}
}

func TestIngestPDFValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.pipeline.IngestPDF(ctx, ingest.Upload{})
	expectFailure(t, err, http.StatusBadRequest, "Document upload required")

	_, err = f.pipeline.IngestPDF(ctx, ingest.Upload{Present: true})
	expectFailure(t, err, http.StatusBadRequest, "Please choose a document to upload")

	_, err = f.pipeline.IngestPDF(ctx, pdfUpload(t, "notes.docx", []byte("x")))
	expectFailure(t, err, http.StatusBadRequest, "Document must be in PDF format")

	big := ingest.Upload{Present: true, Filename: "big.pdf", Size: 26 * 1024 * 1024}
	failure := expectFailure(t, mustErr(f.pipeline.IngestPDF(ctx, big)), http.StatusBadRequest, "Document size exceeds 25MB limit")
	if failure.State != ingest.StateReceived {
		t.Fatalf("state = %q, want received", failure.State)
	}
	if len(f.summariser.calls) != 0 || len(f.notes.notes) != 0 {
		t.Fatal("validation failure must not reach the summariser or store")
	}
	if len(f.notifier.failed) != 0 {
		t.Fatalf("client errors must not notify, got %v", f.notifier.failed)
	}
}

func mustErr(_ ingest.Result, err error) error { return err }

func TestIngestPDFImageOnlyIsBadRequest(t *testing.T) {
	f := newFixture(t)
	data := testsupport.PDF(t, "")
	_, err := f.pipeline.IngestPDF(context.Background(), pdfUpload(t, "scan.pdf", data))
	failure := expectFailure(t, err, http.StatusBadRequest, "Unable to extract readable text from document")
	if failure.State != ingest.StateValidated {
		t.Fatalf("state = %q, want validated", failure.State)
	}
	if !errors.Is(err, extract.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument in chain, got %v", err)
	}
}

func TestIngestPDFCorruptIsBadRequest(t *testing.T) {
	f := newFixture(t)
	_, err := f.pipeline.IngestPDF(context.Background(), pdfUpload(t, "junk.pdf", []byte("not a pdf at all")))
	expectFailure(t, err, http.StatusBadRequest, "Document appears to be corrupted or unreadable")
}

func TestIngestPDFSummaryFailures(t *testing.T) {
	data := testsupport.PDF(t, "Some readable words")

	f := newFixture(t)
	f.summariser.err = services.Wrap(services.ErrUpstream, "llm", "summarise", "empty", llm.ErrEmptySummary)
	_, err := f.pipeline.IngestPDF(context.Background(), pdfUpload(t, "a.pdf", data))
	expectFailure(t, err, http.StatusInternalServerError, "AI summary generation unsuccessful")
	if len(f.notifier.failed) != 1 {
		t.Fatalf("expected failure notification, got %v", f.notifier.failed)
	}

	f = newFixture(t)
	f.summariser.err = services.Wrap(services.ErrUpstream, "llm", "summarise", "http 503", nil)
	_, err = f.pipeline.IngestPDF(context.Background(), pdfUpload(t, "a.pdf", data))
	failure := expectFailure(t, err, http.StatusInternalServerError, "Summary generation service unavailable")
	if failure.Kind != "upstream" {
		t.Fatalf("kind = %q", failure.Kind)
	}

	f = newFixture(t)
	f.notes.err = errors.New("disk full")
	_, err = f.pipeline.IngestPDF(context.Background(), pdfUpload(t, "a.pdf", data))
	failure = expectFailure(t, err, http.StatusInternalServerError, "Note storage failed")
	if failure.State != ingest.StateSummarised {
		t.Fatalf("state = %q, want summarised", failure.State)
	}
}

func TestIngestPDFArchiveFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.pipeline.Archive = fakeArchive{err: errors.New("bucket offline")}
	data := testsupport.PDF(t, "Readable")
	if _, err := f.pipeline.IngestPDF(context.Background(), pdfUpload(t, "a.pdf", data)); err != nil {
		t.Fatalf("IngestPDF: %v", err)
	}
	if f.notes.notes[0].SourceObject != "" {
		t.Fatalf("expected no source object, got %q", f.notes.notes[0].SourceObject)
	}
}

func TestIngestAudioCreatesNoteAndRemovesTempFile(t *testing.T) {
	f := newFixture(t)
	data := testsupport.Bytes(t, 2048)
	res, err := f.pipeline.IngestAudio(context.Background(), pdfUpload(t, "lecture.MP3", data))
	if err != nil {
		t.Fatalf("IngestAudio: %v", err)
	}
	if res.Transcript != "hello from the lecture hall" {
		t.Fatalf("transcript = %q", res.Transcript)
	}
	if !f.transcriber.existed {
		t.Fatal("transcriber should see the temp file")
	}
	if _, err := os.Stat(f.transcriber.seenPath); !os.IsNotExist(err) {
		t.Fatalf("temp file should be removed, stat err = %v", err)
	}
	note := f.notes.notes[0]
	if note.Title != "Voice Note: lecture.MP3" || note.ContentType != store.ContentVoiceTranscription {
		t.Fatalf("unexpected note %+v", note)
	}
	if note.SourceAudio != "lecture.MP3" || note.AudioSize != 2048 || note.Transcript == "" {
		t.Fatalf("unexpected provenance %+v", note)
	}
	if f.summariser.types[0] != llm.ContentAudio {
		t.Fatalf("content type = %q", f.summariser.types[0])
	}
}

func TestIngestAudioValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.pipeline.IngestAudio(ctx, ingest.Upload{})
	expectFailure(t, err, http.StatusBadRequest, "Audio file upload required")

	_, err = f.pipeline.IngestAudio(ctx, ingest.Upload{Present: true})
	expectFailure(t, err, http.StatusBadRequest, "Please choose an audio file to upload")

	_, err = f.pipeline.IngestAudio(ctx, pdfUpload(t, "notes.txt", []byte("x")))
	expectFailure(t, err, http.StatusBadRequest, "Audio format not supported. Use: mp3, wav, m4a, mp4, webm")

	big := ingest.Upload{Present: true, Filename: "big.wav", Size: 51 * 1024 * 1024}
	_, err = f.pipeline.IngestAudio(ctx, big)
	expectFailure(t, err, http.StatusBadRequest, "Audio file size exceeds 50MB limit")
}

func TestIngestAudioTranscriptionFailures(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"no speech", services.Wrap(services.ErrValidation, "assemblyai", "transcribe", "short", assemblyai.ErrNoSpeechDetected), http.StatusBadRequest, "No clear speech detected in audio"},
		{"failed", services.Wrap(services.ErrUpstream, "assemblyai", "transcribe", "error status", assemblyai.ErrTranscriptionFailed), http.StatusInternalServerError, "Audio transcription failed"},
		{"unavailable", services.Wrap(services.ErrUpstream, "assemblyai", "upload", "dial", nil), http.StatusInternalServerError, "Audio transcription service unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.transcriber.err = tc.err
			_, err := f.pipeline.IngestAudio(context.Background(), pdfUpload(t, "a.wav", []byte("RIFF")))
			expectFailure(t, err, tc.status, tc.message)
			if _, statErr := os.Stat(f.transcriber.seenPath); !os.IsNotExist(statErr) {
				t.Fatalf("temp file should be removed after failure")
			}
		})
	}
}

func TestIngestYouTube(t *testing.T) {
	f := newFixture(t)
	res, err := f.pipeline.IngestYouTube(context.Background(), "https://www.youtube.com/watch?v=abc123XYZ_-", "alice")
	if err != nil {
		t.Fatalf("IngestYouTube: %v", err)
	}
	if res.SourceFile != "https://www.youtube.com/watch?v=abc123XYZ_-" {
		t.Fatalf("source = %q", res.SourceFile)
	}
	note := f.notes.notes[0]
	if note.ContentType != store.ContentYouTubeSummary || note.Transcript != "video words" {
		t.Fatalf("unexpected note %+v", note)
	}
	if f.summariser.types[0] != llm.ContentYouTube {
		t.Fatalf("content type = %q", f.summariser.types[0])
	}

	_, err = f.pipeline.IngestYouTube(context.Background(), "https://example.com/video", "alice")
	expectFailure(t, err, http.StatusBadRequest, "Invalid YouTube URL")

	f.pipeline.Transcripts = fakeTranscripts{err: services.Wrap(services.ErrValidation, "youtube", "transcript", "none", youtube.ErrNoTranscript)}
	_, err = f.pipeline.IngestYouTube(context.Background(), "abc123", "alice")
	expectFailure(t, err, http.StatusBadRequest, "No transcript available for this video")
}

func TestIngestYouTubeRejectsMalformedBareID(t *testing.T) {
	for _, ref := range []string{"watch?v=abc", "a b", "abc&t=10"} {
		f := newFixture(t)
		_, err := f.pipeline.IngestYouTube(context.Background(), ref, "alice")
		expectFailure(t, err, http.StatusBadRequest, "Invalid YouTube URL")
		if len(f.notes.notes) != 0 {
			t.Fatalf("no note expected for %q", ref)
		}
	}
}

// stateLog captures the ingest_state values a run logs, in order.
func stateLog(t *testing.T, p *ingest.Pipeline) func() []string {
	t.Helper()
	var buf bytes.Buffer
	p.Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return func() []string {
		var states []string
		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			var entry map[string]any
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("decode log line %q: %v", line, err)
			}
			if entry["msg"] != "ingest state changed" {
				continue
			}
			if state, ok := entry[logging.FieldIngestState].(string); ok {
				states = append(states, state)
			}
		}
		return states
	}
}

func TestIngestStateTransitions(t *testing.T) {
	want := "received,validated,transcribed,extracted,summarised,persisted"

	f := newFixture(t)
	states := stateLog(t, f.pipeline)
	if _, err := f.pipeline.IngestAudio(context.Background(), pdfUpload(t, "lecture.mp3", []byte("ID3"))); err != nil {
		t.Fatalf("IngestAudio: %v", err)
	}
	if got := strings.Join(states(), ","); got != want {
		t.Fatalf("audio states = %s, want %s", got, want)
	}

	f = newFixture(t)
	states = stateLog(t, f.pipeline)
	if _, err := f.pipeline.IngestYouTube(context.Background(), "abc123", "alice"); err != nil {
		t.Fatalf("IngestYouTube: %v", err)
	}
	if got := strings.Join(states(), ","); got != want {
		t.Fatalf("youtube states = %s, want %s", got, want)
	}
}

func TestSummariseText(t *testing.T) {
	f := newFixture(t)
	got, err := f.pipeline.SummariseText(context.Background(), "some text", "general")
	if err != nil || got != "a tidy summary" {
		t.Fatalf("SummariseText = %q, %v", got, err)
	}
	if len(f.notes.notes) != 0 {
		t.Fatal("text summaries must not be stored")
	}
	_, err = f.pipeline.SummariseText(context.Background(), "   ", "general")
	expectFailure(t, err, http.StatusBadRequest, "Text to summarise is required")
}

func TestIngestPDFWithStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	f := newFixture(t)
	f.pipeline.Notes = st

	res, err := f.pipeline.IngestPDF(context.Background(), pdfUpload(t, "chem.pdf", testsupport.PDF(t, "Covalent bonds")))
	if err != nil {
		t.Fatalf("IngestPDF: %v", err)
	}
	note, err := st.GetNote(context.Background(), res.NoteID)
	if err != nil || note == nil {
		t.Fatalf("GetNote: %v %v", note, err)
	}
	if note.UserID != "alice" || note.ContentType != store.ContentPDFSummary {
		t.Fatalf("unexpected stored note %+v", note)
	}
}
