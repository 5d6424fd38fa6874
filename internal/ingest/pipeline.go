package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"studivio/internal/archive"
	"studivio/internal/extract"
	"studivio/internal/fileutil"
	"studivio/internal/logging"
	"studivio/internal/notifications"
	"studivio/internal/services"
	"studivio/internal/services/assemblyai"
	"studivio/internal/services/llm"
	"studivio/internal/services/youtube"
	"studivio/internal/store"
)

// NoteWriter persists generated notes.
type NoteWriter interface {
	CreateNote(ctx context.Context, in store.NoteInput) (string, error)
}

// Upload is one uploaded file as received by the API.
type Upload struct {
	// Present is false when the request carried no file part at all.
	Present  bool
	Filename string
	Size     int64
	Data     []byte
	UserID   string
}

// Result describes the note an ingestion produced.
type Result struct {
	NoteID     string
	Title      string
	Content    string
	SourceFile string
	Transcript string
}

// Pipeline wires the gateways and the note store together. All fields are
// set explicitly at startup; Archive, Notifier, Transcripts, and Logger are
// optional.
type Pipeline struct {
	Extractor   *extract.Extractor
	Transcriber assemblyai.Transcriber
	Summariser  llm.Summariser
	Transcripts youtube.TranscriptSource
	Notes       NoteWriter
	Archive     archive.Archiver
	Notifier    notifications.Service
	TempDir     string
	Logger      *slog.Logger
}

// run tracks one ingestion through the state machine.
type run struct {
	p      *Pipeline
	ctx    context.Context
	logger *slog.Logger
	state  State
}

func (p *Pipeline) start(ctx context.Context, kind, source string) *run {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(p.Logger, "ingest")).With(
		logging.String("ingest_kind", kind),
		logging.String("source", source),
	)
	r := &run{p: p, ctx: ctx, logger: logger}
	r.advance(StateReceived)
	return r
}

func (r *run) advance(state State) {
	r.state = state
	r.logger.Debug("ingest state changed", logging.String(logging.FieldIngestState, string(state)))
}

// fail records the failure, logs it, and sends a notification for server-side
// failures.
func (r *run) fail(f *Failure, source string) (Result, error) {
	attrs := []logging.Attr{
		logging.String(logging.FieldIngestState, string(StateFailed)),
		logging.String("failed_after", string(f.State)),
		logging.String("error_kind", f.Kind),
		logging.Int("status", f.Status),
		logging.String("error_message", f.Message),
	}
	if f.Err != nil {
		attrs = append(attrs, logging.Error(f.Err))
	}
	r.state = StateFailed
	if f.Client() {
		r.logger.Info("ingest rejected", logging.Args(attrs...)...)
		return Result{}, f
	}
	logging.ErrorWithContext(r.logger, "ingest failed", "ingest_failed", attrs...)
	if r.p.Notifier != nil {
		if err := r.p.Notifier.NotifyIngestFailed(r.ctx, source, f.Message); err != nil {
			r.logger.Debug("failure notification not sent", logging.Error(err))
		}
	}
	return Result{}, f
}

func (r *run) archive(user, filename string, data []byte) string {
	if r.p.Archive == nil {
		return ""
	}
	key, err := r.p.Archive.Store(r.ctx, user, filename, data)
	if err != nil {
		logging.WarnWithContext(r.logger, "artifact archive failed", "archive_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check object storage reachability and credentials"),
			logging.String(logging.FieldImpact, "note is created without an archived source"),
		)
		return ""
	}
	return key
}

func (r *run) summarise(text, contentType string) (string, *Failure) {
	summary, err := r.p.Summariser.Summarise(r.ctx, text, contentType)
	if err != nil {
		if errors.Is(err, llm.ErrEmptySummary) {
			return "", serverError(r.state, MsgSummaryEmpty, err)
		}
		return "", serverError(r.state, MsgSummaryDown, err)
	}
	if strings.TrimSpace(summary) == "" {
		return "", serverError(r.state, MsgSummaryEmpty, errors.New("empty summary"))
	}
	r.advance(StateSummarised)
	return summary, nil
}

func (r *run) persist(in store.NoteInput) (string, *Failure) {
	id, err := r.p.Notes.CreateNote(r.ctx, in)
	if err != nil {
		return "", serverError(r.state, MsgStorageFailed, err)
	}
	r.advance(StatePersisted)
	r.logger.Info("note created from upload",
		logging.String("note_id", id),
		logging.String("content_type", in.ContentType),
	)
	if r.p.Notifier != nil {
		if err := r.p.Notifier.NotifyNoteReady(r.ctx, in.UserID, in.Title); err != nil {
			r.logger.Debug("note notification not sent", logging.Error(err))
		}
	}
	return id, nil
}

// IngestPDF validates, extracts, summarises, and stores a PDF upload.
func (p *Pipeline) IngestPDF(ctx context.Context, up Upload) (Result, error) {
	r := p.start(ctx, "pdf", up.Filename)
	limits := p.Extractor.Limits()

	if !up.Present {
		return r.fail(badRequest(r.state, MsgDocumentRequired, services.Wrap(services.ErrValidation, "ingest", "pdf", "no file part", nil)), up.Filename)
	}
	if err := p.Extractor.ValidatePDF(up.Filename, up.Size); err != nil {
		var message string
		switch {
		case errors.Is(err, extract.ErrMissingFilename):
			message = MsgDocumentNameRequired
		case errors.Is(err, extract.ErrFileTooLarge):
			message = fmt.Sprintf(MsgDocumentTooLarge, limits.MaxPDFMB())
		default:
			message = MsgDocumentNotPDF
		}
		return r.fail(badRequest(r.state, message, err), up.Filename)
	}
	r.advance(StateValidated)

	objectKey := r.archive(up.UserID, up.Filename, up.Data)

	doc, err := p.Extractor.PDF(up.Data)
	if err != nil {
		message := MsgDocumentCorrupt
		if errors.Is(err, extract.ErrEmptyDocument) {
			message = MsgDocumentNoText
		}
		return r.fail(badRequest(r.state, message, err), up.Filename)
	}
	r.advance(StateExtracted)
	r.logger.Debug("pdf text extracted",
		logging.Int("pages", doc.Pages),
		logging.Int("skipped_pages", doc.SkippedPages),
	)

	summary, failure := r.summarise(doc.Text, llm.ContentPDF)
	if failure != nil {
		return r.fail(failure, up.Filename)
	}

	note := store.NoteInput{
		Title:          "Document Summary: " + up.Filename,
		Content:        summary,
		ContentType:    store.ContentPDFSummary,
		Format:         store.FormatText,
		UserID:         up.UserID,
		SourceDocument: up.Filename,
		SourceObject:   objectKey,
		DocumentSize:   up.Size,
	}
	id, failure := r.persist(note)
	if failure != nil {
		return r.fail(failure, up.Filename)
	}
	return Result{NoteID: id, Title: note.Title, Content: summary, SourceFile: up.Filename}, nil
}

// IngestAudio validates, transcribes, summarises, and stores an audio upload.
func (p *Pipeline) IngestAudio(ctx context.Context, up Upload) (Result, error) {
	r := p.start(ctx, "audio", up.Filename)
	limits := p.Extractor.Limits()

	if !up.Present {
		return r.fail(badRequest(r.state, MsgAudioRequired, services.Wrap(services.ErrValidation, "ingest", "audio", "no file part", nil)), up.Filename)
	}
	if err := p.Extractor.ValidateAudio(up.Filename, up.Size); err != nil {
		var message string
		switch {
		case errors.Is(err, extract.ErrMissingFilename):
			message = MsgAudioNameRequired
		case errors.Is(err, extract.ErrFileTooLarge):
			message = fmt.Sprintf(MsgAudioTooLarge, limits.MaxAudioMB())
		default:
			message = fmt.Sprintf(MsgAudioUnsupported, strings.Join(limits.AudioExtensions, ", "))
		}
		return r.fail(badRequest(r.state, message, err), up.Filename)
	}
	r.advance(StateValidated)

	objectKey := r.archive(up.UserID, up.Filename, up.Data)

	var transcript string
	err := fileutil.WithTempFile(p.TempDir, up.Filename, up.Data, func(path string) error {
		var err error
		transcript, err = p.Transcriber.Transcribe(ctx, path)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, assemblyai.ErrNoSpeechDetected):
			return r.fail(badRequest(r.state, MsgNoSpeech, err), up.Filename)
		case errors.Is(err, assemblyai.ErrTranscriptionFailed):
			return r.fail(serverError(r.state, MsgTranscriptionFailed, err), up.Filename)
		default:
			return r.fail(serverError(r.state, MsgTranscriptionDown, err), up.Filename)
		}
	}
	r.advance(StateTranscribed)
	r.advance(StateExtracted)

	summary, failure := r.summarise(transcript, llm.ContentAudio)
	if failure != nil {
		return r.fail(failure, up.Filename)
	}

	note := store.NoteInput{
		Title:        "Voice Note: " + up.Filename,
		Content:      summary,
		ContentType:  store.ContentVoiceTranscription,
		Format:       store.FormatText,
		UserID:       up.UserID,
		SourceAudio:  up.Filename,
		SourceObject: objectKey,
		AudioSize:    up.Size,
		Transcript:   transcript,
	}
	id, failure := r.persist(note)
	if failure != nil {
		return r.fail(failure, up.Filename)
	}
	return Result{NoteID: id, Title: note.Title, Content: summary, SourceFile: up.Filename, Transcript: transcript}, nil
}

// IngestYouTube fetches a video's captions, summarises them, and stores the
// note. videoRef may be a URL or a bare video id.
func (p *Pipeline) IngestYouTube(ctx context.Context, videoRef, user string) (Result, error) {
	r := p.start(ctx, "youtube", videoRef)

	videoRef = strings.TrimSpace(videoRef)
	if videoRef == "" {
		return r.fail(badRequest(r.state, MsgVideoURLRequired, services.Wrap(services.ErrValidation, "ingest", "youtube", "no url", nil)), videoRef)
	}
	parseID := youtube.BareVideoID
	if strings.Contains(videoRef, "/") {
		parseID = youtube.VideoID
	}
	videoID, err := parseID(videoRef)
	if err != nil {
		return r.fail(badRequest(r.state, MsgVideoURLInvalid, err), videoRef)
	}
	if p.Transcripts == nil {
		return r.fail(serverError(r.state, MsgTranscriptDown, services.Wrap(services.ErrConfiguration, "ingest", "youtube", "no transcript source", nil)), videoRef)
	}
	r.advance(StateValidated)

	transcript, err := p.Transcripts.Transcript(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrNoTranscript) {
			return r.fail(badRequest(r.state, MsgNoTranscript, err), videoRef)
		}
		return r.fail(serverError(r.state, MsgTranscriptDown, err), videoRef)
	}
	r.advance(StateTranscribed)
	r.advance(StateExtracted)

	summary, failure := r.summarise(transcript, llm.ContentYouTube)
	if failure != nil {
		return r.fail(failure, videoRef)
	}

	sourceURL := "https://www.youtube.com/watch?v=" + videoID
	note := store.NoteInput{
		Title:       "Video Summary: " + videoID,
		Content:     summary,
		ContentType: store.ContentYouTubeSummary,
		Format:      store.FormatText,
		UserID:      user,
		SourceURL:   sourceURL,
		Transcript:  transcript,
	}
	id, failure := r.persist(note)
	if failure != nil {
		return r.fail(failure, videoRef)
	}
	return Result{NoteID: id, Title: note.Title, Content: summary, SourceFile: sourceURL, Transcript: transcript}, nil
}

// SummariseText summarises text without storing anything.
func (p *Pipeline) SummariseText(ctx context.Context, text, contentType string) (string, error) {
	r := p.start(ctx, "text", contentType)
	if strings.TrimSpace(text) == "" {
		_, err := r.fail(badRequest(r.state, MsgTextRequired, services.Wrap(services.ErrValidation, "ingest", "text", "empty input", nil)), contentType)
		return "", err
	}
	r.advance(StateValidated)
	summary, failure := r.summarise(text, contentType)
	if failure != nil {
		_, err := r.fail(failure, contentType)
		return "", err
	}
	return summary, nil
}
