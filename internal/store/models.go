package store

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMissingField reports a required field that was absent or blank.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField reports a field value outside its allowed set.
	ErrInvalidField = errors.New("invalid field value")
)

// Note content types.
const (
	ContentManual             = "manual"
	ContentPDFSummary         = "pdf_summary"
	ContentVoiceTranscription = "voice_transcription"
	ContentYouTubeSummary     = "youtube_summary"
)

// FormatText is the only note body format.
const FormatText = "text"

// TaskStatusPending is the status a task starts in.
const TaskStatusPending = "pending"

var noteContentTypes = map[string]struct{}{
	ContentManual:             {},
	ContentPDFSummary:         {},
	ContentVoiceTranscription: {},
	ContentYouTubeSummary:     {},
}

// User is a registered account.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Note is an owned, timestamped text record.
type Note struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	ContentType    string    `json:"content_type"`
	Format         string    `json:"format"`
	UserID         string    `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	SourceDocument string    `json:"source_document,omitempty"`
	SourceAudio    string    `json:"source_audio,omitempty"`
	SourceURL      string    `json:"source_url,omitempty"`
	SourceObject   string    `json:"source_object,omitempty"`
	Transcript     string    `json:"transcript,omitempty"`
	DocumentSize   int64     `json:"document_size,omitempty"`
	AudioSize      int64     `json:"audio_size,omitempty"`
}

// NoteInput carries the fields accepted when creating a note. Blank
// ContentType and Format fall back to manual and text.
type NoteInput struct {
	Title          string
	Content        string
	ContentType    string
	Format         string
	UserID         string
	SourceDocument string
	SourceAudio    string
	SourceURL      string
	SourceObject   string
	Transcript     string
	DocumentSize   int64
	AudioSize      int64
}

// NotePatch lists the note fields an update may change. Nil fields are left
// untouched.
type NotePatch struct {
	Title       *string
	Content     *string
	ContentType *string
	Format      *string
}

// Todo is a dated work item.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoInput carries the fields accepted when creating a todo. All fields but
// UserID are required.
type TodoInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	UserID      string
}

// TodoPatch lists the todo fields an update may change.
type TodoPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
}

// Task is the per-user dashboard task.
type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Time        string    `json:"time"`
	Username    string    `json:"username"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskInput carries the fields accepted when creating a task.
type TaskInput struct {
	Name        string
	Description string
	Priority    string
	Time        string
	Username    string
	Status      string
}

// TaskPatch lists the task fields an update may change.
type TaskPatch struct {
	Name        *string
	Description *string
	Priority    *string
	Time        *string
	Status      *string
}

// validID reports whether value is a well-formed record identifier.
func validID(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

func newID() string {
	return uuid.NewString()
}

// applyString copies *src into dst when src is set and reports whether dst changed.
func applyString(dst *string, src *string) bool {
	if src == nil || *dst == *src {
		return false
	}
	*dst = *src
	return true
}
