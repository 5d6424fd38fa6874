package api

import "studivio/internal/store"

// CredentialsRequest is the body of /Register and /Login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResponse is returned by a successful /Login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message"`
	Username    string `json:"username"`
}

// NoteRequest is the body of POST /notes and PUT /notes/{id}. Pointers
// distinguish omitted fields from blank ones on update.
type NoteRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	ContentType *string `json:"content_type"`
	Format      *string `json:"format"`
}

// NoteCreatedResponse is returned by POST /notes.
type NoteCreatedResponse struct {
	NoteID  string `json:"note_id"`
	Message string `json:"message"`
}

// TodoRequest is the body of POST /todos.
type TodoRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	DueDate     string `json:"due_date" validate:"required"`
	Priority    string `json:"priority" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

// TodoPatchRequest is the body of PUT /todos/{id}.
type TodoPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

// TaskRequest is the body of POST /tasks.
type TaskRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Time        string `json:"time"`
	Status      string `json:"status"`
}

// TaskPatchRequest is the body of PUT /tasks/{id}.
type TaskPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Time        *string `json:"time"`
	Status      *string `json:"status"`
}

// YouTubeRequest is the body of POST /summariser/youtube. Either field may
// carry the video reference.
type YouTubeRequest struct {
	URL     string `json:"url"`
	VideoID string `json:"video_id"`
}

// IngestResponse is returned by every ingestion route on success.
type IngestResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	NoteID     string `json:"note_id"`
	Content    string `json:"content"`
	SourceFile string `json:"source_file"`
}

// StatusResponse is returned by GET /.
type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (r NoteRequest) patch() store.NotePatch {
	return store.NotePatch{
		Title:       r.Title,
		Content:     r.Content,
		ContentType: r.ContentType,
		Format:      r.Format,
	}
}

func (r TodoPatchRequest) patch() store.TodoPatch {
	return store.TodoPatch{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Status:      r.Status,
	}
}

func (r TaskPatchRequest) patch() store.TaskPatch {
	return store.TaskPatch{
		Name:        r.Name,
		Description: r.Description,
		Priority:    r.Priority,
		Time:        r.Time,
		Status:      r.Status,
	}
}
