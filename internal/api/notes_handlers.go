package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"studivio/internal/logging"
	"studivio/internal/store"
)

const (
	msgNoteNotFound = "Note not found"
	msgUnauthorized = "Unauthorized access"
)

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "No data provided")
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		respondMessage(w, r, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Content == nil || strings.TrimSpace(*req.Content) == "" {
		respondMessage(w, r, http.StatusBadRequest, "Content is required")
		return
	}
	in := store.NoteInput{
		Title:   *req.Title,
		Content: *req.Content,
		UserID:  currentUser(r),
	}
	if req.ContentType != nil {
		in.ContentType = *req.ContentType
	}
	if req.Format != nil {
		in.Format = *req.Format
	}
	id, err := s.store.CreateNote(r.Context(), in)
	if err != nil {
		if errors.Is(err, store.ErrInvalidField) || errors.Is(err, store.ErrMissingField) {
			respondMessage(w, r, http.StatusBadRequest, "Invalid note data")
			return
		}
		s.requestLogger(r).Error("note creation failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Failed to create note")
		return
	}
	respond(w, r, http.StatusCreated, NoteCreatedResponse{NoteID: id, Message: "Note created successfully"})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListNotesByUser(r.Context(), currentUser(r))
	if err != nil {
		s.requestLogger(r).Error("note listing failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Error getting notes")
		return
	}
	respond(w, r, http.StatusOK, nonNil(notes))
}

// ownedNote loads the note named in the URL and writes 404 or 403 itself
// when the caller cannot use it.
func (s *Server) ownedNote(w http.ResponseWriter, r *http.Request) (*store.Note, bool) {
	note, err := s.store.GetNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.requestLogger(r).Error("note lookup failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Error getting note")
		return nil, false
	}
	if note == nil {
		respondMessage(w, r, http.StatusNotFound, msgNoteNotFound)
		return nil, false
	}
	if note.UserID != currentUser(r) {
		respondMessage(w, r, http.StatusForbidden, msgUnauthorized)
		return nil, false
	}
	return note, true
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, ok := s.ownedNote(w, r)
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	note, ok := s.ownedNote(w, r)
	if !ok {
		return
	}
	var req NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "No data provided")
		return
	}
	updated, err := s.store.UpdateNote(r.Context(), note.ID, req.patch())
	if err != nil && !errors.Is(err, store.ErrMissingField) && !errors.Is(err, store.ErrInvalidField) {
		s.requestLogger(r).Error("note update failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Update failed")
		return
	}
	if err != nil || !updated {
		respondMessage(w, r, http.StatusBadRequest, "Update failed")
		return
	}
	respondMessage(w, r, http.StatusOK, "Note updated successfully")
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	note, ok := s.ownedNote(w, r)
	if !ok {
		return
	}
	deleted, err := s.store.DeleteNote(r.Context(), note.ID)
	if err != nil {
		s.requestLogger(r).Error("note delete failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Delete failed")
		return
	}
	if !deleted {
		respondMessage(w, r, http.StatusBadRequest, "Delete failed")
		return
	}
	respondMessage(w, r, http.StatusOK, "Note deleted successfully")
}
