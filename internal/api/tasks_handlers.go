package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"studivio/internal/logging"
	"studivio/internal/store"
)

const msgTaskNotFound = "Task not found"

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid data")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid data")
		return
	}
	id, err := s.store.CreateTask(r.Context(), store.TaskInput{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Time:        req.Time,
		Status:      req.Status,
		Username:    currentUser(r),
	})
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			respondMessage(w, r, http.StatusBadRequest, "Invalid data")
			return
		}
		s.requestLogger(r).Error("task creation failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Failed to create task")
		return
	}
	respond(w, r, http.StatusCreated, render.M{"task_id": id})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasksByUser(r.Context(), currentUser(r))
	if err != nil {
		s.requestLogger(r).Error("task listing failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Error getting tasks")
		return
	}
	respond(w, r, http.StatusOK, nonNil(tasks))
}

func (s *Server) ownedTask(w http.ResponseWriter, r *http.Request) (*store.Task, bool) {
	task, err := s.store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.requestLogger(r).Error("task lookup failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Error getting task")
		return nil, false
	}
	if task == nil {
		respondMessage(w, r, http.StatusNotFound, msgTaskNotFound)
		return nil, false
	}
	if task.Username != currentUser(r) {
		respondMessage(w, r, http.StatusForbidden, msgUnauthorized)
		return nil, false
	}
	return task, true
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.ownedTask(w, r)
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.ownedTask(w, r)
	if !ok {
		return
	}
	var req TaskPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid data")
		return
	}
	if _, err := s.store.UpdateTask(r.Context(), task.ID, req.patch()); err != nil {
		if errors.Is(err, store.ErrMissingField) {
			respondMessage(w, r, http.StatusBadRequest, "Invalid data")
			return
		}
		s.requestLogger(r).Error("task update failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Update failed")
		return
	}
	respondMessage(w, r, http.StatusOK, "Task updated successfully")
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.ownedTask(w, r)
	if !ok {
		return
	}
	deleted, err := s.store.DeleteTask(r.Context(), task.ID)
	if err != nil {
		s.requestLogger(r).Error("task delete failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Delete failed")
		return
	}
	if !deleted {
		respondMessage(w, r, http.StatusNotFound, msgTaskNotFound)
		return
	}
	respondMessage(w, r, http.StatusOK, "Task deleted successfully")
}
