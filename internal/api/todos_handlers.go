package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"studivio/internal/logging"
	"studivio/internal/store"
)

const msgTodoNotFound = "Todo not found"

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req TodoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid data")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid data")
		return
	}
	id, err := s.store.CreateTodo(r.Context(), store.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		UserID:      s.todoOwner(r),
	})
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			respondMessage(w, r, http.StatusBadRequest, "Invalid data")
			return
		}
		s.requestLogger(r).Error("todo creation failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Failed to create todo")
		return
	}
	respond(w, r, http.StatusCreated, render.M{"todo_id": id})
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.store.ListTodos(r.Context(), s.todoOwner(r))
	if err != nil {
		s.requestLogger(r).Error("todo listing failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Error getting todos")
		return
	}
	respond(w, r, http.StatusOK, nonNil(todos))
}

// todoOwner is the caller when todos require auth, otherwise "".
func (s *Server) todoOwner(r *http.Request) string {
	if !s.opts.TodosRequireAuth {
		return ""
	}
	return currentUser(r)
}

func (s *Server) visibleTodo(w http.ResponseWriter, r *http.Request) (*store.Todo, bool) {
	todo, err := s.store.GetTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.requestLogger(r).Error("todo lookup failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Error getting todo")
		return nil, false
	}
	if todo == nil {
		respondMessage(w, r, http.StatusNotFound, msgTodoNotFound)
		return nil, false
	}
	if owner := s.todoOwner(r); owner != "" && todo.UserID != owner {
		respondMessage(w, r, http.StatusForbidden, msgUnauthorized)
		return nil, false
	}
	return todo, true
}

func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.visibleTodo(w, r)
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, todo)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.visibleTodo(w, r)
	if !ok {
		return
	}
	var req TodoPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid data")
		return
	}
	if _, err := s.store.UpdateTodo(r.Context(), todo.ID, req.patch()); err != nil {
		if errors.Is(err, store.ErrMissingField) {
			respondMessage(w, r, http.StatusBadRequest, "Invalid data")
			return
		}
		s.requestLogger(r).Error("todo update failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Update failed")
		return
	}
	respondMessage(w, r, http.StatusOK, "Todo updated successfully")
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.visibleTodo(w, r)
	if !ok {
		return
	}
	deleted, err := s.store.DeleteTodo(r.Context(), todo.ID)
	if err != nil {
		s.requestLogger(r).Error("todo delete failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Delete failed")
		return
	}
	if !deleted {
		respondMessage(w, r, http.StatusNotFound, msgTodoNotFound)
		return
	}
	respondMessage(w, r, http.StatusOK, "Todo deleted successfully")
}
