package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

const todoColumns = `id, title, description, due_date, priority, status, user_id, created_at, updated_at`

// CreateTodo validates and inserts a todo. Title, description, due date,
// priority, and status are all required.
func (s *Store) CreateTodo(ctx context.Context, in TodoInput) (string, error) {
	const op = "create todo"
	required := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"due_date", in.DueDate},
		{"priority", in.Priority},
		{"status", in.Status},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return "", missingField(op, field.name)
		}
	}

	id := newID()
	now := s.timestamp()
	_, err := s.execWithRetry(ctx,
		`INSERT INTO todos (`+todoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Title, in.Description, in.DueDate, in.Priority, in.Status, in.UserID, now, now,
	)
	if err != nil {
		return "", storageErr("insert todo", err)
	}
	return id, nil
}

// GetTodo returns the todo with the given id, or nil for malformed or unknown ids.
func (s *Store) GetTodo(ctx context.Context, id string) (*Todo, error) {
	if !validID(id) {
		return nil, nil
	}
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get todo", err)
	}
	return todo, nil
}

// ListTodos returns todos ordered by creation time. An empty owner lists every
// todo; otherwise only that owner's todos are returned.
func (s *Store) ListTodos(ctx context.Context, owner string) ([]*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos`
	var args []any
	if owner != "" {
		query += ` WHERE user_id = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, storageErr("list todos", err)
	}
	defer rows.Close()

	todos := make([]*Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, storageErr("scan todo", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list todos", err)
	}
	return todos, nil
}

// UpdateTodo merges the supplied fields and reports whether anything changed.
func (s *Store) UpdateTodo(ctx context.Context, id string, patch TodoPatch) (bool, error) {
	const op = "update todo"
	todo, err := s.GetTodo(ctx, id)
	if err != nil || todo == nil {
		return false, err
	}
	for name, value := range map[string]*string{
		"title":       patch.Title,
		"description": patch.Description,
		"due_date":    patch.DueDate,
		"priority":    patch.Priority,
		"status":      patch.Status,
	} {
		if value != nil && strings.TrimSpace(*value) == "" {
			return false, missingField(op, name)
		}
	}

	changed := false
	changed = applyString(&todo.Title, patch.Title) || changed
	changed = applyString(&todo.Description, patch.Description) || changed
	changed = applyString(&todo.DueDate, patch.DueDate) || changed
	changed = applyString(&todo.Priority, patch.Priority) || changed
	changed = applyString(&todo.Status, patch.Status) || changed
	if !changed {
		return false, nil
	}

	res, err := s.execWithRetry(ctx,
		`UPDATE todos SET title = ?, description = ?, due_date = ?, priority = ?, status = ?, updated_at = ? WHERE id = ?`,
		todo.Title, todo.Description, todo.DueDate, todo.Priority, todo.Status, s.timestamp(), id,
	)
	if err != nil {
		return false, storageErr(op, err)
	}
	return affected(res), nil
}

// DeleteTodo removes a todo and reports whether a row was deleted.
func (s *Store) DeleteTodo(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	res, err := s.execWithRetry(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return false, storageErr("delete todo", err)
	}
	return affected(res), nil
}

func scanTodo(row rowScanner) (*Todo, error) {
	var (
		todo             Todo
		created, updated string
	)
	if err := row.Scan(
		&todo.ID, &todo.Title, &todo.Description, &todo.DueDate, &todo.Priority, &todo.Status,
		&todo.UserID, &created, &updated,
	); err != nil {
		return nil, err
	}
	todo.CreatedAt = parseTime(created)
	todo.UpdatedAt = parseTime(updated)
	return &todo, nil
}
