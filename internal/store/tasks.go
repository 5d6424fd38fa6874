package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

const taskColumns = `id, name, description, priority, time, username, status, created_at`

// CreateTask inserts a dashboard task for a user. Status defaults to pending.
func (s *Store) CreateTask(ctx context.Context, in TaskInput) (string, error) {
	const op = "create task"
	if strings.TrimSpace(in.Name) == "" {
		return "", missingField(op, "name")
	}
	if strings.TrimSpace(in.Username) == "" {
		return "", missingField(op, "username")
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = TaskStatusPending
	}

	id := newID()
	_, err := s.execWithRetry(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Name, in.Description, in.Priority, in.Time, in.Username, status, s.timestamp(),
	)
	if err != nil {
		return "", storageErr("insert task", err)
	}
	return id, nil
}

// GetTask returns the task with the given id, or nil for malformed or unknown ids.
func (s *Store) GetTask(ctx context.Context, id string) (*Task, error) {
	if !validID(id) {
		return nil, nil
	}
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get task", err)
	}
	return task, nil
}

// ListTasksByUser returns a user's tasks in creation order.
func (s *Store) ListTasksByUser(ctx context.Context, username string) ([]*Task, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+taskColumns+` FROM tasks WHERE username = ? ORDER BY created_at, id`, username)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, storageErr("scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list tasks", err)
	}
	return tasks, nil
}

// UpdateTask merges the supplied fields and reports whether anything changed.
func (s *Store) UpdateTask(ctx context.Context, id string, patch TaskPatch) (bool, error) {
	const op = "update task"
	task, err := s.GetTask(ctx, id)
	if err != nil || task == nil {
		return false, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return false, missingField(op, "name")
	}

	changed := false
	changed = applyString(&task.Name, patch.Name) || changed
	changed = applyString(&task.Description, patch.Description) || changed
	changed = applyString(&task.Priority, patch.Priority) || changed
	changed = applyString(&task.Time, patch.Time) || changed
	changed = applyString(&task.Status, patch.Status) || changed
	if !changed {
		return false, nil
	}

	res, err := s.execWithRetry(ctx,
		`UPDATE tasks SET name = ?, description = ?, priority = ?, time = ?, status = ? WHERE id = ?`,
		task.Name, task.Description, task.Priority, task.Time, task.Status, id,
	)
	if err != nil {
		return false, storageErr(op, err)
	}
	return affected(res), nil
}

// DeleteTask removes a task and reports whether a row was deleted.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	res, err := s.execWithRetry(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, storageErr("delete task", err)
	}
	return affected(res), nil
}

func scanTask(row rowScanner) (*Task, error) {
	var (
		task    Task
		created string
	)
	if err := row.Scan(
		&task.ID, &task.Name, &task.Description, &task.Priority, &task.Time,
		&task.Username, &task.Status, &created,
	); err != nil {
		return nil, err
	}
	task.CreatedAt = parseTime(created)
	return &task, nil
}
