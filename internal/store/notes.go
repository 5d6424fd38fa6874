package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

const noteColumns = `id, title, content, content_type, format, user_id, created_at, updated_at,
	source_document, source_audio, source_url, source_object, transcript, document_size, audio_size`

// CreateNote validates and inserts a note, returning its identifier. Nothing is
// written when validation fails.
func (s *Store) CreateNote(ctx context.Context, in NoteInput) (string, error) {
	const op = "create note"
	if strings.TrimSpace(in.Title) == "" {
		return "", missingField(op, "title")
	}
	if strings.TrimSpace(in.Content) == "" {
		return "", missingField(op, "content")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return "", missingField(op, "user_id")
	}
	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = ContentManual
	}
	if _, ok := noteContentTypes[contentType]; !ok {
		return "", invalidField(op, "content_type", contentType)
	}
	format := strings.TrimSpace(in.Format)
	if format == "" {
		format = FormatText
	}
	if format != FormatText {
		return "", invalidField(op, "format", format)
	}

	id := newID()
	now := s.timestamp()
	_, err := s.execWithRetry(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Title, in.Content, contentType, format, in.UserID, now, now,
		in.SourceDocument, in.SourceAudio, in.SourceURL, in.SourceObject, in.Transcript,
		in.DocumentSize, in.AudioSize,
	)
	if err != nil {
		return "", storageErr("insert note", err)
	}
	return id, nil
}

// GetNote returns the note with the given id, or nil when the id is malformed
// or no such note exists.
func (s *Store) GetNote(ctx context.Context, id string) (*Note, error) {
	if !validID(id) {
		return nil, nil
	}
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get note", err)
	}
	return note, nil
}

// ListNotesByUser returns a user's notes, newest first.
func (s *Store) ListNotesByUser(ctx context.Context, userID string) ([]*Note, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+noteColumns+` FROM notes WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, storageErr("list notes", err)
	}
	defer rows.Close()

	notes := make([]*Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, storageErr("scan note", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list notes", err)
	}
	return notes, nil
}

// UpdateNote merges the supplied fields into an existing note and reports
// whether any stored value changed. Supplying content without a format resets
// the format to text. A missing note reports false.
func (s *Store) UpdateNote(ctx context.Context, id string, patch NotePatch) (bool, error) {
	const op = "update note"
	note, err := s.GetNote(ctx, id)
	if err != nil || note == nil {
		return false, err
	}
	if patch.Content != nil && patch.Format == nil {
		format := FormatText
		patch.Format = &format
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return false, missingField(op, "title")
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return false, missingField(op, "content")
	}
	if patch.ContentType != nil {
		if _, ok := noteContentTypes[*patch.ContentType]; !ok {
			return false, invalidField(op, "content_type", *patch.ContentType)
		}
	}
	if patch.Format != nil && *patch.Format != FormatText {
		return false, invalidField(op, "format", *patch.Format)
	}

	changed := false
	changed = applyString(&note.Title, patch.Title) || changed
	changed = applyString(&note.Content, patch.Content) || changed
	changed = applyString(&note.ContentType, patch.ContentType) || changed
	changed = applyString(&note.Format, patch.Format) || changed
	if !changed {
		return false, nil
	}

	res, err := s.execWithRetry(ctx,
		`UPDATE notes SET title = ?, content = ?, content_type = ?, format = ?, updated_at = ? WHERE id = ?`,
		note.Title, note.Content, note.ContentType, note.Format, s.timestamp(), id,
	)
	if err != nil {
		return false, storageErr(op, err)
	}
	return affected(res), nil
}

// DeleteNote removes a note and reports whether a row was deleted.
func (s *Store) DeleteNote(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	res, err := s.execWithRetry(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, storageErr("delete note", err)
	}
	return affected(res), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*Note, error) {
	var (
		note             Note
		created, updated string
	)
	if err := row.Scan(
		&note.ID, &note.Title, &note.Content, &note.ContentType, &note.Format, &note.UserID,
		&created, &updated,
		&note.SourceDocument, &note.SourceAudio, &note.SourceURL, &note.SourceObject, &note.Transcript,
		&note.DocumentSize, &note.AudioSize,
	); err != nil {
		return nil, err
	}
	note.CreatedAt = parseTime(created)
	note.UpdatedAt = parseTime(updated)
	return &note, nil
}

func affected(res sql.Result) bool {
	if res == nil {
		return false
	}
	n, err := res.RowsAffected()
	return err == nil && n > 0
}
