package testsupport

import (
	"context"
	"testing"

	"studivio/internal/config"
	"studivio/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewNote creates a manual note owned by user and returns it.
func NewNote(t testing.TB, st *store.Store, user, title, content string) *store.Note {
	t.Helper()

	ctx := context.Background()
	id, err := st.CreateNote(ctx, store.NoteInput{Title: title, Content: content, UserID: user})
	if err != nil {
		t.Fatalf("store.CreateNote: %v", err)
	}
	note, err := st.GetNote(ctx, id)
	if err != nil || note == nil {
		t.Fatalf("store.GetNote(%s): %v %v", id, note, err)
	}
	return note
}
