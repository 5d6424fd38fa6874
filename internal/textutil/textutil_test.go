package textutil

import (
	"strings"
	"testing"
)

func TestChunkWordsPreservesOrderAndWords(t *testing.T) {
	text := "one two three four five six seven"
	chunks := ChunkWords(text, 3)
	want := []string{"one two three", "four five six", "seven"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %q", len(chunks), len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
	if strings.Join(chunks, " ") != text {
		t.Fatalf("rejoined chunks differ from input")
	}
}

func TestChunkWordsEdgeCases(t *testing.T) {
	if got := ChunkWords("   \n\t ", 5); got != nil {
		t.Fatalf("expected no chunks for blank input, got %q", got)
	}
	if got := ChunkWords("a  b\nc", 0); len(got) != 1 || got[0] != "a b c" {
		t.Fatalf("expected single normalized chunk, got %q", got)
	}
	if got := ChunkWords("a b", 2); len(got) != 1 {
		t.Fatalf("expected single chunk at the limit, got %q", got)
	}
	if WordCount(" a b  c ") != 3 {
		t.Fatal("unexpected word count")
	}
}

func TestNormalizeText(t *testing.T) {
	input := "  \nCafé notes  \r\n\n\n\nSecond   line\t\n\n"
	got := NormalizeText(input)
	want := "Café notes\n\nSecond   line"
	if got != want {
		t.Fatalf("NormalizeText = %q, want %q", got, want)
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := map[string]string{
		"/tmp/lecture_notes-week.3.txt": "Lecture Notes Week 3",
		"biology.pdf":                   "Biology",
		"":                              "Untitled",
		"___.txt":                       "Untitled",
	}
	for input, want := range cases {
		if got := DeriveTitle(input); got != want {
			t.Fatalf("DeriveTitle(%q) = %q, want %q", input, got, want)
		}
	}
}
