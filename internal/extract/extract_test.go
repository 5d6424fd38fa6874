package extract

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"studivio/internal/services"
	"studivio/internal/testsupport"
)

func TestValidatePDF(t *testing.T) {
	limits := DefaultLimits()
	cases := []struct {
		name string
		size int64
		want error
	}{
		{"notes.pdf", 1024, nil},
		{"NOTES.PDF", 1024, nil},
		{"", 10, ErrMissingFilename},
		{"  ", 10, ErrMissingFilename},
		{"notes.docx", 10, ErrUnsupportedFormat},
		{"pdf", 10, ErrUnsupportedFormat},
		{"big.pdf", 26 * 1024 * 1024, ErrFileTooLarge},
		{"edge.pdf", 25 * 1024 * 1024, nil},
	}
	for _, tc := range cases {
		err := limits.ValidatePDF(tc.name, tc.size)
		if tc.want == nil {
			if err != nil {
				t.Fatalf("ValidatePDF(%q, %d) returned %v", tc.name, tc.size, err)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("ValidatePDF(%q, %d) = %v, want %v", tc.name, tc.size, err, tc.want)
		}
		if services.HTTPStatus(err) != 400 {
			t.Fatalf("expected validation failures to map to 400, got %d", services.HTTPStatus(err))
		}
	}
}

func TestValidateAudio(t *testing.T) {
	limits := DefaultLimits()
	for _, name := range []string{"a.mp3", "b.WAV", "c.m4a", "d.mp4", "lecture.final.webm"} {
		if err := limits.ValidateAudio(name, 1024); err != nil {
			t.Fatalf("ValidateAudio(%q) returned %v", name, err)
		}
	}
	if err := limits.ValidateAudio("memo.txt", 10); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected .txt to be unsupported, got %v", err)
	}
	if err := limits.ValidateAudio("mp3", 10); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected dotless name to be unsupported, got %v", err)
	}
	if err := limits.ValidateAudio("", 10); !errors.Is(err, ErrMissingFilename) {
		t.Fatalf("expected missing filename, got %v", err)
	}
	if err := limits.ValidateAudio("long.mp3", 51*1024*1024); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
}

func TestPDFExtractsPagesInOrder(t *testing.T) {
	data := testsupport.PDF(t, "Photosynthesis basics", "", "Calvin cycle")
	doc, err := PDF(data)
	if err != nil {
		t.Fatalf("PDF returned error: %v", err)
	}
	if doc.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", doc.Pages)
	}
	first := strings.Index(doc.Text, "Photosynthesis")
	second := strings.Index(doc.Text, "Calvin")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected both pages in order, got %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "\n\n") {
		t.Fatalf("expected pages separated by a blank line, got %q", doc.Text)
	}
}

func TestPDFImageOnlyIsEmptyDocument(t *testing.T) {
	data := testsupport.PDF(t, "", "")
	_, err := PDF(data)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestPDFSkipsMissingPageAndKeepsTheRest(t *testing.T) {
	data := testsupport.PDF(t, "first page", "second page")
	// The page tree claims a third page that has no page object.
	data = bytes.Replace(data, []byte("/Count 2"), []byte("/Count 3"), 1)

	doc, err := PDF(data)
	if err != nil {
		t.Fatalf("PDF returned error: %v", err)
	}
	if doc.Pages != 3 || doc.SkippedPages != 1 {
		t.Fatalf("expected 3 pages with 1 skipped, got %d pages, %d skipped", doc.Pages, doc.SkippedPages)
	}
	if !strings.Contains(doc.Text, "first page") || !strings.Contains(doc.Text, "second page") {
		t.Fatalf("expected both readable pages, got %q", doc.Text)
	}
}

func TestPDFAllPagesSkippedIsEmptyDocument(t *testing.T) {
	data := testsupport.PDF(t, "only page")
	// Drop the only kid and claim two pages; byte offsets stay the same.
	data = bytes.Replace(data, []byte("/Kids [4 0 R] /Count 1"), []byte("/Kids []      /Count 2"), 1)

	doc, err := PDF(data)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if doc.Pages != 2 || doc.SkippedPages != 2 {
		t.Fatalf("expected both pages skipped, got %d pages, %d skipped", doc.Pages, doc.SkippedPages)
	}
}

func TestPDFGarbageIsCorrupt(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("this is not a pdf at all"), testsupport.Bytes(t, 4096)} {
		_, err := PDF(data)
		if !errors.Is(err, ErrCorruptDocument) {
			t.Fatalf("expected ErrCorruptDocument for %d bytes, got %v", len(data), err)
		}
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected validation marker, got %v", err)
		}
	}
}

func TestExtensionUsesLastDot(t *testing.T) {
	if got := Extension("archive.tar.GZ"); got != "gz" {
		t.Fatalf("expected gz, got %q", got)
	}
	if got := Extension("README"); got != "" {
		t.Fatalf("expected empty extension, got %q", got)
	}
}
