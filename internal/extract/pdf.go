package extract

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"studivio/internal/logging"
	"studivio/internal/services"
	"studivio/internal/textutil"
)

var (
	// ErrCorruptDocument reports bytes the PDF parser could not open.
	ErrCorruptDocument = errors.New("corrupt document")
	// ErrEmptyDocument reports a PDF with no extractable text, such as a scan.
	ErrEmptyDocument = errors.New("no readable text")
)

// Document is the text pulled out of a PDF.
type Document struct {
	Text         string
	Pages        int
	SkippedPages int
}

// Extractor validates uploads and extracts PDF text.
type Extractor struct {
	limits Limits
	logger *slog.Logger
}

// New constructs an Extractor. A nil logger discards page warnings.
func New(limits Limits, logger *slog.Logger) *Extractor {
	return &Extractor{
		limits: limits,
		logger: logging.NewComponentLogger(logger, "extract"),
	}
}

// Limits returns the upload limits in force.
func (e *Extractor) Limits() Limits {
	return e.limits
}

// ValidatePDF checks a PDF upload's name and size.
func (e *Extractor) ValidatePDF(name string, size int64) error {
	return e.limits.ValidatePDF(name, size)
}

// ValidateAudio checks an audio upload's name and size.
func (e *Extractor) ValidateAudio(name string, size int64) error {
	return e.limits.ValidateAudio(name, size)
}

// PDF extracts text with default settings and no logging.
func PDF(data []byte) (Document, error) {
	return New(DefaultLimits(), nil).PDF(data)
}

// PDF extracts the text of every readable page, in page order, separated by a
// blank line. Pages that fail to parse are skipped.
func (e *Extractor) PDF(data []byte) (Document, error) {
	const op = "extract pdf"
	var doc Document

	reader, err := openPDF(data)
	if err != nil {
		return doc, services.Wrap(services.ErrValidation, "extract", op, "", fmt.Errorf("%w: %w", ErrCorruptDocument, err))
	}

	doc.Pages = reader.NumPage()
	parts := make([]string, 0, doc.Pages)
	for i := 1; i <= doc.Pages; i++ {
		text, err := pageText(reader, i)
		if err != nil {
			doc.SkippedPages++
			logging.WarnWithContext(e.logger, "skipping unreadable pdf page", "pdf_page_skipped",
				logging.Int("page", i),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "the page may be malformed or use an unsupported font"),
				logging.String(logging.FieldImpact, "page text is missing from the summary"),
			)
			continue
		}
		text = textutil.NormalizeText(text)
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return doc, services.Wrap(services.ErrValidation, "extract", op,
			fmt.Sprintf("%d pages, %d skipped", doc.Pages, doc.SkippedPages), ErrEmptyDocument)
	}
	doc.Text = strings.Join(parts, "\n\n")
	return doc, nil
}

// openPDF guards against parser panics on hostile input.
func openPDF(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("parser panic: %v", r)
		}
	}()
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func pageText(reader *pdf.Reader, index int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: parser panic: %v", index, r)
		}
	}()
	page := reader.Page(index)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: missing page object", index)
	}
	return page.GetPlainText(nil)
}
