// Package extract validates uploaded artifacts and pulls text out of PDFs.
//
// Validation is metadata only (filename and size) and runs before any bytes
// are parsed. PDF extraction is page tolerant: a page that fails to parse is
// skipped and counted, and only a document with no readable text at all is
// rejected.
package extract
