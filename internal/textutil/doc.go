// Package textutil provides text processing helpers shared by the extractor,
// the summarisation gateway, and the CLI.
//
// The primary use cases are:
//   - Splitting long text into word-bounded chunks for model limits
//   - Normalizing extracted document text (Unicode NFC, whitespace)
//   - Deriving display titles from file names
package textutil
