package textutil

import "strings"

// ChunkWords splits text on whitespace into ordered chunks holding at most
// maxWords words each. Words are never split and chunk order follows the
// input. Empty input yields no chunks; maxWords <= 0 yields a single chunk.
func ChunkWords(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWords <= 0 || len(words) <= maxWords {
		return []string{strings.Join(words, " ")}
	}
	chunks := make([]string, 0, len(words)/maxWords+1)
	for start := 0; start < len(words); start += maxWords {
		end := min(start+maxWords, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// WordCount returns the number of whitespace separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
