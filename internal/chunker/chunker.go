// Package chunker splits long transcripts into bounded, deduplicated
// word-level chunks sized for embedding.
package chunker

import "strings"

// DefaultChunkSize is the maximum number of words per chunk.
const DefaultChunkSize = 500

// Chunk splits text on whitespace into chunks of at most chunkSize words.
// Each chunk is the words joined by single spaces. Chunks that exactly repeat
// an earlier chunk in the same call are dropped, preserving first-occurrence
// order. Empty or whitespace-only input yields a nil slice.
//
// The function is pure and deterministic.
func Chunk(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	seen := make(map[string]struct{})
	for start := 0; start < len(words); start += chunkSize {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[start:end], " ")
		if chunk == "" {
			continue
		}
		if _, ok := seen[chunk]; ok {
			continue
		}
		seen[chunk] = struct{}{}
		chunks = append(chunks, chunk)
	}

	return chunks
}
