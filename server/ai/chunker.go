package ai

import "strings"

const (
	// DefaultChunkSize is the maximum character count per chunk.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the character count repeated between chunks.
	DefaultChunkOverlap = 150
	// MinChunkSize is the enforced floor for the size parameter.
	MinChunkSize = 100
)

// Chunk splits a document into bounded, overlapping windows for embedding.
// Each window is at most size bytes before trimming; consecutive windows
// share exactly overlap bytes of source text, except the final window which
// may be shorter. Windows that trim down to nothing are skipped, so blank
// input yields no chunks.
//
// The function is deterministic and side-effect free; chunks are never
// re-split or merged downstream.
func Chunk(text string, size, overlap int) []string {
	if size < MinChunkSize {
		size = MinChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 3
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(text); start += step {
		end := start + size
		if end > len(text) {
			end = len(text)
		}

		window := strings.TrimSpace(text[start:end])
		if window != "" {
			chunks = append(chunks, window)
		}

		if end == len(text) {
			break
		}
	}

	return chunks
}
