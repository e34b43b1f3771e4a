package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// distinctText builds n bytes of text with no repeating pattern so boundary
// assertions cannot pass by accident.
func distinctText(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	var b strings.Builder
	b.Grow(n)
	for i := 0; b.Len() < n; i++ {
		b.WriteByte(alphabet[i%len(alphabet)])
		if i%7 == 6 && b.Len() < n {
			b.WriteByte(alphabet[(i*3)%len(alphabet)])
		}
	}
	return b.String()[:n]
}

func TestChunkBoundaries(t *testing.T) {
	text := distinctText(2500)
	chunks := Chunk(text, 1000, 150)

	require.Len(t, chunks, 3)
	assert.Equal(t, text[0:1000], chunks[0])
	assert.Equal(t, text[850:1850], chunks[1])
	assert.Equal(t, text[1700:2500], chunks[2])
}

func TestChunkMaxLength(t *testing.T) {
	text := distinctText(5000)
	for _, size := range []int{100, 250, 1000} {
		for _, chunk := range Chunk(text, size, size/10) {
			assert.LessOrEqual(t, len(chunk), size)
		}
	}
}

func TestChunkNonEmptyInputYieldsChunks(t *testing.T) {
	assert.NotEmpty(t, Chunk("hello world", 100, 10))
	assert.NotEmpty(t, Chunk(distinctText(99), 100, 10))
	assert.NotEmpty(t, Chunk(distinctText(101), 100, 10))
}

func TestChunkEmptyInput(t *testing.T) {
	assert.Empty(t, Chunk("", 1000, 150))
	assert.Empty(t, Chunk("   ", 1000, 150))
	assert.Empty(t, Chunk("\n\t  \n", 1000, 150))
}

func TestChunkOverlapContent(t *testing.T) {
	text := distinctText(3000)
	size, overlap := 500, 100
	chunks := Chunk(text, size, overlap)
	require.Greater(t, len(chunks), 2)

	// Interior chunks are untouched by trimming (the input has no
	// whitespace), so the trailing overlap of one chunk is the leading
	// overlap of the next.
	for i := 0; i+1 < len(chunks)-1; i++ {
		tail := chunks[i][len(chunks[i])-overlap:]
		head := chunks[i+1][:overlap]
		assert.Equal(t, tail, head, "chunks %d and %d do not overlap", i, i+1)
	}
}

func TestChunkClampsExcessiveOverlap(t *testing.T) {
	text := distinctText(1000)

	// overlap >= size clamps to size/3 instead of looping forever.
	chunks := Chunk(text, 300, 300)
	require.NotEmpty(t, chunks)
	assert.Equal(t, text[0:300], chunks[0])
	assert.Equal(t, text[200:500], chunks[1])
}

func TestChunkEnforcesSizeFloor(t *testing.T) {
	text := distinctText(250)
	chunks := Chunk(text, 10, 2)
	require.NotEmpty(t, chunks)
	// size 10 is below the floor and is raised to MinChunkSize.
	assert.Equal(t, text[0:MinChunkSize], chunks[0])
}

func TestChunkSkipsWhitespaceWindows(t *testing.T) {
	// A run of spaces wider than one whole window.
	text := distinctText(100) + strings.Repeat(" ", 400) + distinctText(100)
	chunks := Chunk(text, 100, 0)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
	}
}

func TestChunkDeterministic(t *testing.T) {
	text := distinctText(4096)
	assert.Equal(t, Chunk(text, 512, 64), Chunk(text, 512, 64))
}
