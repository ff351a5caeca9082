// File: internal/chunker/chunker_test.go
package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("converts CRLF to LF", func(t *testing.T) {
		assert.Equal(t, "a\nb", Normalize("a\r\nb"))
	})

	t.Run("collapses three or more newlines to two", func(t *testing.T) {
		assert.Equal(t, "a\n\nb", Normalize("a\n\n\n\n\nb"))
	})

	t.Run("collapses space and tab runs", func(t *testing.T) {
		assert.Equal(t, "a b c", Normalize("a    b\t\t c"))
	})

	t.Run("blanks whitespace-only lines", func(t *testing.T) {
		assert.Equal(t, "a\n\nb", Normalize("a\n \nb"))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "text", Normalize("  text\n\n"))
	})
}

func TestChunkDiscardsShortText(t *testing.T) {
	assert.Empty(t, Chunk("", 1500, 200))
	assert.Empty(t, Chunk(strings.Repeat("a", MinChunkLen-1), 1500, 200))
	// Whitespace padding does not rescue a short chunk.
	assert.Empty(t, Chunk("   short   ", 1500, 200))
}

func TestChunkSingleWindow(t *testing.T) {
	text := strings.Repeat("a", 100)
	chunks := Chunk(text, 1500, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkInvalidParams(t *testing.T) {
	text := strings.Repeat("a", 500)
	assert.Nil(t, Chunk(text, 0, 0))
	assert.Nil(t, Chunk(text, 100, 100))
	assert.Nil(t, Chunk(text, 100, -1))
}

// A 4000-char text with target 1500, overlap 200 and a sentence boundary at
// offset 1480: the first cut lands on the boundary instead of the naive
// window end, and the second window starts 200 before the cut.
func TestChunkSentenceBoundaryExample(t *testing.T) {
	text := strings.Repeat("a", 1480) + "." + strings.Repeat("b", 2519)
	require.Len(t, text, 4000)

	chunks := Chunk(text, 1500, 200)
	require.Len(t, chunks, 3)

	// First chunk ends at the boundary, keeping the '.'.
	assert.Len(t, chunks[0], 1481)
	assert.True(t, strings.HasSuffix(chunks[0], "."))

	// Second chunk starts at 1481-200=1281: its first 200 chars repeat the
	// tail of the first chunk.
	assert.Equal(t, text[1281:2781], chunks[1])
	assert.Equal(t, chunks[0][len(chunks[0])-200:], chunks[1][:200])

	// No boundary is reachable past the second window's midpoint, so the
	// remaining text is cut naively.
	assert.Equal(t, text[2581:], chunks[2])
}

func TestChunkNaiveCutWithoutBoundary(t *testing.T) {
	text := strings.Repeat("a", 3100)
	chunks := Chunk(text, 1500, 200)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1500)
	assert.Len(t, chunks[1], 1500)
	assert.Len(t, chunks[2], 500)
}

// Concatenating each chunk's non-overlapping region reconstructs the source.
func TestChunkRoundTrip(t *testing.T) {
	text := strings.Repeat("a", 3100)
	overlap := 200

	chunks := Chunk(text, 1500, overlap)
	require.NotEmpty(t, chunks)

	rebuilt := chunks[0]
	for _, chunk := range chunks[1:] {
		rebuilt += chunk[overlap:]
	}
	assert.Equal(t, text, rebuilt)
}

func TestChunkAllChunksMeetMinimum(t *testing.T) {
	// The tail after the last boundary cut is shorter than the threshold
	// and gets dropped.
	text := strings.Repeat("a", 1480) + "." + strings.Repeat("b", 30)
	chunks := Chunk(text, 1500, 0)

	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 1481)
	for _, chunk := range chunks {
		assert.GreaterOrEqual(t, len(chunk), MinChunkLen)
	}
}

func TestChunkMultibyteSafe(t *testing.T) {
	text := strings.Repeat("ä", 200)
	chunks := Chunk(text, 100, 10)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.True(t, strings.HasPrefix(chunk, "ä"))
	}
}
