package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSplitsSentences(t *testing.T) {
	c := NewChunker(2, 0)
	chunks := c.Chunk("okna", "Pierwsze zdanie. Drugie zdanie. Trzecie zdanie.")

	require.Len(t, chunks, 2)
	assert.Equal(t, "Pierwsze zdanie. Drugie zdanie.", chunks[0].Text)
	assert.Equal(t, "Trzecie zdanie.", chunks[1].Text)
	assert.Equal(t, "okna", chunks[0].Title)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)
}

func TestChunkOverlap(t *testing.T) {
	c := NewChunker(2, 1)
	chunks := c.Chunk("okna", "A jeden. B dwa. C trzy.")

	require.Len(t, chunks, 2)
	assert.Equal(t, "A jeden. B dwa.", chunks[0].Text)
	assert.Equal(t, "B dwa. C trzy.", chunks[1].Text)
}

func TestChunkOverlapCappedToWindow(t *testing.T) {
	// Overlap at or above the window size would stop the window from
	// advancing; it gets capped so every step moves forward.
	for _, overlap := range []int{2, 3} {
		c := NewChunker(2, overlap)
		chunks := c.Chunk("okna", "A raz. B dwa. C trzy. D cztery.")

		require.Len(t, chunks, 3)
		assert.Equal(t, "A raz. B dwa.", chunks[0].Text)
		assert.Equal(t, "B dwa. C trzy.", chunks[1].Text)
		assert.Equal(t, "C trzy. D cztery.", chunks[2].Text)
	}
}

func TestChunkWithoutTerminators(t *testing.T) {
	c := NewChunker(5, 0)
	chunks := c.Chunk("cennik", "tekst bez kropki")

	require.Len(t, chunks, 1)
	assert.Equal(t, "tekst bez kropki", chunks[0].Text)
}

func TestChunkEmptyDocument(t *testing.T) {
	c := NewChunker(5, 0)
	assert.Nil(t, c.Chunk("pusty", "   \n"))
}
