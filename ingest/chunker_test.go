package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks, err := SplitText("a short document", DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0])
}

func TestSplitTextInvalidConfig(t *testing.T) {
	t.Run("overlap equals size", func(t *testing.T) {
		_, err := SplitText("text", 100, 100)
		assert.ErrorIs(t, err, ErrInvalidChunkConfig)
	})

	t.Run("overlap exceeds size", func(t *testing.T) {
		_, err := SplitText("text", 100, 150)
		assert.ErrorIs(t, err, ErrInvalidChunkConfig)
	})

	t.Run("negative overlap", func(t *testing.T) {
		_, err := SplitText("text", 100, -1)
		assert.ErrorIs(t, err, ErrInvalidChunkConfig)
	})

	t.Run("zero chunk size", func(t *testing.T) {
		_, err := SplitText("text", 0, 0)
		assert.ErrorIs(t, err, ErrInvalidChunkConfig)
	})
}

func TestSplitTextFixedWindows(t *testing.T) {
	// No periods or newlines, so no boundary snapping happens
	text := strings.Repeat("a", 3000)

	chunks, err := SplitText(text, DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Len(t, chunks[0], 1200)
	assert.Len(t, chunks[1], 1200)
	assert.Len(t, chunks[2], 1000)
}

func TestSplitTextOverlap(t *testing.T) {
	// Distinct characters so overlapping regions can be compared
	var b strings.Builder
	for i := 0; i < 3000; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	text := b.String()

	chunks, err := SplitText(text, DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	// Tail of each chunk reappears at the head of the next
	assert.Equal(t, chunks[0][1000:], chunks[1][:200])
	assert.Equal(t, chunks[1][1000:], chunks[2][:200])
}

func TestSplitTextBoundarySnapping(t *testing.T) {
	t.Run("snaps past midpoint", func(t *testing.T) {
		// Period at index 80 of a 100-char window, past the midpoint (50)
		text := strings.Repeat("a", 80) + "." + strings.Repeat("b", 219)

		chunks, err := SplitText(text, 100, 20)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		// First chunk ends just after the period
		assert.Equal(t, strings.Repeat("a", 80)+".", chunks[0])
	})

	t.Run("ignores boundary before midpoint", func(t *testing.T) {
		// Period at index 10, before the midpoint, so the window stays fixed
		text := strings.Repeat("a", 10) + "." + strings.Repeat("b", 289)

		chunks, err := SplitText(text, 100, 20)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		assert.Len(t, chunks[0], 100)
	})

	t.Run("snap shorter than overlap still advances", func(t *testing.T) {
		// The snapped window ends at index 56, shorter than the 60-rune
		// overlap. The cursor must continue from the window end instead
		// of stepping backward.
		text := strings.Repeat("a", 55) + "." + strings.Repeat("b", 300)

		chunks, err := SplitText(text, 100, 60)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		assert.Equal(t, strings.Repeat("a", 55)+".", chunks[0])
		assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "b"))

		// Every rune of the input lands in some chunk
		var total int
		for _, c := range chunks {
			total += len(c)
		}
		assert.GreaterOrEqual(t, total, len(text)-60)
	})

	t.Run("newline is a boundary", func(t *testing.T) {
		text := strings.Repeat("a", 70) + "\n" + strings.Repeat("b", 229)

		chunks, err := SplitText(text, 100, 20)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		// Trailing newline is trimmed from the emitted chunk
		assert.Equal(t, strings.Repeat("a", 70), chunks[0])
	})
}

func TestSplitTextDropsEmptySegments(t *testing.T) {
	// Whole input is whitespace; nothing should be emitted
	chunks, err := SplitText("   \n   ", 100, 20)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSanitize(t *testing.T) {
	t.Run("replaces non-ascii", func(t *testing.T) {
		assert.Equal(t, "caf  text", Sanitize("café text"))
	})

	t.Run("preserves newlines", func(t *testing.T) {
		assert.Equal(t, "line one\nline two", Sanitize("line one\nline two"))
	})

	t.Run("replaces control characters", func(t *testing.T) {
		assert.Equal(t, "a b", Sanitize("a\tb"))
		assert.Equal(t, "a b ", Sanitize("a\rb\x00"))
	})

	t.Run("printable ascii untouched", func(t *testing.T) {
		input := "The quick brown fox! (42) ~ [ok]"
		assert.Equal(t, input, Sanitize(input))
	})
}
