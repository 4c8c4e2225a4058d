package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	emb := NewMockEmbedder()

	a, err := emb.EmbedText(context.Background(), "same text")
	require.NoError(t, err)
	b, err := emb.EmbedText(context.Background(), "same text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 384)
}

func TestMockEmbedderConcurrentCalls(t *testing.T) {
	emb := NewMockEmbedder()

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := emb.EmbedText(context.Background(), "concurrent text")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, emb.CallCount())
}
