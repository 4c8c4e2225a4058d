package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGeneratorConcurrentCalls(t *testing.T) {
	gen := NewMockGenerator()

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gen.Generate(context.Background(), "chapter notes")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, gen.CallCount())
}

func TestMockGeneratorReset(t *testing.T) {
	gen := NewMockGenerator()
	gen.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "custom", nil
	}

	out, err := gen.Generate(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "custom", out)

	gen.Reset()
	assert.Zero(t, gen.CallCount())

	out, err = gen.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "Generated content", out)
}
