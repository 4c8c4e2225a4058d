package mock

import (
	"context"
	"strings"
	"sync/atomic"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// SummarizeFunc is called by Summarize if set.
	SummarizeFunc func(ctx context.Context, text string) (string, error)

	// AnswerFunc is called by Answer if set.
	AnswerFunc func(ctx context.Context, excerpts, question string) (string, error)

	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// GenerateJSONFunc is called by GenerateJSON if set.
	GenerateJSONFunc func(ctx context.Context, prompt string) (string, error)

	// Generators are called concurrently by fan-out jobs, so the
	// counter must be safe without external locking.
	callCount atomic.Int64
}

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Summarize returns a deterministic summary of the text.
func (m *MockGenerator) Summarize(ctx context.Context, text string) (string, error) {
	m.callCount.Add(1)

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text)
	}

	// Default: first 10 words of the input
	words := strings.Fields(text)
	if len(words) > 10 {
		words = words[:10]
	}
	return "Summary: " + strings.Join(words, " "), nil
}

// Answer returns a deterministic answer referencing the question.
func (m *MockGenerator) Answer(ctx context.Context, excerpts, question string) (string, error) {
	m.callCount.Add(1)

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, excerpts, question)
	}

	return "Answer to: " + question, nil
}

// Generate returns a deterministic response echoing the prompt.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount.Add(1)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	return "Generated content", nil
}

// GenerateJSON returns a fixed empty JSON array.
func (m *MockGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m.callCount.Add(1)

	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt)
	}

	return "[]", nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount.Store(0)
	m.SummarizeFunc = nil
	m.AnswerFunc = nil
	m.GenerateFunc = nil
	m.GenerateJSONFunc = nil
}
