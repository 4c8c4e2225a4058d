// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/studyrag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// summaryInputLimit bounds the document prefix sent to the model.
	// Generation models have finite input windows; a summary of the opening
	// 8000 characters is representative enough for study use.
	summaryInputLimit = 8000

	// jsonAttempts is how many times GenerateJSON retries on malformed output.
	jsonAttempts = 3
)

var errInvalidJSON = errors.New("model returned invalid JSON")

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken("none"),
		openai.WithModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Summarize produces a short multi-paragraph synopsis of the text.
// Input beyond summaryInputLimit characters is not sent to the model.
func (g *Generator) Summarize(ctx context.Context, text string) (string, error) {
	runes := []rune(text)
	if len(runes) > summaryInputLimit {
		runes = runes[:summaryInputLimit]
	}

	g.logger.Debug("generating summary", "input_length", len(runes))

	response, err := g.client.GenerateContent(ctx, promptMessages(buildSummaryPrompt(string(runes))))
	if err != nil {
		g.logger.Error("failed to generate summary", "err", err)
		return "", err
	}

	answer := firstChoice(response)
	if answer == "" {
		g.logger.Warn("model returned no usable summary text")
		return summaryPlaceholder, nil
	}
	return answer, nil
}

// Answer answers a question strictly from the supplied context excerpts.
func (g *Generator) Answer(ctx context.Context, excerpts, question string) (string, error) {
	g.logger.Debug("generating answer", "context_length", len(excerpts), "question_length", len(question))

	response, err := g.client.GenerateContent(ctx, promptMessages(buildAnswerPrompt(excerpts, question)))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	answer := firstChoice(response)
	if answer == "" {
		g.logger.Warn("model returned no usable answer text")
		return answerPlaceholder, nil
	}
	return answer, nil
}

// Generate produces free-form text from a prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := g.client.GenerateContent(ctx, promptMessages(prompt))
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}
	return firstChoice(response), nil
}

// GenerateJSON produces a JSON document (object or array) from a prompt.
// Malformed output is fence-stripped and repaired; remaining parse failures
// are retried up to jsonAttempts times.
func (g *Generator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < jsonAttempts; attempt++ {
		response, err := g.client.GenerateContent(ctx, promptMessages(prompt),
			llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			g.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return "", err
		}

		responseText := stripCodeFences(firstChoice(response))
		responseText = repairJSON(responseText)

		if json.Valid([]byte(responseText)) {
			return responseText, nil
		}

		lastErr = errInvalidJSON
		g.logger.Warn("error parsing generated JSON",
			"attempt", attempt+1,
			"response", responseText)
	}

	g.logger.Error("failed to parse generated JSON after retries", "err", lastErr)
	return "", lastErr
}

// promptMessages wraps a single user prompt in the message structure the
// chat API expects.
func promptMessages(prompt string) []llms.MessageContent {
	return []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}
}

// firstChoice extracts the trimmed text of the first response choice.
// Returns "" when the model produced no choices or empty content.
func firstChoice(response *llms.ContentResponse) string {
	if response == nil || len(response.Choices) < 1 {
		return ""
	}
	return strings.TrimSpace(response.Choices[0].Content)
}

// stripCodeFences removes markdown code fences wrapping a JSON payload.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
