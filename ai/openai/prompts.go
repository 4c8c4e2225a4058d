package openai

import "fmt"

const (
	// answerPlaceholder is returned when the model produces no usable answer,
	// so callers always receive a non-empty string.
	answerPlaceholder = "I couldn't generate an answer. Please try again."

	// summaryPlaceholder is returned when the model produces no usable summary.
	summaryPlaceholder = "No summary could be generated for this document."
)

const answerPromptTemplate = `
You are a thorough AI tutor. Using ONLY the provided document excerpts, answer the question with depth and coverage. If information is missing, say so.

Document Excerpts:
%s

Question: %s

Instructions:
- Provide a comprehensive answer that covers all relevant points from the excerpts.
- Be specific and detailed; do not be terse.
- If the answer is not found in the excerpts, clearly state that.
`

const summaryPromptTemplate = `Summarize the following document for study use. Write a short multi-paragraph synopsis covering the main topics, key arguments, and important details. Do not add commentary about the document itself.

Document:
%s`

// buildAnswerPrompt constructs the tutor prompt grounding the answer in the
// supplied excerpts only.
func buildAnswerPrompt(excerpts, question string) string {
	return fmt.Sprintf(answerPromptTemplate, excerpts, question)
}

// buildSummaryPrompt constructs the document summary prompt.
func buildSummaryPrompt(text string) string {
	return fmt.Sprintf(summaryPromptTemplate, text)
}
