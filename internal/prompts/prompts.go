// Package prompts holds the prompt templates and builders used by the
// question-answering pipeline.
package prompts

import (
	"fmt"
	"strings"
)

// AnswerSystemPrompt defines the role for answer generation.
const AnswerSystemPrompt = "You are an expert answer generator."

// NoSummaryPlaceholder is substituted when a blog record carries no summary.
const NoSummaryPlaceholder = "No summary available."

// answerTemplate grounds the model on the stored summary and the retrieved
// transcript excerpts before stating the question.
const answerTemplate = `You are a knowledgeable assistant. Using the following context from a YouTube video, answer the question clearly and concisely.

Comprehensive Summary:
%s

Transcript Excerpts:
%s

Question: %s

Provide your answer below:`

// BuildAnswerPrompt constructs the grounding prompt for a question.
// Transcript chunks are joined with blank-line separators in the order given,
// which is similarity order: most relevant excerpt first.
func BuildAnswerPrompt(query, summaryText string, transcriptChunks []string) string {
	if strings.TrimSpace(summaryText) == "" {
		summaryText = NoSummaryPlaceholder
	}
	context := strings.Join(transcriptChunks, "\n\n")
	return fmt.Sprintf(answerTemplate, summaryText, context, query)
}
