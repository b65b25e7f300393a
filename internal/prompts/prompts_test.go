package prompts

import (
	"strings"
	"testing"
)

func TestBuildAnswerPrompt_Order(t *testing.T) {
	chunks := []string{"most relevant", "second", "third"}
	prompt := BuildAnswerPrompt("What is X?", "a summary", chunks)

	if !strings.Contains(prompt, "a summary") {
		t.Error("prompt missing summary")
	}
	if !strings.Contains(prompt, "Question: What is X?") {
		t.Error("prompt missing question")
	}
	if !strings.Contains(prompt, "most relevant\n\nsecond\n\nthird") {
		t.Error("chunks not joined with blank lines in similarity order")
	}

	// Similarity order preserved: most relevant excerpt appears first.
	if strings.Index(prompt, "most relevant") > strings.Index(prompt, "second") {
		t.Error("chunk order not preserved")
	}
}

func TestBuildAnswerPrompt_BlankSummary(t *testing.T) {
	for _, summary := range []string{"", "   \n"} {
		prompt := BuildAnswerPrompt("q", summary, []string{"c"})
		if !strings.Contains(prompt, NoSummaryPlaceholder) {
			t.Errorf("blank summary %q should use placeholder", summary)
		}
	}
}
