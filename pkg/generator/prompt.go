package generator

import (
	"github.com/tmc/langchaingo/prompts"
)

const pairsTemplate = `Process the following text into a list of question-answer pairs associated with the relevant content on the page, like: [{"question": "this is the question", "answer": "this is the answer"}].{{if .refinement}} {{.refinement}}.{{end}} Return only valid JSON in your response:

{{.chunk}}

Question-answer pairs valid JSON:`

func newPairsPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(pairsTemplate, []string{"chunk", "refinement"})
}

// BuildPrompt renders the instruction prompt for one chunk of text.
func BuildPrompt(chunk, refinement string) (string, error) {
	return newPairsPrompt().Format(map[string]any{
		"chunk":      chunk,
		"refinement": refinement,
	})
}
