package rag

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const (
	contextBlockSeparator = "\n\n---\n\n"

	AnswerWithContextPromptTmpl = `Use the following context from the user's documents to answer the question. If the context does not contain enough information, say so.

Context:
{{.Context}}

Question: {{.Question}}`

	AnswerWithoutContextPromptTmpl = `No relevant documents were found. Answer based on your general knowledge and say you have no document context.

Question: {{.Question}}`
)

// promptData holds all the data needed for prompt template execution
type promptData struct {
	Context  string
	Question string
}

// BuildPrompt assembles the single model-ready prompt for a question and
// the chunks retrieved for it, in the order received. With no chunks it
// falls back to a general-knowledge instruction.
func BuildPrompt(question string, chunks []RetrievedChunk) (string, error) {
	data := promptData{Question: question}
	tmpl := AnswerWithoutContextPromptTmpl

	if len(chunks) > 0 {
		blocks := make([]string, 0, len(chunks))
		for _, c := range chunks {
			blocks = append(blocks, contextBlock(c))
		}
		data.Context = strings.Join(blocks, contextBlockSeparator)
		tmpl = AnswerWithContextPromptTmpl
	}

	var buf bytes.Buffer
	t := template.Must(template.New("prompt").Parse(tmpl))
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// contextBlock labels a chunk with its origin so the model can cite it.
func contextBlock(c RetrievedChunk) string {
	source := c.Metadata.Source()
	if source == "" {
		source = "unknown"
	}

	label := "[Source: " + source
	if page, ok := c.Metadata.Page(); ok {
		label += fmt.Sprintf(", page %d", page)
	}
	label += "]"

	return label + "\n" + c.Text
}
