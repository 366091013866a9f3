package loader

import (
	"context"
	"strings"
)

// TextLoader loads plain text and Markdown content as a single TextUnit.
type TextLoader struct{}

// NewTextLoader creates a new TextLoader.
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load returns the whole content as one TextUnit. Invalid UTF-8 sequences
// are replaced rather than rejected. Empty or whitespace-only content yields
// no units.
func (l *TextLoader) Load(ctx context.Context, name string, data []byte) ([]TextUnit, error) {
	text := strings.ToValidUTF8(string(data), "�")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	unit := TextUnit{
		Text: text,
		Metadata: Metadata{
			MetadataKeySource: name,
		},
	}
	return []TextUnit{unit}, nil
}
