package loader

import (
	"context"
	"path/filepath"
	"strings"

	"localmind/src/fsutil"
)

// Metadata carries the source attributes of a TextUnit. Values are either
// strings or ints; the keys "source" and "page" are the ones the rest of the
// system relies on.
type Metadata map[string]interface{}

const (
	MetadataKeySource = "source"
	MetadataKeyPage   = "page"
)

// Source returns the originating file name, or an empty string when unset.
func (m Metadata) Source() string {
	if v, ok := m[MetadataKeySource].(string); ok {
		return v
	}
	return ""
}

// Page returns the 1-based page number for paginated formats.
func (m Metadata) Page() (int, bool) {
	switch v := m[MetadataKeyPage].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Clone returns a shallow copy so callers can attach a unit's metadata to
// many chunks without sharing the map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TextUnit is one loadable piece of a source document prior to chunking: a
// page for paginated formats, or the whole file for flat text formats.
type TextUnit struct {
	Text     string
	Metadata Metadata
}

// DocumentLoader resolves files into TextUnits based on their extension.
// Unsupported extensions load to zero units without an error.
type DocumentLoader struct {
	fs   fsutil.FileStore
	pdf  *PDFLoader
	text *TextLoader
}

// NewDocumentLoader creates a DocumentLoader reading through the given file store.
func NewDocumentLoader(fs fsutil.FileStore) *DocumentLoader {
	return &DocumentLoader{
		fs:   fs,
		pdf:  NewPDFLoader(),
		text: NewTextLoader(),
	}
}

// IsSupported reports whether the file name has a recognized document extension.
func (l *DocumentLoader) IsSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".md", ".text":
		return true
	}
	return false
}

// Load reads the file at path and returns its TextUnits. The metadata source
// is the file's base name.
func (l *DocumentLoader) Load(ctx context.Context, path string) ([]TextUnit, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.LoadBytes(ctx, filepath.Base(path), data)
}

// LoadBytes resolves in-memory content, dispatching on the extension of name.
func (l *DocumentLoader) LoadBytes(ctx context.Context, name string, data []byte) ([]TextUnit, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return l.pdf.Load(ctx, name, data)
	case ".txt", ".md", ".text":
		return l.text.Load(ctx, name, data)
	}
	return nil, nil
}
