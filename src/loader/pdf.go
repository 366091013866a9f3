package loader

import (
	"bytes"
	"context"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// PDFLoader extracts text from PDF content, one TextUnit per page.
type PDFLoader struct{}

// NewPDFLoader creates a new PDFLoader.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

// Load extracts the text of every page and returns one TextUnit per page
// that carries any text. Metadata includes the source name and the 1-based
// page number.
func (l *PDFLoader) Load(ctx context.Context, name string, data []byte) ([]TextUnit, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return nil, err
	}

	var units []TextUnit
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return nil, err
		}

		ex, err := extractor.New(page)
		if err != nil {
			return nil, err
		}

		text, err := ex.ExtractText()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		units = append(units, TextUnit{
			Text: text,
			Metadata: Metadata{
				MetadataKeySource: name,
				MetadataKeyPage:   i,
			},
		})
	}

	return units, nil
}
