package docx

import (
	"bytes"
	"context"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/leagravellard/Projet-GENAI/components/document"
)

// Parser extracts paragraphs and tables of a docx file
type Parser struct{}

var _ document.Parser = (*Parser)(nil)

// Parse returns the whole document as a single unnumbered page
func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader) ([]document.Page, error) {
	doc, err := docx.Parse(reader, reader.Size())
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, it := range doc.Document.Body.Items {
		var content string
		switch t := it.(type) {
		case *docx.Paragraph:
			content = t.String()
		case *docx.Table:
			content = t.String()
		}
		if content = strings.TrimSpace(content); content == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(content)
	}
	if sb.Len() == 0 {
		return nil, nil
	}
	return []document.Page{{Text: sb.String()}}, nil
}
