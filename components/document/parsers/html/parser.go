package html

import (
	"bytes"
	"context"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"github.com/leagravellard/Projet-GENAI/components/document"
)

// Parser is a parser which parse html content to markdown
type Parser struct {
	opts []converter.ConvertOptionFunc
}

var _ document.Parser = (*Parser)(nil)

func NewParser(opts ...converter.ConvertOptionFunc) *Parser {
	return &Parser{
		opts: opts,
	}
}

// Parse converts a html content into a single markdown page
func (h *Parser) Parse(ctx context.Context, reader *bytes.Reader) ([]document.Page, error) {
	bs, err := htmltomarkdown.ConvertReader(reader, h.opts...)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(bs))
	if text == "" {
		return nil, nil
	}
	return []document.Page{{Text: text}}, nil
}
