package pdf

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/leagravellard/Projet-GENAI/components/document"
)

// Parser extracts the plain text of a PDF, one page per PDF page
type Parser struct {
	password string
}

var _ document.Parser = (*Parser)(nil)

type Option func(*Parser)

func WithPassword(password string) Option {
	return func(p *Parser) {
		p.password = password
	}
}

func NewParser(opts ...Option) *Parser {
	ret := new(Parser)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Parse returns the non empty pages, numbered from 1
func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader) ([]document.Page, error) {
	var (
		r    *pdf.Reader
		err  error
		size = reader.Size()
	)
	if p.password != "" {
		if r, err = pdf.NewReaderEncrypted(reader, size, func() string {
			return p.password
		}); err != nil {
			return nil, err
		}
	} else {
		if r, err = pdf.NewReader(reader, size); err != nil {
			return nil, err
		}
	}
	totalPage := r.NumPage()
	pages := make([]document.Page, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		if text = strings.TrimSpace(document.StripUnprintable(text)); text == "" {
			continue
		}
		pages = append(pages, document.Page{Number: pageIndex, Text: text})
	}
	return pages, nil
}
