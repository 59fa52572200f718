package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeHTML = "text/html"
	MimeText = "text/plain"
)

// extensions maps file extensions to content types when sniffing is inconclusive
var extensions = map[string]string{
	".pdf":  MimePDF,
	".docx": MimeDOCX,
	".xlsx": MimeXLSX,
	".html": MimeHTML,
	".htm":  MimeHTML,
	".txt":  MimeText,
	".md":   MimeText,
}

type registration struct {
	mime   string
	parser Parser
}

// Loader reads sources and dispatches their content to the parser registered for its type
type Loader struct {
	parsers []registration
}

type LoaderOption func(*Loader)

// WithParser registers parser for a content type, replacing a previous registration
func WithParser(mime string, parser Parser) LoaderOption {
	return func(l *Loader) {
		l.Register(mime, parser)
	}
}

// NewLoader returns a Loader handling plain text, plus the parsers given as options
func NewLoader(opts ...LoaderOption) *Loader {
	ret := new(Loader)
	ret.Register(MimeText, PlainText{})
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (l *Loader) Register(mime string, parser Parser) {
	for idx, v := range l.parsers {
		if v.mime == mime {
			l.parsers[idx].parser = parser
			return
		}
	}
	l.parsers = append(l.parsers, registration{mime: mime, parser: parser})
}

// Supports reports whether a parser is registered for the extension of name
func (l *Loader) Supports(name string) bool {
	mime, ok := extensions[strings.ToLower(path.Ext(name))]
	if !ok {
		return false
	}
	_, ok = l.lookup(mime)
	return ok
}

// Load reads and parses src
func (l *Loader) Load(ctx context.Context, src Source) (*Document, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Name(), err)
	}
	defer rc.Close()
	bs, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	if len(bs) == 0 {
		return nil, fmt.Errorf("%s: %w", src.Name(), ErrEmpty)
	}
	mime, parser, err := l.detect(src.Name(), bs)
	if err != nil {
		return nil, err
	}
	pages, err := parser.Parse(ctx, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Name(), err)
	}
	return &Document{
		Source:   src.Name(),
		MimeType: mime,
		Meta:     src.Meta(),
		Pages:    pages,
	}, nil
}

// detect sniffs the content type, walking up the mime hierarchy, then falls back to the name extension
func (l *Loader) detect(name string, bs []byte) (string, Parser, error) {
	detected := mimetype.Detect(bs)
	byExt, hasExt := extensions[strings.ToLower(path.Ext(name))]
	// zip based office formats are often sniffed as plain zip archives
	if hasExt && (detected.Is("application/zip") || detected.Is("application/octet-stream")) {
		if parser, ok := l.lookup(byExt); ok {
			return byExt, parser, nil
		}
	}
	for m := detected; m != nil; m = m.Parent() {
		for _, v := range l.parsers {
			if m.Is(v.mime) {
				return v.mime, v.parser, nil
			}
		}
	}
	if hasExt {
		if parser, ok := l.lookup(byExt); ok {
			return byExt, parser, nil
		}
	}
	return "", nil, fmt.Errorf("%s (%s): %w", name, detected.String(), ErrUnsupported)
}

func (l *Loader) lookup(mime string) (Parser, bool) {
	for _, v := range l.parsers {
		if v.mime == mime {
			return v.parser, true
		}
	}
	return nil, false
}
