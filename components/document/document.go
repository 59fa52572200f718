package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
)

var (
	// ErrUnsupported is returned when no parser handles the content type of a source
	ErrUnsupported = errors.New("document: unsupported content type")
	// ErrEmpty is returned when a source holds no bytes
	ErrEmpty = errors.New("document: empty content")
)

// Page is a unit of extracted text. Number is 1-based, 0 when the format has no pages.
type Page struct {
	Number int
	Title  string
	Text   string
}

// Document is a parsed source with metadata
type Document struct {
	// Source identifies where the document was read from (path, s3:// or http URL)
	Source string
	// MimeType is the detected content type
	MimeType string
	Meta     map[string]string
	Pages    []Page
}

// Text joins the text of all pages
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Source is a readable document location
type Source interface {
	// Name is the source identifier stored with the chunks
	Name() string
	Meta() map[string]string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Lister enumerates the sources of a collection (directory, bucket prefix)
type Lister interface {
	List(ctx context.Context) ([]Source, error)
}

// Parser extracts pages from a document content
type Parser interface {
	Parse(ctx context.Context, reader *bytes.Reader) ([]Page, error)
}
