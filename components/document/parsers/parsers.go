package parsers

import (
	"github.com/leagravellard/Projet-GENAI/components/document"
	"github.com/leagravellard/Projet-GENAI/components/document/parsers/docx"
	"github.com/leagravellard/Projet-GENAI/components/document/parsers/html"
	"github.com/leagravellard/Projet-GENAI/components/document/parsers/pdf"
	"github.com/leagravellard/Projet-GENAI/components/document/parsers/xlsx"
)

// NewLoader returns a document loader handling pdf, docx, xlsx, html and plain text
func NewLoader(opts ...document.LoaderOption) *document.Loader {
	defaults := []document.LoaderOption{
		document.WithParser(document.MimePDF, pdf.NewParser()),
		document.WithParser(document.MimeDOCX, new(docx.Parser)),
		document.WithParser(document.MimeXLSX, xlsx.NewParser()),
		document.WithParser(document.MimeHTML, html.NewParser()),
	}
	return document.NewLoader(append(defaults, opts...)...)
}
