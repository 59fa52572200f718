package document

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode"
)

// PlainText returns the content as a single page
type PlainText struct{}

var _ Parser = (*PlainText)(nil)

func (PlainText) Parse(_ context.Context, reader *bytes.Reader) ([]Page, error) {
	bs, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(StripUnprintable(string(bs)))
	if text == "" {
		return nil, nil
	}
	return []Page{{Text: text}}, nil
}

// StripUnprintable drops control characters except new lines and tabs
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"\n", " ",
)

// EscapeMarkdown escapes the characters breaking a markdown table cell
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
