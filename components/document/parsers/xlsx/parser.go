package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leagravellard/Projet-GENAI/components/document"
)

// Parser renders every sheet of a workbook as a markdown table
type Parser struct {
	password string
}

var _ document.Parser = (*Parser)(nil)

type Option func(*Parser)

func WithPassword(passwd string) Option {
	return func(p *Parser) {
		p.password = passwd
	}
}

func NewParser(opts ...Option) *Parser {
	ret := new(Parser)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Parse returns one page per non empty sheet, numbered by sheet position
func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader) ([]document.Page, error) {
	opts := make([]excelize.Options, 0, 1)
	if p.password != "" {
		opts = append(opts, excelize.Options{Password: p.password})
	}
	doc, err := excelize.OpenReader(reader, opts...)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	var pages []document.Page
	for sheetIdx, sheet := range doc.GetSheetList() {
		text, err := renderSheet(doc, sheet)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}
		pages = append(pages, document.Page{
			Number: sheetIdx + 1,
			Title:  sheet,
			Text:   text,
		})
	}
	return pages, nil
}

func renderSheet(doc *excelize.File, sheet string) (string, error) {
	rows, err := doc.Rows(sheet)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	var sb strings.Builder
	for rowIdx := 1; rows.Next(); rowIdx++ {
		row, err := rows.Columns()
		if err != nil {
			return "", err
		}
		if len(row) == 0 {
			continue
		}
		if sb.Len() == 0 {
			fmt.Fprintf(&sb, "# %s\n\n", sheet)
		}
		cells := make([]string, 0, len(row))
		for colIdx, cellValue := range row {
			cellValue = strings.TrimSpace(document.EscapeMarkdown(document.StripUnprintable(cellValue)))
			if cellValue != "" {
				cellValue = decorate(doc, sheet, colIdx+1, rowIdx, cellValue)
			}
			cells = append(cells, cellValue)
		}
		sb.WriteString("| ")
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString(" |\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// decorate applies the cell font style and hyperlink as markdown
func decorate(doc *excelize.File, sheet string, col, row int, value string) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return value
	}
	if styleID, err := doc.GetCellStyle(sheet, cell); err == nil && styleID > 0 {
		if style, err := doc.GetStyle(styleID); err == nil && style.Font != nil {
			switch {
			case style.Font.Bold:
				value = fmt.Sprintf("**%s**", value)
			case style.Font.Strike:
				value = fmt.Sprintf("~~%s~~", value)
			case style.Font.Italic:
				value = fmt.Sprintf("*%s*", value)
			}
		}
	}
	if ok, target, _ := doc.GetCellHyperLink(sheet, cell); ok && target != "" {
		value = fmt.Sprintf("[%s](%s)", value, target)
	}
	return value
}
