package parsers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/leagravellard/Projet-GENAI/components/document"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "Le chiffre d'affaires 2023 est de 5M€.")
	writeFile(t, dir, "page.html", "<!DOCTYPE html><html><body><h1>Rapport</h1><p>Effectif : <strong>42</strong></p></body></html>")

	book := excelize.NewFile()
	book.SetCellValue("Sheet1", "A1", "Produit")
	book.SetCellValue("Sheet1", "B1", "Prix")
	book.SetCellValue("Sheet1", "A2", "Café")
	book.SetCellValue("Sheet1", "B2", 3)
	if err := book.SaveAs(filepath.Join(dir, "prix.xlsx")); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	sources, err := document.NewDir(dir, "").List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 3 {
		t.Fatalf("want 3 sources, got %d", len(sources))
	}
	loader := NewLoader()
	tests := map[string]struct {
		mime string
		want []string
	}{
		"notes.txt": {mime: document.MimeText, want: []string{"5M€"}},
		"page.html": {mime: document.MimeHTML, want: []string{"# Rapport", "**42**"}},
		"prix.xlsx": {mime: document.MimeXLSX, want: []string{"| Produit | Prix |", "| Café | 3 |"}},
	}
	for _, src := range sources {
		name := filepath.Base(src.Name())
		tt, ok := tests[name]
		if !ok {
			t.Fatalf("unexpected source %s", name)
		}
		t.Run(name, func(t *testing.T) {
			doc, err := loader.Load(ctx, src)
			if err != nil {
				t.Fatal(err)
			}
			if doc.MimeType != tt.mime {
				t.Errorf("mime: want %s, got %s", tt.mime, doc.MimeType)
			}
			if doc.Meta["filename"] != name {
				t.Errorf("filename meta: want %s, got %s", name, doc.Meta["filename"])
			}
			text := doc.Text()
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("text misses %q:\n%s", w, text)
				}
			}
		})
	}
}

func TestLoaderUnsupported(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "image.png")
	// PNG signature
	if err := os.WriteFile(p, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := document.NewFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader().Load(context.Background(), src); !errors.Is(err, document.ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
}
