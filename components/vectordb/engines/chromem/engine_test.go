package chromem

import (
	"context"
	"testing"

	"github.com/philippgille/chromem-go"

	"github.com/leagravellard/Projet-GENAI/components/embedder"
	"github.com/leagravellard/Projet-GENAI/components/vectordb"
)

func TestEngine(t *testing.T) {
	ctx := context.Background()
	engine := New(chromem.NewDB(), vectordb.WithTopK(3))

	got, err := engine.Search(ctx, []float64{1, 0}, vectordb.SearchWithCollection("docs"))
	if err != nil || len(got) != 0 {
		t.Fatalf("empty collection: want no records, got %v, %v", got, err)
	}

	records := vectordb.NewRecords([]embedder.Embedding{
		{Object: "chiffre d'affaires 2023 : 5M€", Embedding: []float64{1, 0}, Meta: map[string]string{"source": "rapport.pdf", "page": "3"}},
		{Object: "effectif : 42 personnes", Embedding: []float64{0, 1}, Meta: map[string]string{"source": "rapport.pdf", "page": "7"}},
	})
	if err := engine.Insert(ctx, "docs", records...); err != nil {
		t.Fatal(err)
	}
	if n, _ := engine.Count(ctx, "docs"); n != 2 {
		t.Fatalf("count: want 2, got %d", n)
	}

	// top k above the collection size is clamped
	got, err = engine.Search(ctx, []float64{0.9, 0.1}, vectordb.SearchWithCollection("docs"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 records, got %d", len(got))
	}
	if got[0].Embedding.Meta["page"] != "3" {
		t.Errorf("want best match from page 3, got %+v", got[0])
	}

	if err := engine.Drop(ctx, "docs"); err != nil {
		t.Fatal(err)
	}
	if n, _ := engine.Count(ctx, "docs"); n != 0 {
		t.Errorf("count after drop: want 0, got %d", n)
	}
}
