package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/components/embedder"
	"github.com/leagravellard/Projet-GENAI/components/llm"
	"github.com/leagravellard/Projet-GENAI/components/vectordb/engines/memory"
	"github.com/leagravellard/Projet-GENAI/config"
)

type replayModel struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

func (m *replayModel) Provider() llm.Provider { return "stub" }

func (m *replayModel) Complete(context.Context, string, string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reply := m.replies[min(m.calls, len(m.replies)-1)]
	m.calls++
	return reply, nil
}

type lengthEmbedder struct{}

func (lengthEmbedder) Provider() embedder.Provider { return "stub" }

func (lengthEmbedder) Model() string { return "stub" }

func (lengthEmbedder) Embed(_ context.Context, text string, embedding *embedder.Embedding, _ *components.LLMUsage) error {
	embedding.Object = text
	embedding.Embedding = []float64{1, float64(len(text))}
	return nil
}

func (e lengthEmbedder) BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]embedder.Embedding, error) {
	ret := make([]embedder.Embedding, len(parts))
	for idx, p := range parts {
		if err := e.Embed(ctx, p, &ret[idx], usage); err != nil {
			return nil, err
		}
		ret[idx].Index = idx
	}
	return ret, nil
}

func newTestApp(t *testing.T, replies ...string) *App {
	t.Helper()
	cfg := config.Default()
	cfg.VectorDB.Engine = "memory"
	a, err := New(context.Background(), cfg,
		WithModel(&replayModel{replies: replies}),
		WithEmbedder(lengthEmbedder{}),
		WithEngine(memory.New()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"rapport.txt":  "Le chiffre d'affaires 2023 était de 5M€. La croissance est de 10 %.",
		"notes.md":     "Le siège social est à Lyon.",
		"vide.txt":     "",
		"photo.png":    "\x89PNG\r\n\x1a\n",
		"sub/rh.txt":   "L'effectif compte 40 salariés.",
		"sub/skip.bin": "\x00\x01",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	a := newTestApp(t, "ok")
	ctx := context.Background()
	report, err := a.Ingest(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if report.Documents != 3 || report.Skipped != 3 {
		t.Errorf("expect 3 documents and 3 skipped, but got %+v", report)
	}
	if report.Chunks == 0 || report.Total != report.Chunks {
		t.Errorf("unexpected chunk counts %+v", report)
	}
	chunks, err := a.Index().SimilaritySearch(ctx, "chiffre d'affaires", 10)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, c := range chunks {
		if strings.Contains(c.Text, "5M€") && strings.HasSuffix(c.SourceID, "rapport.txt") {
			found = true
		}
	}
	if !found {
		t.Errorf("expect the report chunk to be indexed, but got %+v", chunks)
	}
	if err := a.Purge(ctx); err != nil {
		t.Fatal(err)
	}
	if empty, _ := a.Index().IsEmpty(ctx); !empty {
		t.Error("expect an empty index after purge")
	}
}

func TestRegistry(t *testing.T) {
	a := newTestApp(t, "ok")
	registry, err := a.Registry()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, d := range registry.List() {
		names = append(names, d.Name())
	}
	want := "search_documents,recherche_web,recherche_wikipedia,calculatrice"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("expect %s, but got %s", want, got)
	}

	a.config.Tools.WebSearch.Backend = config.BackendNone
	a.config.Tools.Webscraper.Enabled = true
	registry, err = a.Registry()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := registry.Resolve("recherche_web"); err == nil {
		t.Error("expect no web search tool")
	}
	if _, err := registry.Resolve("lecture_page"); err != nil {
		t.Error(err)
	}
}

func TestToolAgent(t *testing.T) {
	a := newTestApp(t, "[TOOL: calculatrice] 3*4+2", "3*4+2 font 14.")
	agent, err := a.ToolAgent(config.ModeText)
	if err != nil {
		t.Fatal(err)
	}
	reply, err := agent.Run(context.Background(), "Combien font 3*4+2 ?")
	if err != nil {
		t.Fatal(err)
	}
	if len(reply.Results) != 1 || reply.Results[0].Text != "14" {
		t.Errorf("unexpected results %+v", reply.Results)
	}
	if reply.Text != "3*4+2 font 14." {
		t.Errorf("unexpected answer %q", reply.Text)
	}
}

func TestDuckDuckGoRegion(t *testing.T) {
	for lang, want := range map[string]string{"fr": "fr-fr", "en-us": "en-us", "": ""} {
		if got := duckDuckGoRegion(lang); got != want {
			t.Errorf("%q: expect %q, but got %q", lang, want, got)
		}
	}
}
