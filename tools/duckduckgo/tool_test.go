package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const resultsPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example.com">Publicité</a>
  <a class="result__snippet">Achetez</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Ffr.wikipedia.org%2Fwiki%2FParis&rut=abc">Paris — Wikipédia</a></h2>
  <a class="result__snippet">Paris est la capitale de la France.</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://www.paris.fr/">Site officiel</a></h2>
  <a class="result__snippet">Ville de Paris.</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://example.com/3">Troisième</a></h2>
</div>
</body></html>`

func startServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/html/" || r.URL.Query().Get("q") == "" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	srv := startServer(t, resultsPage)
	tool := New(WithBaseURL(srv.URL), WithMaxResults(2))
	var output Output
	if err := tool.Run(context.Background(), NewInput("paris"), &output); err != nil {
		t.Fatal(err)
	}
	if len(output.Results) != 2 {
		t.Fatalf("want 2 results, got %d", len(output.Results))
	}
	if got := output.Results[0]; got.URL != "https://fr.wikipedia.org/wiki/Paris" || got.Snippet != "Paris est la capitale de la France." {
		t.Errorf("unexpected first result %+v", got)
	}
	if got := output.Results[1].Title; got != "Site officiel" {
		t.Errorf("unexpected second title %s", got)
	}
}

func TestInvoke(t *testing.T) {
	srv := startServer(t, "<html><body><p>No results.</p></body></html>")
	got := New(WithBaseURL(srv.URL)).Invoke(context.Background(), "zzzz")
	if !strings.HasPrefix(got, "Erreur") {
		t.Errorf("want failure text, got %q", got)
	}

	srv = startServer(t, resultsPage)
	got = New(WithBaseURL(srv.URL)).Invoke(context.Background(), "paris")
	if !strings.HasPrefix(got, "Titre : Paris — Wikipédia\nURL : https://fr.wikipedia.org/wiki/Paris") {
		t.Errorf("unexpected output %q", got)
	}
	if strings.Contains(got, "Publicité") {
		t.Errorf("ads not skipped")
	}
}
