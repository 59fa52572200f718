package duckduckgo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leagravellard/Projet-GENAI/schema"
	"github.com/leagravellard/Projet-GENAI/tools"
)

const (
	DefaultName        = "recherche_web"
	DefaultDescription = "Recherche des informations récentes ou générales sur Internet."
	DefaultBaseURL     = "https://html.duckduckgo.com"
	userAgent          = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
)

var ErrNoResults = errors.New("aucun résultat trouvé")

// Input is a DuckDuckGo search query
type Input struct {
	schema.Base
	Query string `json:"query" jsonschema:"title=query,description=Requête de recherche." validate:"required"`
}

func NewInput(query string) *Input {
	return &Input{Query: strings.TrimSpace(query)}
}

// Result is a single DuckDuckGo hit
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

func (r Result) String() string {
	return fmt.Sprintf("Titre : %s\nURL : %s\nExtrait : %s", r.Title, r.URL, r.Snippet)
}

// Output is the list of hits in page order
type Output struct {
	schema.Base
	Results []Result `json:"results,omitempty"`
}

func (o Output) String() string {
	parts := make([]string, 0, len(o.Results))
	for _, v := range o.Results {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "\n\n")
}

type Config struct {
	tools.Config
	baseURL    string
	region     string
	maxResults int
	httpClient *http.Client
}

// Tool searches the web through the DuckDuckGo HTML endpoint
type Tool struct {
	Config
}

var _ tools.Tool[Input, Output] = (*Tool)(nil)

func New(opts ...Option) *Tool {
	ret := new(Tool)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	tools.Defaults[Input](&ret.Config.Config, DefaultName, DefaultDescription, "query")
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	ret.baseURL = strings.TrimRight(ret.baseURL, "/")
	if ret.maxResults == 0 {
		ret.maxResults = 5
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

func (t *Tool) Run(ctx context.Context, input *Input, output *Output) error {
	if err := tools.Validate(input); err != nil {
		return err
	}
	values := url.Values{}
	values.Set("q", input.Query)
	if t.region != "" {
		values.Set("kl", t.region)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/html/?%s", t.baseURL, values.Encode()), nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error querying duckduckgo: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("non-200 response from duckduckgo: %d", httpResp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(httpResp.Body)
	if err != nil {
		return err
	}
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find(".result__a").First()
		href, _ := link.Attr("href")
		item := Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     resolveLink(href),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		}
		if item.Title == "" || item.URL == "" {
			return true
		}
		output.Results = append(output.Results, item)
		return len(output.Results) < t.maxResults
	})
	return nil
}

// Invoke searches argument and returns the hits as text
func (t *Tool) Invoke(ctx context.Context, argument string) string {
	t.Started(ctx, t, argument)
	var output Output
	if err := t.Run(ctx, NewInput(argument), &output); err != nil {
		return t.Failed(ctx, t, argument, err)
	}
	if len(output.Results) == 0 {
		return t.Failed(ctx, t, argument, ErrNoResults)
	}
	return t.Finished(ctx, t, argument, output.String())
}

// resolveLink unwraps the duckduckgo redirect links (//duckduckgo.com/l/?uddg=...)
func resolveLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && u.Host != "" {
		u.Scheme = "https"
	}
	return u.String()
}
