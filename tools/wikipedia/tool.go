package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/leagravellard/Projet-GENAI/schema"
	"github.com/leagravellard/Projet-GENAI/tools"
)

const (
	DefaultName        = "recherche_wikipedia"
	DefaultDescription = "Recherche des informations factuelles sur des sujets encyclopédiques dans Wikipédia."
	DefaultLanguage    = "fr"
	DefaultMaxChars    = 2000
	// TruncationMarker ends a summary cut at the maximum length
	TruncationMarker = " […]"
	userAgent        = "Projet-GENAI/1.0 (https://github.com/leagravellard/Projet-GENAI)"
)

var errNotFound = errors.New("page not found")

// Input is an encyclopedic lookup
type Input struct {
	schema.Base
	Query string `json:"query" jsonschema:"title=query,description=Sujet à rechercher dans Wikipédia." validate:"required"`
}

func NewInput(query string) *Input {
	return &Input{Query: strings.TrimSpace(query)}
}

// Output is the summary of the resolved page. Title is empty when nothing matched.
type Output struct {
	schema.Base
	Query     string `json:"query"`
	Title     string `json:"title,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

func (o Output) Found() bool {
	return o.Title != ""
}

func (o Output) String() string {
	if !o.Found() {
		return fmt.Sprintf("Aucune page Wikipédia trouvée pour « %s ».", o.Query)
	}
	return fmt.Sprintf("Page : %s\nRésumé : %s", o.Title, o.Summary)
}

type Config struct {
	tools.Config
	language   string
	baseURL    string
	maxChars   int
	httpClient *http.Client
}

// Tool summarizes Wikipedia pages through the MediaWiki API
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
	if ret.language == "" {
		ret.language = DefaultLanguage
	}
	if ret.baseURL == "" {
		ret.baseURL = fmt.Sprintf("https://%s.wikipedia.org", ret.language)
	}
	ret.baseURL = strings.TrimRight(ret.baseURL, "/")
	if ret.maxChars <= 0 {
		ret.maxChars = DefaultMaxChars
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

// Run resolves the query to a page: exact title (following redirects), otherwise the
// first search hit. A disambiguation page resolves to its first option.
func (t *Tool) Run(ctx context.Context, input *Input, output *Output) error {
	if err := tools.Validate(input); err != nil {
		return err
	}
	output.Query = input.Query
	page, err := t.page(ctx, input.Query)
	if errors.Is(err, errNotFound) {
		var title string
		if title, err = t.search(ctx, input.Query); err != nil {
			return err
		}
		if title == "" {
			return nil
		}
		if page, err = t.page(ctx, title); errors.Is(err, errNotFound) {
			return nil
		}
	}
	if err != nil {
		return err
	}
	if page.Get("pageprops.disambiguation").Exists() {
		option, err := t.firstOption(ctx, page.Get("title").String())
		if err != nil {
			return err
		}
		if option != "" {
			if resolved, err := t.page(ctx, option); err == nil {
				page = resolved
			} else if !errors.Is(err, errNotFound) {
				return err
			}
		}
	}
	output.Title = page.Get("title").String()
	output.Summary, output.Truncated = truncate(strings.TrimSpace(page.Get("extract").String()), t.maxChars)
	return nil
}

// Invoke looks argument up and returns the summary, or a not found message
func (t *Tool) Invoke(ctx context.Context, argument string) string {
	t.Started(ctx, t, argument)
	var output Output
	if err := t.Run(ctx, NewInput(argument), &output); err != nil {
		return t.Failed(ctx, t, argument, err)
	}
	return t.Finished(ctx, t, argument, output.String())
}

// page fetches the intro extract and page properties of a title
func (t *Tool) page(ctx context.Context, title string) (gjson.Result, error) {
	values := url.Values{}
	values.Set("action", "query")
	values.Set("prop", "extracts|pageprops")
	values.Set("exintro", "1")
	values.Set("explaintext", "1")
	values.Set("redirects", "1")
	values.Set("titles", title)
	body, err := t.get(ctx, values)
	if err != nil {
		return gjson.Result{}, err
	}
	page := gjson.GetBytes(body, "query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() || page.Get("invalid").Bool() {
		return gjson.Result{}, errNotFound
	}
	return page, nil
}

// search returns the title of the best search hit, empty when none
func (t *Tool) search(ctx context.Context, query string) (string, error) {
	values := url.Values{}
	values.Set("action", "query")
	values.Set("list", "search")
	values.Set("srsearch", query)
	values.Set("srlimit", "1")
	body, err := t.get(ctx, values)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "query.search.0.title").String(), nil
}

// firstOption reads the first article linked from a rendered disambiguation page
func (t *Tool) firstOption(ctx context.Context, title string) (string, error) {
	values := url.Values{}
	values.Set("action", "parse")
	values.Set("page", title)
	values.Set("prop", "text")
	body, err := t.get(ctx, values)
	if err != nil {
		return "", err
	}
	html := gjson.GetBytes(body, "parse.text").String()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	var option string
	doc.Find("li a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		name, _ := s.Attr("title")
		if !strings.HasPrefix(href, "/wiki/") || name == "" || strings.Contains(name, ":") || name == title {
			return true
		}
		option = name
		return false
	})
	return option, nil
}

func (t *Tool) get(ctx context.Context, values url.Values) ([]byte, error) {
	values.Set("format", "json")
	values.Set("formatversion", "2")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/w/api.php?%s", t.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying wikipedia: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from wikipedia: %d", httpResp.StatusCode)
	}
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if apiErr := gjson.GetBytes(body, "error.info"); apiErr.Exists() {
		return nil, fmt.Errorf("wikipedia api error: %s", apiErr.String())
	}
	return body, nil
}

// truncate keeps at most n runes of s, appending the marker when cut
func truncate(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + TruncationMarker, true
}
