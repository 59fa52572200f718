package searxng

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/leagravellard/Projet-GENAI/schema"
	"github.com/leagravellard/Projet-GENAI/tools"
)

type Category = string

const (
	EmptyCategory       Category = ""
	GeneralCategory     Category = "general"
	NewsCategory        Category = "news"
	SocialMediaCategory Category = "social_media"
)

const (
	DefaultName        = "recherche_web"
	DefaultDescription = "Recherche des informations récentes ou générales sur Internet."
	DefaultBaseURL     = "http://localhost:8080"
)

// ErrNoResults is returned when the search engine finds nothing usable
var ErrNoResults = errors.New("aucun résultat trouvé")

// Input Schema for input to a tool for searching for information, news, references, and other content using SearxNG.
// Returns a list of search results with a short description or content snippet and URLs for further exploration
type Input struct {
	schema.Base
	// Queries list of search queries.
	Queries []string `json:"queries" jsonschema:"title=queries,description=Liste des requêtes de recherche." validate:"required,min=1,dive,required"`
	// Category: Category of the search queries."
	Category Category `json:"category,omitempty" jsonschema:"title=category,enum=general,enum=news,enum=social_media,default=general,description=Catégorie des requêtes."`
}

func NewInput(category Category, queries []string) *Input {
	return &Input{
		Queries:  queries,
		Category: category,
	}
}

// SearchResultItem represents a single search result item
type SearchResultItem struct {
	schema.Base
	// URL The URL of the search result
	URL string `json:"url" jsonschema:"title=url,description=The URL of the search result"`
	// Title The title of the search result
	Title string `json:"title" jsonschema:"title=title,description=The title of the search result"`
	// Content The content snippet of the search result
	Content string `json:"content,omitempty" jsonschema:"title=content,description=The content snippet of the search result"`
	// Query The query used to obtain this search result
	Query string `json:"query" jsonschema:"title=query,description=The query used to obtain this search result"`
	// Category of the result
	Category Category `json:"category,omitempty"`
	// Metadata Metadata of the search result
	Metadata string `json:"metadata,omitempty"`
	// PublishedDate The published date of the search result
	PublishedDate string `json:"publishedDate,omitempty"`
}

func (s SearchResultItem) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Titre : %s\nURL : %s\n", s.Title, s.URL)
	if s.PublishedDate != "" {
		fmt.Fprintf(&sb, "Date : %s\n", s.PublishedDate)
	}
	fmt.Fprintf(&sb, "Extrait : %s", s.Content)
	return sb.String()
}

func (s SearchResultItem) complete() bool {
	return s.Title != "" && s.URL != "" && s.Content != ""
}

// SearchResponse represents the entire response from the local search engine
type SearchResponse struct {
	Query           string             `json:"query"`
	NumberOfResults int                `json:"number_of_results"`
	Results         []SearchResultItem `json:"results"`
}

// Output represents the output of the SearxNG search tool.
type Output struct {
	schema.Base
	// Results List of search result items
	Results []SearchResultItem `json:"results,omitempty" jsonschema:"title=results,description=List of search result items"`
	// Category The category of the search results
	Category Category `json:"category,omitempty" jsonschema:"title=category,enum=general,enum=news,enum=social_media,default=general,description=Category of the search results."`
}

// String renders the results as text blocks separated by blank lines
func (s Output) String() string {
	parts := make([]string, 0, len(s.Results))
	for _, v := range s.Results {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "\n\n")
}

type Config struct {
	tools.Config
	language   string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// Tool performs searches on SearxNG based on the provided queries and category.
type Tool struct {
	Config
}

var _ tools.Tool[Input, Output] = (*Tool)(nil)

func New(opts ...Option) *Tool {
	ret := new(Tool)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	tools.Defaults[tools.QueryInput](&ret.Config.Config, DefaultName, DefaultDescription, "query")
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	ret.baseURL = strings.TrimRight(ret.baseURL, "/")
	if ret.maxResults == 0 {
		ret.maxResults = 10
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

// Run queries SearxNG for every query. Results missing a title, URL or content are dropped,
// at most maxResults are kept per query and URLs seen for a previous query are skipped.
func (t *Tool) Run(ctx context.Context, input *Input, output *Output) error {
	if err := tools.Validate(input); err != nil {
		return err
	}
	seen := make(map[string]struct{})
	for _, query := range input.Queries {
		results, err := t.fetchSearchResults(ctx, query, input.Category)
		if err != nil {
			return err
		}
		var n int
		for _, item := range results {
			if n >= t.maxResults {
				break
			}
			if !item.complete() {
				continue
			}
			if _, ok := seen[item.URL]; ok {
				continue
			}
			seen[item.URL] = struct{}{}
			output.Results = append(output.Results, item)
			n++
		}
	}
	output.Category = input.Category
	return nil
}

// Invoke searches argument and returns the results as text
func (t *Tool) Invoke(ctx context.Context, argument string) string {
	t.Started(ctx, t, argument)
	var output Output
	if err := t.Run(ctx, NewInput(EmptyCategory, []string{strings.TrimSpace(argument)}), &output); err != nil {
		return t.Failed(ctx, t, argument, err)
	}
	if len(output.Results) == 0 {
		return t.Failed(ctx, t, argument, ErrNoResults)
	}
	return t.Finished(ctx, t, argument, output.String())
}

// fetchSearchResults queries the local search engine and returns the parsed search response
func (t *Tool) fetchSearchResults(ctx context.Context, query string, category Category) ([]SearchResultItem, error) {
	// Encode the query parameter
	values := url.Values{}
	values.Set("q", query)
	values.Set("safesearch", "0")
	values.Set("format", "json")
	if t.language != "" {
		values.Set("language", t.language)
	}
	if category != "" {
		values.Set("categories", category)
	}
	searchURL := fmt.Sprintf("%s/search?%s", t.baseURL, values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying local search engine: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from search engine: %d", httpResp.StatusCode)
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&searchResponse); err != nil {
		return nil, err
	}
	for idx := range searchResponse.Results {
		searchResponse.Results[idx].Query = query
	}

	return searchResponse.Results, nil
}
