package webscraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/leagravellard/Projet-GENAI/schema"
	"github.com/leagravellard/Projet-GENAI/tools"
)

const (
	DefaultName        = "lecture_page"
	DefaultDescription = "Lit le contenu d'une page web à partir de son URL et le renvoie au format markdown."
)

var blankLines = regexp.MustCompile(`\r?\n{2,}`)

// Input schema for the webpage scraper.
type Input struct {
	schema.Base
	// URL of the webpage to scrape.
	URL string `json:"url" jsonschema:"title=url,description=URL de la page web à lire." validate:"required,url"`
}

func NewInput(link string) *Input {
	return &Input{
		URL: strings.TrimSpace(link),
	}
}

// Metadata Schema for webpage metadata
type Metadata struct {
	// Title is the title of the webpage.
	Title string `json:"title,omitempty" jsonschema:"title=title,description=The title of the webpage."`
	// Author is the author of the webpage content.
	Author string `json:"author,omitempty" jsonschema:"title=author,description=The Author of the webpage."`
	// Description is the meta description of the webpage.
	Description string `json:"description,omitempty" jsonschema:"title=description,description=The meta description of the webpage."`
	// SiteName is the name of the website.
	SiteName string `json:"sitename,omitempty" jsonschema:"title=sitename,description=The name of the website."`
	// Domain is the domain name of the website.
	Domain string `json:"domain,omitempty" jsonschema:"title=domain,description=The domain name of the website."`
}

// Output Schema for the output of the webpage scraper.
type Output struct {
	schema.Base
	URL string `json:"url"`
	// Content The scraped content in markdown format.
	Content string `json:"content,omitempty" jsonschema:"title=content,description=The scraped content in markdown format."`
	// Metadata is metadata about the scraped webpage.
	Metadata Metadata `json:"metadata" jsonschema:"title=metadata,description=Metadata about the webpage."`
}

func (o Output) String() string {
	var sb strings.Builder
	if o.Metadata.Title != "" {
		fmt.Fprintf(&sb, "Titre : %s\n", o.Metadata.Title)
	}
	fmt.Fprintf(&sb, "URL : %s\n\n", o.URL)
	sb.WriteString(o.Content)
	return strings.TrimSpace(sb.String())
}

type Config struct {
	tools.Config
	// userAgent User agent string to use for requests.
	userAgent string
	// timeout for HTTP requests
	timeout time.Duration
	// maxContentLength Maximum content length in bytes to read.
	maxContentLength int64
	// maxChars Maximum markdown length in characters returned by Invoke
	maxChars   int
	httpClient *http.Client
}

// Tool reads a webpage and converts its main content to markdown
type Tool struct {
	Config
}

var _ tools.Tool[Input, Output] = (*Tool)(nil)

func New(opts ...Option) *Tool {
	ret := new(Tool)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	tools.Defaults[Input](&ret.Config.Config, DefaultName, DefaultDescription, "url")
	if ret.userAgent == "" {
		ret.userAgent = DefaultUserAgent
	}
	if ret.timeout == 0 {
		ret.timeout = 30 * time.Second
	}
	if ret.maxContentLength == 0 {
		ret.maxContentLength = 1_000_000
	}
	if ret.maxChars == 0 {
		ret.maxChars = 8000
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{Timeout: ret.timeout}
	}
	return ret
}

func (t *Tool) Run(ctx context.Context, input *Input, output *Output) error {
	if err := tools.Validate(input); err != nil {
		return err
	}
	parsedURL, err := url.ParseRequestURI(input.URL)
	if err != nil {
		return err
	}
	doc, err := t.fetch(ctx, input)
	if err != nil {
		return err
	}
	// metadata first, extraction removes the head elements
	output.Metadata.Domain = parsedURL.Host
	t.extractMetadata(doc, &output.Metadata)
	mainContent := t.extractMainContent(doc)
	markdown, err := htmltomarkdown.ConvertString(
		mainContent,
		converter.WithDomain(fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)),
	)
	if err != nil {
		return err
	}
	output.URL = input.URL
	output.Content = t.cleanMarkdownContent(markdown)
	return nil
}

// Invoke reads the page at argument and returns its markdown
func (t *Tool) Invoke(ctx context.Context, argument string) string {
	t.Started(ctx, t, argument)
	var output Output
	if err := t.Run(ctx, NewInput(argument), &output); err != nil {
		return t.Failed(ctx, t, argument, err)
	}
	if utf8.RuneCountInString(output.Content) > t.maxChars {
		output.Content = string([]rune(output.Content)[:t.maxChars]) + " […]"
	}
	return t.Finished(ctx, t, argument, output.String())
}

func (t *Tool) fetch(ctx context.Context, input *Input) (*goquery.Document, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set("Accept", DefaultAccept)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", input.URL, httpResp.Status)
	}
	if httpResp.ContentLength > t.maxContentLength {
		return nil, fmt.Errorf("content length exceeds maximum of %d bytes", t.maxContentLength)
	}
	return goquery.NewDocumentFromReader(io.LimitReader(httpResp.Body, t.maxContentLength))
}

// Extracts metadata from the webpage
func (t *Tool) extractMetadata(doc *goquery.Document, meta *Metadata) {
	meta.Title = strings.TrimSpace(doc.Find("head title").First().Text())
	meta.Author, _ = doc.Find("meta[name='author']").Attr("content")
	meta.Description, _ = doc.Find("meta[name='description']").Attr("content")
	meta.SiteName, _ = doc.Find("meta[property='og:site_name']").Attr("content")
}

// extractMainContent extracts the main content from the webpage using custom heuristics
func (t *Tool) extractMainContent(doc *goquery.Document) string {
	for _, tag := range []string{"script", "style", "nav", "header", "footer", "noscript"} {
		doc.Find(tag).Remove()
	}
	contentCandidates := []string{
		"main",
		"article",
		"#content, #main",
		".content, .main",
		"body",
	}
	for _, selector := range contentCandidates {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if txt, err := sel.Html(); err == nil && strings.TrimSpace(txt) != "" {
			return txt
		}
	}
	mainContent, _ := doc.Html()
	return mainContent
}

// Cleans up the markdown content by removing excessive whitespace and normalizing formatting
func (t *Tool) cleanMarkdownContent(content string) string {
	content = blankLines.ReplaceAllString(content, "\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
