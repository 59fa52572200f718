package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leagravellard/Projet-GENAI/components/llm"
	"github.com/leagravellard/Projet-GENAI/components/systemprompt"
	"github.com/leagravellard/Projet-GENAI/components/systemprompt/simple"
	"github.com/leagravellard/Projet-GENAI/schema"
	"github.com/leagravellard/Projet-GENAI/tools"
)

const (
	DefaultName        = "search_documents"
	DefaultDescription = "Permet de répondre aux questions sur les documents PDF internes ou les bases documentaires indexées."
	DefaultTopK        = 3
	DefaultTimeout     = 60 * time.Second
	// NoData is answered when the corpus holds nothing relevant. No model call is made.
	NoData = "Aucune donnée disponible dans la base documentaire pour répondre à cette question."
)

// GroundingPrompt is the default system prompt of the generation step
const GroundingPrompt = `Tu es un assistant qui répond aux questions à partir de documents internes.
Utilise uniquement le contexte fourni, composé d'extraits numérotés avec leur source.
Si le contexte ne suffit pas pour répondre, dis simplement que tu ne sais pas.
Sois concis.`

// Input the query to answer from the indexed documents
type Input struct {
	schema.Base
	Query string `json:"query" jsonschema:"title=query,description=Question à poser à la base documentaire." validate:"required"`
}

// Source identifies a retrieved chunk
type Source struct {
	ID   string `json:"id"`
	Page int    `json:"page,omitempty"`
}

func (s Source) String() string {
	if s.Page > 0 {
		return fmt.Sprintf("%s (p. %d)", s.ID, s.Page)
	}
	return s.ID
}

// Output the grounded answer and the sources of the retrieved chunks
type Output struct {
	schema.Base
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
}

func (o Output) String() string {
	if len(o.Sources) == 0 {
		return o.Answer
	}
	names := make([]string, 0, len(o.Sources))
	for _, s := range o.Sources {
		names = append(names, s.String())
	}
	return fmt.Sprintf("%s\n\nSources : %s", o.Answer, strings.Join(names, ", "))
}

type Option func(*Tool)

func WithTopK(k int) Option {
	return func(t *Tool) {
		t.topK = k
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(t *Tool) {
		t.timeout = timeout
	}
}

func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(t *Tool) {
		t.systemPromptGenerator = g
	}
}

func WithToolOptions(opts ...tools.Option) Option {
	return func(t *Tool) {
		for _, opt := range opts {
			opt(&t.Config)
		}
	}
}

// Tool answers questions from the chunks of a Retriever: retrieve then generate
type Tool struct {
	tools.Config
	retriever             Retriever
	model                 llm.Model
	systemPromptGenerator systemprompt.Generator
	topK                  int
	timeout               time.Duration
}

var _ tools.Tool[Input, Output] = (*Tool)(nil)

func New(retriever Retriever, model llm.Model, opts ...Option) *Tool {
	ret := &Tool{
		retriever: retriever,
		model:     model,
		topK:      DefaultTopK,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = simple.New(GroundingPrompt)
	}
	if ret.topK <= 0 {
		ret.topK = DefaultTopK
	}
	tools.Defaults[Input](&ret.Config, DefaultName, DefaultDescription, "query")
	return ret
}

func (t *Tool) Run(ctx context.Context, input *Input, output *Output) error {
	if err := tools.Validate(input); err != nil {
		return err
	}
	empty, err := t.retriever.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if empty {
		output.Answer = NoData
		return nil
	}
	chunks, err := t.retriever.SimilaritySearch(ctx, input.Query, t.topK)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		output.Answer = NoData
		return nil
	}
	system, prompt := t.systemPromptGenerator.Generate(), Prompt(input.Query, chunks)
	answer, err := llm.CallWithTimeout(ctx, t.timeout, func(ctx context.Context) (string, error) {
		return t.model.Complete(ctx, system, prompt)
	})
	if err != nil {
		return err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return llm.ErrEmptyResponse
	}
	output.Answer = answer
	output.Sources = sources(chunks)
	return nil
}

func (t *Tool) Invoke(ctx context.Context, argument string) string {
	t.Started(ctx, t, argument)
	var output Output
	if err := t.Run(ctx, &Input{Query: strings.TrimSpace(argument)}, &output); err != nil {
		return t.Failed(ctx, t, argument, err)
	}
	return t.Finished(ctx, t, argument, output.String())
}

// Prompt renders the numbered context block followed by the question
func Prompt(query string, chunks []Chunk) string {
	var sb strings.Builder
	sb.WriteString("Contexte :\n")
	for idx, c := range chunks {
		fmt.Fprintf(&sb, "\n[%d] Source : %s", idx+1, sourceName(c.SourceID))
		if c.Page > 0 {
			fmt.Fprintf(&sb, ", page %d", c.Page)
		}
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(c.Text))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nQuestion : %s", query)
	return sb.String()
}

func sourceName(id string) string {
	if id == "" {
		return "inconnue"
	}
	return id
}

// sources lists distinct chunk sources in retrieval order
func sources(chunks []Chunk) []Source {
	seen := make(map[Source]struct{}, len(chunks))
	ret := make([]Source, 0, len(chunks))
	for _, c := range chunks {
		s := Source{ID: sourceName(c.SourceID), Page: c.Page}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		ret = append(ret, s)
	}
	return ret
}
