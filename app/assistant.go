package app

import (
	"net/http"
	"strings"

	"github.com/leagravellard/Projet-GENAI/agents"
	"github.com/leagravellard/Projet-GENAI/agents/rag"
	"github.com/leagravellard/Projet-GENAI/config"
	"github.com/leagravellard/Projet-GENAI/tools"
	"github.com/leagravellard/Projet-GENAI/tools/calculator"
	"github.com/leagravellard/Projet-GENAI/tools/duckduckgo"
	"github.com/leagravellard/Projet-GENAI/tools/searxng"
	"github.com/leagravellard/Projet-GENAI/tools/webscraper"
	"github.com/leagravellard/Projet-GENAI/tools/wikipedia"
)

// Registry builds the tool registry from the settings: document retrieval,
// web search, Wikipedia, calculator and, when enabled, the page reader.
func (a *App) Registry() (*tools.Registry, error) {
	cfg := a.config
	httpClient := &http.Client{Timeout: cfg.Agent.ToolTimeout}
	toolOpts := []tools.Option{tools.WithLogger(a.logger)}

	invokers := []tools.Invoker{
		rag.New(a.index, a.model,
			rag.WithTopK(cfg.VectorDB.TopK),
			rag.WithTimeout(cfg.LLM.Timeout),
			rag.WithToolOptions(toolOpts...),
		),
	}
	switch cfg.Tools.WebSearch.Backend {
	case config.BackendSearxNG:
		invokers = append(invokers, searxng.New(
			searxng.WithBaseURL(cfg.Tools.WebSearch.BaseURL),
			searxng.WithLanguage(cfg.Tools.WebSearch.Language),
			searxng.WithMaxResults(cfg.Tools.WebSearch.MaxResults),
			searxng.WithHttpClient(httpClient),
			searxng.WithToolOptions(toolOpts...),
		))
	case config.BackendDuckDuckGo:
		ddgOpts := []duckduckgo.Option{
			duckduckgo.WithMaxResults(cfg.Tools.WebSearch.MaxResults),
			duckduckgo.WithHttpClient(httpClient),
			duckduckgo.WithToolOptions(toolOpts...),
		}
		if region := duckDuckGoRegion(cfg.Tools.WebSearch.Language); region != "" {
			ddgOpts = append(ddgOpts, duckduckgo.WithRegion(region))
		}
		invokers = append(invokers, duckduckgo.New(ddgOpts...))
	}
	wikiOpts := []wikipedia.Option{
		wikipedia.WithLanguage(cfg.Tools.Wikipedia.Language),
		wikipedia.WithMaxChars(cfg.Tools.Wikipedia.MaxChars),
		wikipedia.WithHttpClient(httpClient),
		wikipedia.WithToolOptions(toolOpts...),
	}
	if cfg.Tools.Wikipedia.BaseURL != "" {
		wikiOpts = append(wikiOpts, wikipedia.WithBaseURL(cfg.Tools.Wikipedia.BaseURL))
	}
	invokers = append(invokers,
		wikipedia.New(wikiOpts...),
		calculator.New(toolOpts...),
	)
	if cfg.Tools.Webscraper.Enabled {
		invokers = append(invokers, webscraper.New(
			webscraper.WithTimeout(cfg.Agent.ToolTimeout),
			webscraper.WithToolOptions(toolOpts...),
		))
	}

	descriptors := make([]tools.Descriptor, 0, len(invokers))
	for _, t := range invokers {
		descriptors = append(descriptors, tools.FromInvoker(t))
	}
	return tools.NewRegistry(descriptors...)
}

// ToolAgent builds the agent for mode, text or structured
func (a *App) ToolAgent(mode string) (*agents.ToolAgent, error) {
	registry, err := a.Registry()
	if err != nil {
		return nil, err
	}
	cfg := a.config.Agent
	structured := mode == config.ModeStructured
	decision := agents.NewAgent(
		agents.WithClient(a.model),
		agents.WithSystemPromptGenerator(agents.NewDecisionPrompt(registry, structured)),
		agents.WithTimeout(cfg.Timeout),
		agents.WithName("decision"),
		agents.WithLogger(a.logger),
	)
	synthesis := agents.NewAgent(
		agents.WithClient(a.model),
		agents.WithSystemPromptGenerator(agents.NewSynthesisPrompt()),
		agents.WithTimeout(cfg.Timeout),
		agents.WithName("synthesis"),
		agents.WithLogger(a.logger),
	)
	var (
		intents agents.IntentSource
		opts    = []agents.ToolAgentOption{agents.WithToolAgentLogger(a.logger)}
	)
	if structured {
		intents = agents.NewStructuredIntents(decision, registry)
	} else {
		intents = agents.NewTextIntents(decision)
		opts = append(opts, agents.WithMaxDirectives(1))
	}
	dispatcher := agents.NewDispatcher(registry,
		agents.WithToolTimeout(cfg.ToolTimeout),
		agents.WithConcurrency(cfg.Concurrency),
		agents.WithDispatcherLogger(a.logger),
	)
	return agents.NewToolAgent(intents, dispatcher, synthesis, opts...), nil
}

// duckDuckGoRegion maps a language code to a region code, fr to fr-fr
func duckDuckGoRegion(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || strings.Contains(lang, "-") {
		return lang
	}
	return lang + "-" + lang
}
