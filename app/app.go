// Package app wires the configured models, stores and tools into a ready to use assistant.
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/leagravellard/Projet-GENAI/agents/rag"
	"github.com/leagravellard/Projet-GENAI/components/embedder"
	"github.com/leagravellard/Projet-GENAI/components/llm"
	"github.com/leagravellard/Projet-GENAI/components/vectordb"
	"github.com/leagravellard/Projet-GENAI/config"
)

type Option func(*App)

// WithModel injects the chat model instead of building it from the settings
func WithModel(m llm.Model) Option {
	return func(a *App) {
		a.model = m
	}
}

// WithEmbedder injects the embedder instead of building it from the settings
func WithEmbedder(e embedder.Embedder) Option {
	return func(a *App) {
		a.embedder = e
	}
}

// WithEngine injects the vector engine instead of building it from the settings
func WithEngine(e vectordb.Engine) Option {
	return func(a *App) {
		a.engine = e
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// App holds the long lived dependencies shared by the front ends
type App struct {
	config   *config.Config
	logger   *slog.Logger
	model    llm.Model
	embedder embedder.Embedder
	engine   vectordb.Engine
	index    *rag.Index
	closers  []func() error
}

// New builds every dependency not injected through opts
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	ret := &App{config: cfg}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = cfg.Log.NewLogger(os.Stderr)
	}
	var err error
	if ret.model == nil {
		if ret.model, err = ret.newModel(ctx); err != nil {
			return nil, errors.Join(err, ret.Close())
		}
	}
	if ret.embedder == nil {
		if ret.embedder, err = ret.newEmbedder(ctx); err != nil {
			return nil, errors.Join(err, ret.Close())
		}
	}
	if ret.engine == nil {
		if ret.engine, err = ret.newEngine(ctx); err != nil {
			return nil, errors.Join(err, ret.Close())
		}
	}
	ret.index = rag.NewIndex(ret.embedder, ret.engine,
		rag.WithCollection(cfg.VectorDB.Collection),
		rag.WithIndexLogger(ret.logger),
	)
	return ret, nil
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) Model() llm.Model {
	return a.model
}

// Index is the retrieval index of the configured collection
func (a *App) Index() *rag.Index {
	return a.index
}

// Close releases the clients opened by New
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
