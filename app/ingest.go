package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/leagravellard/Projet-GENAI/agents/rag"
	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/components/document"
	"github.com/leagravellard/Projet-GENAI/components/document/parsers"
	"github.com/leagravellard/Projet-GENAI/components/embedder"
	"github.com/leagravellard/Projet-GENAI/components/embedder/splitter"
)

// ingestBatch is the number of chunks embedded per request
const ingestBatch = 64

// IngestReport summarizes an ingestion run
type IngestReport struct {
	Documents int
	Skipped   int
	Chunks    int
	// Total is the number of chunks in the collection after the run
	Total int
	Usage components.LLMUsage
}

// Sources lists the documents at location: a directory, a single file,
// an s3://bucket/prefix URI or an http(s) URL
func (a *App) Sources(ctx context.Context, loader *document.Loader, location string) ([]document.Source, error) {
	pattern := a.config.Ingest.Glob
	switch {
	case strings.HasPrefix(location, "s3://"):
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		lister, err := document.NewS3Prefix(s3.NewFromConfig(awsCfg), location, func(key string) bool {
			matched, _ := path.Match(pattern, path.Base(key))
			return matched && loader.Supports(key)
		})
		if err != nil {
			return nil, err
		}
		return lister.List(ctx)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return []document.Source{document.NewHttp(location)}, nil
	}
	info, err := os.Stat(location)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		f, err := document.NewFile(location)
		if err != nil {
			return nil, err
		}
		return []document.Source{f}, nil
	}
	return document.NewDir(location, pattern).List(ctx)
}

// Ingest loads, splits, embeds and stores the documents at location.
// Documents which cannot be parsed are skipped and logged.
func (a *App) Ingest(ctx context.Context, location string) (*IngestReport, error) {
	loader := parsers.NewLoader()
	sources, err := a.Sources(ctx, loader, location)
	if err != nil {
		return nil, err
	}
	counter, err := splitter.NewTokenCounter(a.config.Ingest.Tokenizer)
	if err != nil {
		return nil, err
	}
	var chunker embedder.Chunker = splitter.NewSentences(
		splitter.WithChunkSize(a.config.Ingest.ChunkSize),
		splitter.WithOverlap(a.config.Ingest.Overlap),
		splitter.WithTokenCounter(counter),
	)
	report := new(IngestReport)
	batch := make([]rag.Chunk, 0, ingestBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		usage, err := a.index.AddChunks(ctx, batch...)
		report.Usage.Merge(usage)
		if err != nil {
			return err
		}
		report.Chunks += len(batch)
		batch = batch[:0]
		return nil
	}
	for _, src := range sources {
		doc, err := loader.Load(ctx, src)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return report, err
			}
			a.logger.WarnContext(ctx, "document skipped", slog.String("source", src.Name()), slog.Any("error", err))
			report.Skipped++
			continue
		}
		report.Documents++
		for _, page := range doc.Pages {
			for _, part := range chunker.SplitText(page.Text) {
				batch = append(batch, rag.Chunk{Text: part, SourceID: doc.Source, Page: page.Number})
				if len(batch) == ingestBatch {
					if err := flush(); err != nil {
						return report, err
					}
				}
			}
		}
	}
	if err := flush(); err != nil {
		return report, err
	}
	if report.Total, err = a.index.Count(ctx); err != nil {
		return report, err
	}
	a.logger.InfoContext(ctx, "ingestion finished",
		slog.Int("documents", report.Documents),
		slog.Int("skipped", report.Skipped),
		slog.Int("chunks", report.Chunks),
		slog.Int("total", report.Total),
	)
	return report, nil
}

// Purge drops the indexed collection
func (a *App) Purge(ctx context.Context) error {
	return a.index.Purge(ctx)
}
