// Command ingest indexes documents into the configured vector store, or purges it with -purge.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/leagravellard/Projet-GENAI/app"
	"github.com/leagravellard/Projet-GENAI/config"
)

func main() {
	var (
		configPath string
		purge      bool
	)
	flag.StringVar(&configPath, "config", "", "YAML configuration file")
	flag.BoolVar(&purge, "purge", false, "drop the indexed collection instead of ingesting")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [-purge] [directory | file | s3://bucket/prefix | url]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, configPath, flag.Arg(0), purge); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, location string, purge bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if location == "" {
		location = cfg.Ingest.Documents
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	if purge {
		if err := a.Purge(ctx); err != nil {
			return err
		}
		fmt.Printf("Collection %q supprimée.\n", cfg.VectorDB.Collection)
		return nil
	}
	report, err := a.Ingest(ctx, location)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Aucun document trouvé : %s n'existe pas.\n", location)
		return nil
	}
	if err != nil {
		return err
	}
	if report.Documents == 0 {
		fmt.Printf("Aucun document exploitable trouvé dans %s.\n", location)
		return nil
	}
	fmt.Printf("%d documents chargés (%d ignorés), %d morceaux indexés, %d au total dans %q.\n",
		report.Documents, report.Skipped, report.Chunks, report.Total, cfg.VectorDB.Collection)
	return nil
}
