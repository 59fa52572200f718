// Command assistant answers questions with the tool agent, interactively or once with -q.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/leagravellard/Projet-GENAI/app"
	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/config"
)

func main() {
	var (
		configPath string
		query      string
		structured bool
		raw        bool
	)
	flag.StringVar(&configPath, "config", "", "YAML configuration file")
	flag.StringVar(&query, "q", "", "answer a single question and exit")
	flag.BoolVar(&structured, "structured", false, "use native tool calling instead of text directives")
	flag.BoolVar(&raw, "raw", false, "print answers without markdown rendering")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, configPath, query, structured, raw); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, query string, structured bool, raw bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if structured {
		cfg.Agent.Mode = config.ModeStructured
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	agent, err := a.ToolAgent(cfg.Agent.Mode)
	if err != nil {
		return err
	}
	a.Logger().Debug("assistant ready", slog.String("mode", cfg.Agent.Mode), slog.String("model", cfg.LLM.Model))
	render := func(s string) string { return s }
	if !raw {
		render = newRenderer(100)
	}
	r := &repl{
		agent:  agent,
		memory: components.NewMemory(cfg.Agent.HistorySize),
		render: render,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	if query != "" {
		fmt.Println(r.render(r.ask(ctx, query)))
		return nil
	}
	return r.run(ctx)
}
