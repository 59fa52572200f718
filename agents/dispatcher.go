package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/leagravellard/Projet-GENAI/tools"
)

const (
	// DefaultToolTimeout bounds a single tool invocation
	DefaultToolTimeout = 30 * time.Second
	// DefaultConcurrency bounds parallel tool invocations of one turn
	DefaultConcurrency = 4
)

// Result is the outcome of a dispatched directive, either a success carrying
// the tool output or a failure carrying a reason.
type Result struct {
	Tool     string
	Argument string
	CallID   string
	Text     string
	Reason   string
	Failed   bool
}

// Success returns a successful result of a directive
func Success(d Directive, text string) Result {
	return Result{Tool: d.Tool, Argument: d.Argument, CallID: d.CallID, Text: text}
}

// Failure returns a failed result of a directive
func Failure(d Directive, reason string) Result {
	return Result{Tool: d.Tool, Argument: d.Argument, CallID: d.CallID, Reason: reason, Failed: true}
}

func (r Result) String() string {
	if r.Failed {
		return fmt.Sprintf("L'outil %s a échoué : %s", r.Tool, r.Reason)
	}
	return r.Text
}

type DispatcherOption func(*Dispatcher)

// WithToolTimeout sets the per invocation deadline
func WithToolTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// WithConcurrency sets how many directives DispatchAll runs at once
func WithConcurrency(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.concurrency = n
	}
}

func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// Dispatcher resolves directives against a registry and invokes the tools.
// It never returns an error: every problem becomes a failed Result.
type Dispatcher struct {
	registry    *tools.Registry
	timeout     time.Duration
	concurrency int
	logger      *slog.Logger
	invocations *atomic.Int64
}

func NewDispatcher(registry *tools.Registry, opts ...DispatcherOption) *Dispatcher {
	ret := &Dispatcher{
		registry:    registry,
		timeout:     DefaultToolTimeout,
		concurrency: DefaultConcurrency,
		invocations: atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	if ret.concurrency <= 0 {
		ret.concurrency = 1
	}
	return ret
}

// Registry returns the registry directives are resolved against
func (d *Dispatcher) Registry() *tools.Registry {
	return d.registry
}

// Invocations counts the tool invocations performed so far
func (d *Dispatcher) Invocations() int64 {
	return d.invocations.Load()
}

// Dispatch runs a single directive
func (d *Dispatcher) Dispatch(ctx context.Context, directive Directive) Result {
	if directive.Problem != "" {
		return Failure(directive, directive.Problem)
	}
	desc, err := d.registry.Resolve(directive.Tool)
	if err != nil {
		var unknown *tools.UnknownToolError
		if errors.As(err, &unknown) {
			d.logger.WarnContext(ctx, "unknown tool requested", slog.String("tool", directive.Tool))
			return Failure(directive, fmt.Sprintf("outil inconnu « %s » (outils disponibles : %s)", directive.Tool, d.toolNames()))
		}
		return Failure(directive, err.Error())
	}
	d.invocations.Inc()
	start := time.Now()
	text, err := d.invoke(ctx, desc, directive.Argument)
	logger := d.logger.With(slog.String("tool", desc.Name()), slog.Duration("elapsed", time.Since(start)))
	if err != nil {
		logger.WarnContext(ctx, "tool failed", slog.Any("error", err))
		return Failure(directive, err.Error())
	}
	logger.InfoContext(ctx, "tool succeeded", slog.Int("size", len(text)))
	return Success(directive, text)
}

// DispatchAll runs directives concurrently. Results keep the order of directives.
func (d *Dispatcher) DispatchAll(ctx context.Context, directives []Directive) []Result {
	results := make([]Result, len(directives))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for idx, directive := range directives {
		g.Go(func() error {
			results[idx] = d.Dispatch(gctx, directive)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (d *Dispatcher) invoke(ctx context.Context, desc tools.Descriptor, argument string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	type outcome struct {
		text string
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("panique pendant l'exécution : %v", r)}
			}
		}()
		text, err := desc.Invoke(ctx, argument)
		ch <- outcome{text: text, err: err}
	}()
	var out outcome
	select {
	case <-ctx.Done():
		out.err = ctx.Err()
	case out = <-ch:
	}
	if out.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("délai dépassé (%s)", d.timeout)
	}
	return out.text, out.err
}

func (d *Dispatcher) toolNames() string {
	list := d.registry.List()
	names := make([]string, 0, len(list))
	for _, desc := range list {
		names = append(names, desc.Name())
	}
	return strings.Join(names, ", ")
}
