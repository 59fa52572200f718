package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/leagravellard/Projet-GENAI/tools"
)

func mustDescriptor(t *testing.T, name string, fn tools.InvokeFunc) tools.Descriptor {
	t.Helper()
	d, err := tools.NewDescriptor(name, "outil de test "+name, fn)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func newTestDispatcher(t *testing.T, opts ...DispatcherOption) *Dispatcher {
	t.Helper()
	registry, err := tools.NewRegistry(
		mustDescriptor(t, "echo", func(_ context.Context, arg string) (string, error) {
			return "écho : " + arg, nil
		}),
		mustDescriptor(t, "panique", func(context.Context, string) (string, error) {
			panic("boom")
		}),
		mustDescriptor(t, "erreur", func(context.Context, string) (string, error) {
			return "", errors.New("service indisponible")
		}),
		mustDescriptor(t, "lent", func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}),
		mustDescriptor(t, "attente", func(ctx context.Context, arg string) (string, error) {
			d, err := time.ParseDuration(arg)
			if err != nil {
				return "", err
			}
			time.Sleep(d)
			return arg, nil
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return NewDispatcher(registry, opts...)
}

func TestDispatch(t *testing.T) {
	d := newTestDispatcher(t, WithToolTimeout(50*time.Millisecond))
	tests := []struct {
		name       string
		directive  Directive
		wantText   string
		wantReason string
	}{
		{name: "success", directive: Directive{Tool: "echo", Argument: "salut"}, wantText: "écho : salut"},
		{name: "unknown tool", directive: Directive{Tool: "meteo", Argument: "Paris"}, wantReason: "outil inconnu « meteo »"},
		{name: "panic", directive: Directive{Tool: "panique", Argument: "x"}, wantReason: "panique pendant l'exécution : boom"},
		{name: "error", directive: Directive{Tool: "erreur", Argument: "x"}, wantReason: "service indisponible"},
		{name: "timeout", directive: Directive{Tool: "lent", Argument: "x"}, wantReason: "délai dépassé"},
		{name: "problem", directive: Directive{Tool: "echo", Problem: "arguments d'appel vides"}, wantReason: "arguments d'appel vides"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Dispatch(context.Background(), tt.directive)
			if got.Tool != tt.directive.Tool {
				t.Errorf("expect tool %s, but got %s", tt.directive.Tool, got.Tool)
			}
			if tt.wantReason == "" {
				if got.Failed || got.Text != tt.wantText {
					t.Errorf("expect success %q, but got %+v", tt.wantText, got)
				}
				return
			}
			if !got.Failed || !strings.Contains(got.Reason, tt.wantReason) {
				t.Errorf("expect failure containing %q, but got %+v", tt.wantReason, got)
			}
		})
	}
	// unknown tools and shape problems never reach an adapter
	if n := d.Invocations(); n != 4 {
		t.Errorf("expect 4 invocations, but got %d", n)
	}
}

func TestDispatchAllKeepsOrder(t *testing.T) {
	d := newTestDispatcher(t, WithConcurrency(3))
	durations := []string{"30ms", "1ms", "15ms", "oops"}
	directives := make([]Directive, 0, len(durations))
	for _, v := range durations {
		directives = append(directives, Directive{Tool: "attente", Argument: v})
	}
	results := d.DispatchAll(context.Background(), directives)
	if len(results) != len(durations) {
		t.Fatalf("expect %d results, but got %d", len(durations), len(results))
	}
	for idx, r := range results[:3] {
		if r.Failed || r.Text != durations[idx] {
			t.Errorf("result %d: expect %s, but got %+v", idx, durations[idx], r)
		}
	}
	if !results[3].Failed {
		t.Errorf("expect the malformed duration to fail, but got %+v", results[3])
	}
}

func ExampleResult_String() {
	fmt.Println(Failure(Directive{Tool: "meteo"}, "outil inconnu"))
	fmt.Println(Success(Directive{Tool: "calculatrice"}, "14"))
	// Output:
	// L'outil meteo a échoué : outil inconnu
	// 14
}
