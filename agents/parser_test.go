package agents

import "testing"

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  Directive
		found bool
	}{
		{
			name:  "inline",
			text:  "[TOOL: calculatrice] 3*4+2",
			want:  Directive{Tool: "calculatrice", Argument: "3*4+2"},
			found: true,
		},
		{
			name:  "inline in prose",
			text:  "Je vais chercher.\n[TOOL:recherche_wikipedia]   Victor Hugo  \nMerci.",
			want:  Directive{Tool: "recherche_wikipedia", Argument: "Victor Hugo"},
			found: true,
		},
		{
			name:  "two lines",
			text:  "TOOL: search_documents\nQUERY: chiffre d'affaires 2023",
			want:  Directive{Tool: "search_documents", Argument: "chiffre d'affaires 2023"},
			found: true,
		},
		{
			name:  "two lines with spaces and crlf",
			text:  "  TOOL:   recherche_web \r\n\tQUERY:  météo Paris  \r\n",
			want:  Directive{Tool: "recherche_web", Argument: "météo Paris"},
			found: true,
		},
		{
			name:  "quoted argument",
			text:  `[TOOL: recherche_web] "élections européennes"`,
			want:  Directive{Tool: "recherche_web", Argument: "élections européennes"},
			found: true,
		},
		{
			name: "plain answer",
			text: "Bonjour ! Comment puis-je vous aider ?",
		},
		{
			name: "empty inline argument",
			text: "[TOOL: calculatrice]\n3*4",
		},
		{
			name: "empty query",
			text: "TOOL: calculatrice\nQUERY:   ",
		},
		{
			name: "empty name",
			text: "[TOOL: ] 3*4",
		},
		{
			name:  "empty candidate skipped",
			text:  "[TOOL: calculatrice]\n[TOOL: calculatrice] 1+1",
			want:  Directive{Tool: "calculatrice", Argument: "1+1"},
			found: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ParseDirective(tt.text)
			if found != tt.found {
				t.Fatalf("expect found %v, but got %v (%+v)", tt.found, found, got)
			}
			if got != tt.want {
				t.Errorf("expect %+v, but got %+v", tt.want, got)
			}
		})
	}
}

func TestParseDirectiveEarliestWins(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Directive
	}{
		{
			name: "two lines first",
			text: "TOOL: recherche_web\nQUERY: actualités\n[TOOL: calculatrice] 1+1",
			want: Directive{Tool: "recherche_web", Argument: "actualités"},
		},
		{
			name: "inline first",
			text: "[TOOL: calculatrice] 1+1\nTOOL: recherche_web\nQUERY: actualités",
			want: Directive{Tool: "calculatrice", Argument: "1+1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				got, ok := ParseDirective(tt.text)
				if !ok || got != tt.want {
					t.Fatalf("expect %+v, but got %+v", tt.want, got)
				}
			}
		})
	}
}
