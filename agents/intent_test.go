package agents

import "testing"

func TestExtractArgument(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		property string
		want     string
		problem  bool
	}{
		{name: "property", raw: `{"expression":"3*4+2"}`, property: "expression", want: "3*4+2"},
		{name: "single other property", raw: `{"query":"Victor Hugo"}`, property: "expression", want: "Victor Hugo"},
		{name: "number", raw: `{"expression":14}`, property: "expression", want: "14"},
		{name: "bare string", raw: `"Paris"`, property: "query", want: "Paris"},
		{name: "repaired", raw: `{"query": "météo Lyon"`, property: "query", want: "météo Lyon"},
		{name: "empty", raw: "  ", property: "query", problem: true},
		{name: "missing among several", raw: `{"a":"x","b":"y"}`, property: "query", problem: true},
		{name: "wrong type", raw: `{"query":["x"]}`, property: "query", problem: true},
		{name: "empty value", raw: `{"query":""}`, property: "query", problem: true},
		{name: "array", raw: `[1,2]`, property: "query", problem: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, problem := ExtractArgument(tt.raw, tt.property)
			if (problem != "") != tt.problem {
				t.Fatalf("expect problem %v, but got %q", tt.problem, problem)
			}
			if got != tt.want {
				t.Errorf("expect %q, but got %q", tt.want, got)
			}
		})
	}
}
