package schema

import "testing"

func TestStringify(t *testing.T) {
	type answer struct {
		Base
		Text string `json:"text"`
	}
	tests := []struct {
		name  string
		input Schema
		want  string
	}{
		{name: "string schema", input: String("bonjour"), want: "bonjour"},
		{name: "struct schema", input: answer{Text: "5M€"}, want: `{"text":"5M€"}`},
		{name: "nil", input: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.input); got != tt.want {
				t.Errorf("expect %s, but got %s", tt.want, got)
			}
		})
	}
}
