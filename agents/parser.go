package agents

import (
	"regexp"
	"strings"
)

var (
	// [TOOL: name] argument up to the end of the line
	inlineDirective = regexp.MustCompile(`\[TOOL:[ \t]*([^\]\r\n]*?)[ \t]*\][ \t]*([^\r\n]*)`)
	// TOOL: name
	// QUERY: argument
	twoLineDirective = regexp.MustCompile(`(?m)^[ \t]*TOOL:[ \t]*([^\r\n]*?)[ \t]*\r?\n[ \t]*QUERY:[ \t]*([^\r\n]*?)[ \t]*\r?$`)
)

// Directive is a parsed request to invoke a tool
type Directive struct {
	Tool     string
	Argument string
	// CallID is the provider call identifier of structured tool calls
	CallID string
	// Problem describes a shape error found while extracting structured arguments
	Problem string
}

// ParseDirective scans a model response for a tool directive, inline or on two lines.
// Candidates with an empty name or argument are ignored. When several candidates
// are found, the one starting first in the text wins.
func ParseDirective(text string) (Directive, bool) {
	var (
		best  Directive
		start = -1
	)
	for _, re := range []*regexp.Regexp{inlineDirective, twoLineDirective} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if start >= 0 && m[0] >= start {
				break
			}
			name := cleanName(text[m[2]:m[3]])
			argument := cleanArgument(text[m[4]:m[5]])
			if name == "" || argument == "" {
				continue
			}
			best = Directive{Tool: name, Argument: argument}
			start = m[0]
			break
		}
	}
	return best, start >= 0
}

func cleanName(s string) string {
	return strings.Trim(strings.TrimSpace(s), "`*\"'")
}

var quotePairs = [][2]string{{`"`, `"`}, {`'`, `'`}, {"`", "`"}, {"«", "»"}, {"“", "”"}}

// cleanArgument trims spaces and one layer of matching quotes
func cleanArgument(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range quotePairs {
		if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			return strings.TrimSpace(s[len(q[0]) : len(s)-len(q[1])])
		}
	}
	return s
}
