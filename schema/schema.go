package schema

import "encoding/json"

// Schema is message schema interface
type Schema interface {
	String() string
}

// Stringify renders a schema as prompt text, String schemas are used verbatim
func Stringify(s Schema) string {
	if s == nil {
		return ""
	}
	if v, ok := s.(String); ok {
		return string(v)
	}
	bs, err := json.Marshal(s)
	if err != nil {
		return s.String()
	}
	return string(bs)
}
