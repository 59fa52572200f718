package schema

// String is a plain text schema
type String string

func (s String) String() string {
	return string(s)
}
