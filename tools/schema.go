package tools

import (
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Reflect returns the inline JSON schema of T
func Reflect[T any]() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	var v T
	s := r.Reflect(&v)
	s.Version = ""
	s.ID = ""
	return s
}

// Validate checks the `validate` struct tags of an input
func Validate(input any) error {
	return validate.Struct(input)
}
