package tools

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/leagravellard/Projet-GENAI/schema"
)

// ITool describes a capability the agent can invoke
type ITool interface {
	Name() string
	Description() string
	// Argument is the JSON property holding the single string argument in structured calls
	Argument() string
	// Parameters is the JSON schema of the structured call arguments
	Parameters() *jsonschema.Schema
}

// Invoker is a tool taking a single string argument. Invoke never fails:
// errors are rendered into the returned text.
type Invoker interface {
	ITool
	Invoke(ctx context.Context, argument string) string
}

// Tool is a typed tool
type Tool[I schema.Schema, O schema.Schema] interface {
	Invoker
	Run(context.Context, *I, *O) error
}
