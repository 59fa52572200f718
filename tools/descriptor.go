package tools

import (
	"context"
	"errors"

	"github.com/invopop/jsonschema"

	"github.com/leagravellard/Projet-GENAI/components"
)

// InvokeFunc runs a tool with its single string argument
type InvokeFunc func(ctx context.Context, argument string) (string, error)

// Descriptor is the immutable registry entry of a tool
type Descriptor struct {
	name        string
	description string
	argument    string
	parameters  *jsonschema.Schema
	invoke      InvokeFunc
}

// NewDescriptor builds a descriptor whose structured arguments hold a single "query" string
func NewDescriptor(name string, description string, invoke InvokeFunc) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, errors.New("tools: descriptor name required")
	}
	if invoke == nil {
		return Descriptor{}, errors.New("tools: descriptor invoke func required")
	}
	return Descriptor{
		name:        name,
		description: description,
		argument:    "query",
		parameters:  Reflect[QueryInput](),
		invoke:      invoke,
	}, nil
}

// FromInvoker describes a tool
func FromInvoker(t Invoker) Descriptor {
	return Descriptor{
		name:        t.Name(),
		description: t.Description(),
		argument:    t.Argument(),
		parameters:  t.Parameters(),
		invoke: func(ctx context.Context, argument string) (string, error) {
			return t.Invoke(ctx, argument), nil
		},
	}
}

func (d Descriptor) Name() string {
	return d.name
}

func (d Descriptor) Description() string {
	return d.description
}

func (d Descriptor) Argument() string {
	return d.argument
}

func (d Descriptor) Parameters() *jsonschema.Schema {
	return d.parameters
}

// Invoke calls the tool. The error is non nil only for descriptors built from an InvokeFunc.
func (d Descriptor) Invoke(ctx context.Context, argument string) (string, error) {
	return d.invoke(ctx, argument)
}

// Definition is the native tool calling declaration of the tool
func (d Descriptor) Definition() components.ToolDefinition {
	return components.ToolDefinition{
		Name:        d.name,
		Description: d.description,
		Parameters:  d.parameters,
	}
}

// QueryInput is the structured argument of tools taking a free text query
type QueryInput struct {
	Query string `json:"query" jsonschema:"title=query,description=Texte de la requête." validate:"required"`
}
