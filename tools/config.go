package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/invopop/jsonschema"
)

// DefaultFailurePrefix prefixes the text returned by Invoke when a tool fails
const DefaultFailurePrefix = "Erreur lors de l'utilisation de l'outil"

// Config holds the settings shared by all tools
type Config struct {
	// name the default name of the tool
	name string
	// description the default description of the tool
	description string
	// argument the JSON property carrying the argument
	argument string
	// parameters the JSON schema of structured arguments
	parameters    *jsonschema.Schema
	failurePrefix string
	logger        *slog.Logger
	startHook     func(context.Context, ITool, string)
	endHook       func(context.Context, ITool, string, string)
	errorHook     func(context.Context, ITool, string, error)
}

func (c *Config) SetName(v string) {
	c.name = v
}

func (c Config) Name() string {
	return c.name
}

func (c *Config) SetDescription(v string) {
	c.description = v
}

func (c Config) Description() string {
	return c.description
}

func (c *Config) SetArgument(v string) {
	c.argument = v
}

func (c Config) Argument() string {
	return c.argument
}

func (c *Config) SetParameters(v *jsonschema.Schema) {
	c.parameters = v
}

func (c Config) Parameters() *jsonschema.Schema {
	return c.parameters
}

func (c *Config) SetFailurePrefix(v string) {
	c.failurePrefix = v
}

func (c *Config) SetLogger(l *slog.Logger) {
	c.logger = l
}

func (c Config) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

func (c *Config) SetStartHook(fn func(context.Context, ITool, string)) {
	c.startHook = fn
}

func (c *Config) SetEndHook(fn func(context.Context, ITool, string, string)) {
	c.endHook = fn
}

func (c *Config) SetErrorHook(fn func(context.Context, ITool, string, error)) {
	c.errorHook = fn
}

// Defaults fills unset fields. T is the Input struct reflected into the parameters schema.
func Defaults[T any](c *Config, name string, description string, argument string) {
	if c.name == "" {
		c.name = name
	}
	if c.description == "" {
		c.description = description
	}
	if c.argument == "" {
		c.argument = argument
	}
	if c.parameters == nil {
		c.parameters = Reflect[T]()
	}
}

// Started runs the start hook
func (c Config) Started(ctx context.Context, t ITool, argument string) {
	c.Logger().DebugContext(ctx, "tool started", slog.String("tool", c.name), slog.String("argument", argument))
	if c.startHook != nil {
		c.startHook(ctx, t, argument)
	}
}

// Finished runs the end hook and returns output
func (c Config) Finished(ctx context.Context, t ITool, argument string, output string) string {
	c.Logger().DebugContext(ctx, "tool finished", slog.String("tool", c.name), slog.Int("size", len(output)))
	if c.endHook != nil {
		c.endHook(ctx, t, argument, output)
	}
	return output
}

// Failed runs the error hook and renders err for the model
func (c Config) Failed(ctx context.Context, t ITool, argument string, err error) string {
	c.Logger().WarnContext(ctx, "tool failed", slog.String("tool", c.name), slog.Any("error", err))
	if c.errorHook != nil {
		c.errorHook(ctx, t, argument, err)
	}
	prefix := c.failurePrefix
	if prefix == "" {
		prefix = fmt.Sprintf("%s %s :", DefaultFailurePrefix, c.name)
	}
	return fmt.Sprintf("%s %v", prefix, err)
}
