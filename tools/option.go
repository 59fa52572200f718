package tools

import (
	"context"
	"log/slog"
)

type Option func(c *Config)

func WithName(name string) Option {
	return func(c *Config) {
		c.SetName(name)
	}
}

func WithDescription(desc string) Option {
	return func(c *Config) {
		c.SetDescription(desc)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.SetLogger(l)
	}
}

func WithStartHook(fn func(context.Context, ITool, string)) Option {
	return func(c *Config) {
		c.SetStartHook(fn)
	}
}

func WithEndHook(fn func(context.Context, ITool, string, string)) Option {
	return func(c *Config) {
		c.SetEndHook(fn)
	}
}

func WithErrorHook(fn func(context.Context, ITool, string, error)) Option {
	return func(c *Config) {
		c.SetErrorHook(fn)
	}
}
