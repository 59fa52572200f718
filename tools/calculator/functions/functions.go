// Package functions holds the math functions callable from calculator expressions
package functions

import (
	"errors"
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

// Functions is the whitelist of functions available in expressions
var Functions = map[string]govaluate.ExpressionFunction{
	"sqrt":  unary("sqrt", math.Sqrt),
	"sin":   unary("sin", math.Sin),
	"cos":   unary("cos", math.Cos),
	"tan":   unary("tan", math.Tan),
	"asin":  unary("asin", math.Asin),
	"acos":  unary("acos", math.Acos),
	"atan":  unary("atan", math.Atan),
	"log":   unary("log", math.Log10),
	"log10": unary("log10", math.Log10),
	"log2":  unary("log2", math.Log2),
	"ln":    unary("ln", math.Log),
	"exp":   unary("exp", math.Exp),
	"abs":   unary("abs", math.Abs),
	"floor": unary("floor", math.Floor),
	"ceil":  unary("ceil", math.Ceil),
	"round": unary("round", math.Round),
	"pow":   binary("pow", math.Pow),
	"min":   variadic("min", math.Min),
	"max":   variadic("max", math.Max),
}

var errArgument = errors.New("argument must be a number")

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, errArgument
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
		}
		x, err := number(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(x), nil
	}
}

func binary(name string, fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
		}
		x, err := number(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		y, err := number(args[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(x, y), nil
	}
}

func variadic(name string, fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%s expects at least 1 argument", name)
		}
		acc, err := number(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for _, arg := range args[1:] {
			x, err := number(arg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			acc = fn(acc, x)
		}
		return acc, nil
	}
}
