package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/leagravellard/Projet-GENAI/schema"
	"github.com/leagravellard/Projet-GENAI/tools"
	"github.com/leagravellard/Projet-GENAI/tools/calculator/functions"
)

const (
	DefaultName        = "calculatrice"
	DefaultDescription = "Évalue une expression mathématique (ex: '2 + 3 * 4'). Fonctions : sqrt, sin, cos, tan, log, ln, exp, abs, floor, ceil, round, pow, min, max ; constantes : pi, e."
	FailurePrefix      = "Erreur de calcul :"
)

var (
	ErrNotNumeric = errors.New("le résultat n'est pas un nombre")
	ErrNotFinite  = errors.New("le résultat n'est pas fini")
)

// Input Tool for performing calculations. Supports basic arithmetic operations
// like addition, subtraction, multiplication, division and exponentiation (**),
// as well as a fixed set of math functions and constants.
type Input struct {
	schema.Base
	// Expression Mathematical expression to evaluate. For example, '2 + 2'.
	Expression string `json:"expression" jsonschema:"title=expression,description=Expression mathématique à évaluer, par exemple '2 + 2'." validate:"required"`
}

func NewInput(exp string) *Input {
	return &Input{
		Expression: strings.TrimSpace(exp),
	}
}

// Output Schema for the output of the calculator
type Output struct {
	schema.Base
	// Result Result of the calculation
	Result float64 `json:"result" jsonschema:"title=result,description=Résultat du calcul."`
}

// String renders the result in the shortest exact decimal form, "14" rather than "14.0"
func (o Output) String() string {
	return strconv.FormatFloat(o.Result, 'f', -1, 64)
}

type Tool struct {
	tools.Config
}

var _ tools.Tool[Input, Output] = (*Tool)(nil)

func New(opts ...tools.Option) *Tool {
	ret := new(Tool)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	tools.Defaults[Input](&ret.Config, DefaultName, DefaultDescription, "expression")
	ret.SetFailurePrefix(FailurePrefix)
	return ret
}

// Run evaluates the expression. Only the whitelisted functions and constants are available.
func (t *Tool) Run(ctx context.Context, input *Input, output *Output) error {
	if err := tools.Validate(input); err != nil {
		return err
	}
	exp, err := govaluate.NewEvaluableExpressionWithFunctions(input.Expression, functions.Functions)
	if err != nil {
		return err
	}
	for _, v := range exp.Vars() {
		if _, ok := constParams[v]; !ok {
			return fmt.Errorf("nom inconnu '%s'", v)
		}
	}
	result, err := exp.Evaluate(constParams)
	if err != nil {
		return err
	}
	value, ok := result.(float64)
	if !ok {
		return ErrNotNumeric
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrNotFinite
	}
	output.Result = value
	return nil
}

// Invoke evaluates argument and returns the result or an error text
func (t *Tool) Invoke(ctx context.Context, argument string) string {
	t.Started(ctx, t, argument)
	var output Output
	if err := t.Run(ctx, NewInput(argument), &output); err != nil {
		return t.Failed(ctx, t, argument, err)
	}
	return t.Finished(ctx, t, argument, output.String())
}
