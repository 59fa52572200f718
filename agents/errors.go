package agents

import "fmt"

// ErrorPrefix starts the answer returned in place of a failed turn
const ErrorPrefix = "⚠️ Une erreur est survenue : "

// DecisionError wraps a failure of the decision pass
type DecisionError struct {
	Err error
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("decision: %v", e.Err)
}

func (e *DecisionError) Unwrap() error {
	return e.Err
}

// SynthesisError wraps a failure of the synthesis pass
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}
