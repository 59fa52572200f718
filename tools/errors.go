package tools

import (
	"errors"
	"fmt"
)

// ErrRegistrySealed is returned when registering into a sealed registry
var ErrRegistrySealed = errors.New("tools: registry is sealed")

// DuplicateNameError is returned when a tool name is registered twice
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("tools: duplicate tool name %q", e.Name)
}

// UnknownToolError is returned when resolving a name absent from the registry
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tools: unknown tool %q", e.Name)
}
