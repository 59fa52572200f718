package tools

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/atomic"

	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/components/systemprompt"
)

// Registry maps tool names to descriptors. Registration order is kept.
// Once sealed the registry is read-only and reads take no lock.
type Registry struct {
	mu     sync.Mutex
	sealed *atomic.Bool
	order  []Descriptor
	index  map[string]int
}

var _ systemprompt.ContextProvider = (*Registry)(nil)

func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	ret := &Registry{
		sealed: atomic.NewBool(false),
		index:  make(map[string]int, len(descriptors)),
	}
	for _, d := range descriptors {
		if err := ret.Register(d); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Register adds a descriptor. It fails with a *DuplicateNameError when the name
// is taken, and with ErrRegistrySealed after Seal.
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	if _, ok := r.index[d.Name()]; ok {
		return &DuplicateNameError{Name: d.Name()}
	}
	r.index[d.Name()] = len(r.order)
	r.order = append(r.order, d)
	return nil
}

// Seal makes the registry read-only
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
}

func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Resolve looks a descriptor up by exact name
func (r *Registry) Resolve(name string) (Descriptor, error) {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	idx, ok := r.index[name]
	if !ok {
		return Descriptor{}, &UnknownToolError{Name: name}
	}
	return r.order[idx], nil
}

// List returns the descriptors in registration order
func (r *Registry) List() []Descriptor {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	ret := make([]Descriptor, len(r.order))
	copy(ret, r.order)
	return ret
}

// Definitions returns the native tool calling declarations in registration order
func (r *Registry) Definitions() []components.ToolDefinition {
	list := r.List()
	ret := make([]components.ToolDefinition, 0, len(list))
	for _, d := range list {
		ret = append(ret, d.Definition())
	}
	return ret
}

func (r *Registry) Len() int {
	return len(r.List())
}

func (r *Registry) Title() string {
	return "Outils disponibles"
}

// Info renders the tool catalogue
func (r *Registry) Info() string {
	var sb strings.Builder
	for _, d := range r.List() {
		fmt.Fprintf(&sb, "- %s : %s\n", d.Name(), d.Description())
	}
	return strings.TrimSpace(sb.String())
}
