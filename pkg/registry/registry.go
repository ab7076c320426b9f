package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownValidator is returned when a validator tag has no registration.
	ErrUnknownValidator = errors.New("unknown validator")

	// ErrFieldInvalid is returned when a value fails its validator.
	ErrFieldInvalid = errors.New("field value is invalid")
)

// CheckFunc validates a raw answer and returns its normalized form.
type CheckFunc func(raw string) (normalized string, ok bool)

// Validator is a field validator capability attachable to free-text questions.
type Validator struct {
	// Format is a language-neutral example of the expected input, shown to users on rejection.
	Format string
	Check  CheckFunc
}

// Registry manages the available field validators.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		validators: make(map[string]Validator),
	}
}

// Default returns a registry holding the built-in validators.
func Default() *Registry {
	r := NewRegistry()
	national := Validator{Format: ChecksumIDFormat, Check: ChecksumID}
	r.Register(ChecksumIDTag, national)
	r.Register("cpf", national)
	return r
}

// Register adds a validator to the registry.
// If a validator with the same name exists, it is overwritten.
func (r *Registry) Register(name string, v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[name] = v
}

// Lookup returns the validator registered under name.
func (r *Registry) Lookup(name string) (Validator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[name]
	return v, ok
}

// Validate runs the named validator against raw.
func (r *Registry) Validate(name, raw string) (string, error) {
	v, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownValidator, name)
	}
	normalized, ok := v.Check(raw)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldInvalid, name)
	}
	return normalized, nil
}

// Names lists the registered validator tags, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.validators))
	for name := range r.validators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
