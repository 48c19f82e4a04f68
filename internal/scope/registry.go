// Package scope maps changed paths to scope names and checks declared scopes.
package scope

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sprite-ai/commitlint-core/internal/model"
)

// ConfigError reports a malformed scope registry.
type ConfigError struct {
	Index  int // entry index, -1 when not tied to a single entry
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Index < 0 {
		return "scope registry: " + e.Reason
	}
	return fmt.Sprintf("scope registry entry %d: %s", e.Index, e.Reason)
}

// Entry binds a scope name to the path globs it owns.
type Entry struct {
	Scope string   `json:"scope" yaml:"scope"`
	Globs []string `json:"globs" yaml:"globs"`
}

// Registry is an ordered, read-only set of scope entries.
// Insertion order sets precedence for first-match lookups and tie-breaks.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// NewRegistry validates entries and builds a Registry.
func NewRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		name := strings.TrimSpace(e.Scope)
		if name == "" {
			return nil, &ConfigError{Index: i, Reason: "missing scope name"}
		}
		if name != e.Scope {
			return nil, &ConfigError{Index: i, Reason: fmt.Sprintf("scope %q has surrounding whitespace", e.Scope)}
		}
		if _, dup := r.index[name]; dup {
			return nil, &ConfigError{Index: i, Reason: fmt.Sprintf("duplicate scope %q", name)}
		}
		if len(e.Globs) == 0 {
			return nil, &ConfigError{Index: i, Reason: fmt.Sprintf("scope %q has no globs", name)}
		}
		for _, g := range e.Globs {
			if !doublestar.ValidatePattern(g) {
				return nil, &ConfigError{Index: i, Reason: fmt.Sprintf("scope %q has invalid glob %q", name, g)}
			}
		}
		globs := make([]string, len(e.Globs))
		copy(globs, e.Globs)
		r.index[name] = len(r.entries)
		r.entries = append(r.entries, Entry{Scope: name, Globs: globs})
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on a malformed registry.
// It is meant for registries built from static configuration at startup.
func MustNewRegistry(entries []Entry) *Registry {
	r, err := NewRegistry(entries)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of registered scopes.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Contains reports whether scope is registered. Matching is case-sensitive.
func (r *Registry) Contains(scope string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[scope]
	return ok
}

// Scopes returns the registered scope names in registration order.
func (r *Registry) Scopes() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Scope
	}
	return names
}

// Entries returns a copy of the registry entries.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = Entry{Scope: e.Scope, Globs: append([]string(nil), e.Globs...)}
	}
	return out
}

// Lookup returns the first registered scope with a glob matching p.
func (r *Registry) Lookup(p string) (string, bool) {
	if r == nil {
		return "", false
	}
	p = model.CleanPath(p)
	for _, e := range r.entries {
		for _, g := range e.Globs {
			if ok, _ := doublestar.Match(g, p); ok {
				return e.Scope, true
			}
		}
	}
	return "", false
}
