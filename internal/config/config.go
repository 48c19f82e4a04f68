// Package config loads the scope registry and rule options from a YAML or JSON file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/commitlint-core/internal/analysis"
	"github.com/sprite-ai/commitlint-core/internal/scope"
)

// EnvRegistry names the environment variable consulted when no --registry flag is given.
const EnvRegistry = "COMMITLINT_REGISTRY"

// Config is the validated configuration.
type Config struct {
	Registry        *scope.Registry
	Types           []string
	RequireIssueRef bool
}

// Default returns a configuration with an empty registry and no extra types.
func Default() *Config {
	return &Config{Registry: scope.MustNewRegistry(nil)}
}

// ValidatorOptions maps the configuration onto rule table options.
func (c *Config) ValidatorOptions() analysis.Options {
	return analysis.Options{
		CustomTypes:     c.Types,
		RequireIssueRef: c.RequireIssueRef,
	}
}

// Error wraps any failure to load a configuration file.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type rulesFile struct {
	RequireIssueRef bool `yaml:"requireIssueRef"`
}

type configFile struct {
	Scopes []scope.Entry `yaml:"scopes"`
	Types  []string      `yaml:"types"`
	Rules  rulesFile     `yaml:"rules"`
}

var typeNamePattern = regexp.MustCompile(`^\w+$`)

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
			return nil, ce
		}
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Resolve picks the config path from flag, then the environment.
// An empty result means no file was configured and Default applies.
func Resolve(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(EnvRegistry)
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse accepts either a bare list of scope entries or a mapping with
// scopes, types and rules keys. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &Error{Err: fmt.Errorf("parsing: %w", err)}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return Default(), nil
	}

	var f configFile
	switch root.Content[0].Kind {
	case yaml.SequenceNode:
		if err := decodeStrict(data, &f.Scopes); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		if err := decodeStrict(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, &Error{Err: errors.New("expected a list of scopes or a mapping")}
	}

	return build(f)
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &Error{Err: fmt.Errorf("parsing: %w", err)}
	}
	return nil
}

func build(f configFile) (*Config, error) {
	reg, err := scope.NewRegistry(f.Scopes)
	if err != nil {
		return nil, &Error{Err: err}
	}

	seen := make(map[string]bool)
	for i, t := range f.Types {
		if !typeNamePattern.MatchString(t) {
			return nil, &Error{Err: fmt.Errorf("types[%d]: %q is not a valid type name", i, t)}
		}
		if seen[t] {
			return nil, &Error{Err: fmt.Errorf("types[%d]: duplicate type %q", i, t)}
		}
		seen[t] = true
	}

	return &Config{
		Registry:        reg,
		Types:           f.Types,
		RequireIssueRef: f.Rules.RequireIssueRef,
	}, nil
}
