package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up by FindConfig.
const ConfigFileName = "corvus.yaml"

// RedefinitionPolicy decides what happens when a function is defined twice
// under the same keyword sequence.
type RedefinitionPolicy string

const (
	// RedefinitionOverride replaces the earlier definition.
	RedefinitionOverride RedefinitionPolicy = "override"
	// RedefinitionReject fails with DuplicateFunction.
	RedefinitionReject RedefinitionPolicy = "reject"
)

// Options is the top-level corvus.yaml configuration.
type Options struct {
	Namespace NamespaceOptions `yaml:"namespace"`
	Runtime   RuntimeOptions   `yaml:"runtime"`

	// Types holds named type declarations in order. Kept as a node so the
	// field order of inline records survives decoding.
	Types yaml.Node `yaml:"types,omitempty"`

	path string
}

type NamespaceOptions struct {
	// Redefinition is "override" (default) or "reject".
	Redefinition RedefinitionPolicy `yaml:"redefinition,omitempty"`
}

type RuntimeOptions struct {
	// MaxIterations bounds the length of a single countFrom:to: range.
	// Zero means unlimited.
	MaxIterations int `yaml:"max_iterations,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Options {
	o := Options{}
	o.setDefaults()
	return o
}

// Load reads and parses a corvus.yaml file.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses corvus.yaml content. The path is used only for messages.
func Parse(data []byte, path string) (Options, error) {
	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	o.path = path
	if err := o.validate(); err != nil {
		return Options{}, err
	}
	o.setDefaults()
	return o, nil
}

// FindConfig searches for corvus.yaml from dir upwards. It returns an empty
// path and nil error when there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Path is the file the options were read from, if any.
func (o Options) Path() string { return o.path }

func (o *Options) validate() error {
	switch o.Namespace.Redefinition {
	case "", RedefinitionOverride, RedefinitionReject:
	default:
		return fmt.Errorf("%s: namespace.redefinition: must be %q or %q, got %q",
			o.path, RedefinitionOverride, RedefinitionReject, o.Namespace.Redefinition)
	}
	if o.Runtime.MaxIterations < 0 {
		return fmt.Errorf("%s: runtime.max_iterations: must not be negative", o.path)
	}
	if o.Types.Kind != 0 && o.Types.Kind != yaml.SequenceNode {
		return fmt.Errorf("%s: types: must be a list", o.path)
	}
	return nil
}

func (o *Options) setDefaults() {
	if o.Namespace.Redefinition == "" {
		o.Namespace.Redefinition = RedefinitionOverride
	}
}
