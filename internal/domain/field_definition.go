package domain

import (
	"fmt"
	"strings"
)

// FieldDefinition is a compiled-in description of a configuration key: the
// options an entry is seeded with and optional guidance for administrators.
// Definitions are never persisted.
type FieldDefinition struct {
	Key            string   `yaml:"key"`
	DefaultOptions []string `yaml:"default_options"`
	HelpText       string   `yaml:"help_text,omitempty"`
}

// Defaults returns a copy of the definition's default options.
func (f FieldDefinition) Defaults() []string {
	return append([]string{}, f.DefaultOptions...)
}

// Validate checks that the definition has a usable key.
func (f FieldDefinition) Validate() error {
	if strings.TrimSpace(f.Key) == "" {
		return fmt.Errorf("%w: field definition key is blank", ErrValidation)
	}
	if f.Key != strings.TrimSpace(f.Key) {
		return fmt.Errorf("%w: field definition key %q has surrounding whitespace", ErrValidation, f.Key)
	}
	return nil
}
