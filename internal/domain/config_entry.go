package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConfigValueKind tags the shape carried by a ConfigValue.
type ConfigValueKind string

// Known config value kinds.
const (
	// ConfigValueOptions is an ordered list of selectable strings.
	ConfigValueOptions ConfigValueKind = "options"
)

// ConfigValue is the payload of a ConfigEntry. It is a tagged union keyed by
// Kind; only the fields belonging to Kind are meaningful.
type ConfigValue struct {
	Kind    ConfigValueKind
	Options []string
}

// OptionsValue builds an options-kind ConfigValue holding a copy of options.
func OptionsValue(options ...string) ConfigValue {
	return ConfigValue{
		Kind:    ConfigValueOptions,
		Options: append([]string{}, options...),
	}
}

// First returns the first configured option, if any.
func (v ConfigValue) First() (string, bool) {
	if v.Kind != ConfigValueOptions || len(v.Options) == 0 {
		return "", false
	}
	return v.Options[0], true
}

// Validate checks that the payload matches its kind.
func (v ConfigValue) Validate() error {
	switch v.Kind {
	case ConfigValueOptions:
		return nil
	case "":
		return fmt.Errorf("%w: missing kind", ErrInvalidConfigValue)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidConfigValue, v.Kind)
	}
}

type configValueJSON struct {
	Kind    ConfigValueKind `json:"kind,omitempty"`
	Options *[]string       `json:"options,omitempty"`
}

// MarshalJSON encodes the value as {"kind": ..., "options": [...]}.
func (v ConfigValue) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	opts := v.Options
	if opts == nil {
		opts = []string{}
	}
	return json.Marshal(configValueJSON{Kind: v.Kind, Options: &opts})
}

// UnmarshalJSON decodes a stored payload. Payloads written before values
// were tagged carry only an "options" key and decode as options-kind; a
// null there reads as no options.
func (v *ConfigValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind    ConfigValueKind `json:"kind"`
		Options json.RawMessage `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfigValue, err)
	}

	decoded := ConfigValue{Kind: raw.Kind}
	if len(raw.Options) > 0 {
		if decoded.Kind == "" {
			decoded.Kind = ConfigValueOptions
		}
		if err := json.Unmarshal(raw.Options, &decoded.Options); err != nil {
			return fmt.Errorf("%w: options: %v", ErrInvalidConfigValue, err)
		}
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	if decoded.Options == nil {
		decoded.Options = []string{}
	}

	*v = decoded
	return nil
}

// ConfigEntry is a persisted key/value configuration record.
type ConfigEntry struct {
	ID        uuid.UUID   `json:"id"`
	Key       string      `json:"key" validate:"required,max=255"`
	Value     ConfigValue `json:"config_value"`
	CreatedBy string      `json:"created_by"`
	UpdatedBy string      `json:"updated_by"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewConfigEntry creates an options-kind ConfigEntry attributed to actor.
// Returns a *ValidationError if the key is blank.
func NewConfigEntry(key string, options []string, actor string) (*ConfigEntry, error) {
	now := time.Now().UTC()
	entry := &ConfigEntry{
		ID:        uuid.New(),
		Key:       strings.TrimSpace(key),
		Value:     OptionsValue(options...),
		CreatedBy: actor,
		UpdatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Validate checks the entry's own fields. Key uniqueness is a store concern.
func (e *ConfigEntry) Validate() error {
	ve := validateStruct(e)
	if ve == nil {
		ve = &ValidationError{}
	}
	if err := e.Value.Validate(); err != nil {
		ve.Add("config_value", MsgInvalid)
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// Options returns a copy of the entry's options.
func (e *ConfigEntry) Options() []string {
	return append([]string{}, e.Value.Options...)
}

// SetOptions replaces the entry's options and stamps the update.
func (e *ConfigEntry) SetOptions(options []string, actor string) {
	e.Value = OptionsValue(options...)
	e.UpdatedBy = actor
	e.UpdatedAt = time.Now().UTC()
}

// NormalizeOptions trims whitespace around each option and drops blanks.
func NormalizeOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
