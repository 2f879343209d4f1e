package domain

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Standard validation messages, phrased to read after a humanized field name.
const (
	MsgBlank       = "can't be blank"
	MsgTaken       = "is already taken"
	MsgInvalid     = "is invalid"
	MsgNotIncluded = "is not included in the list"
	MsgTooLong     = "is too long"
)

// ValidationError is a structured validation failure: a mapping from field
// name to the messages recorded against it. Fields keep the order in which
// they first failed.
type ValidationError struct {
	Fields map[string][]string
	order  []string
}

// NewValidationError creates a ValidationError holding a single message.
func NewValidationError(field, message string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, message)
	return e
}

// Add records message against field. Duplicate messages are ignored.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	existing, seen := e.Fields[field]
	if !seen {
		e.order = append(e.order, field)
	}
	for _, m := range existing {
		if m == message {
			return
		}
	}
	e.Fields[field] = append(existing, message)
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Messages returns the messages recorded for field.
func (e *ValidationError) Messages(field string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[field]
}

// Includes reports whether message was recorded for field.
func (e *ValidationError) Includes(field, message string) bool {
	for _, m := range e.Messages(field) {
		if m == message {
			return true
		}
	}
	return false
}

// FullMessages renders every failure as a sentence such as
// "Support type can't be blank".
func (e *ValidationError) FullMessages() []string {
	if e == nil {
		return nil
	}
	var out []string
	for _, field := range e.orderedFields() {
		for _, m := range e.Fields[field] {
			out = append(out, HumanizeField(field)+" "+m)
		}
	}
	return out
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.FullMessages(), ", ")
}

// Unwrap returns ErrValidation so errors.Is(err, ErrValidation) holds.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// orderedFields tolerates a ValidationError built as a literal, where the
// insertion order was never recorded.
func (e *ValidationError) orderedFields() []string {
	if len(e.order) == len(e.Fields) {
		return e.order
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HumanizeField turns a snake_case field name into a capitalized phrase:
// "support_type" becomes "Support type".
func HumanizeField(field string) string {
	s := strings.TrimSuffix(field, "_id")
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match stored columns.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tag rules on s and translates any failures
// into a ValidationError. It returns nil when s is valid.
func validateStruct(s any) *ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError("base", err.Error())
	}

	ve := &ValidationError{}
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), messageForTag(fe.Tag()))
	}
	return ve
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return MsgBlank
	case "max":
		return MsgTooLong
	default:
		return MsgInvalid
	}
}
