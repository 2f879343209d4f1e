package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// *ValidationError unwraps to it, so callers can test with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidConfigValue is returned when a persisted config payload has
	// an unknown kind or a shape that does not match its kind.
	ErrInvalidConfigValue = errors.New("invalid config value")

	// ErrInvalidWeekday is returned when a string does not name a day of the week.
	ErrInvalidWeekday = errors.New("invalid weekday")
)
