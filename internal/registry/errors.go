package registry

import "errors"

var (
	// ErrUnknownKey is returned when a key has neither a persisted entry nor
	// a field definition.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidFieldTable is returned when a field table has blank or
	// repeated keys.
	ErrInvalidFieldTable = errors.New("invalid field table")
)
