// Package service contains the application use cases built on the settings
// registry. It coordinates domain objects, stores and the audit emitter.
//
// Services receive their dependencies through constructor injection and
// depend only on store interfaces, never on a concrete store. Validation
// failures reach callers as *domain.ValidationError; unexpected failures are
// wrapped in a service error type that unwraps to the cause.
package service
