// Package memory provides mutex-guarded in-memory implementations of the
// store interfaces. They enforce the same constraints as the PostgreSQL
// stores (unique config keys, required fields) and are used by tests and
// by the CLI's --memory mode. They do not support rollback.
package memory
