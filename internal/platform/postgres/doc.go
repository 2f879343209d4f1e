// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in the internal/store package, plus connection setup
// and embedded goose migrations. Driver errors are mapped to store errors;
// a lost or refused connection surfaces as store.ErrStoreUnavailable.
package postgres
