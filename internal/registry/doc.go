// Package registry is the settings registry: it reconciles a table of field
// definitions against the config store (Autosetup), reads option lists and
// help text, and resolves typed settings such as the start-of-week day.
//
// The field table is passed to New rather than read from global state, so
// tests and deployments can substitute their own.
package registry
