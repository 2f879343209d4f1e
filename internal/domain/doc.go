// Package domain contains the core business entities, value objects, and
// domain logic of the application: configuration entries and the static
// field definitions they are provisioned from, practical support entries
// logged against patient records, and the structured validation failures
// both report. It is independent of any storage or delivery mechanism.
package domain
