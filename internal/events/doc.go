// Package events provides explicit audit event emission.
//
// Services and the settings registry emit a domain.AuditEvent after every
// create, update or destroy of a tracked entity, instead of relying on
// persistence hooks. Handlers registered on the emitter decide where the
// events go:
//   - HistoryRecorder appends them to the history store
//   - NATSPublisher publishes them as JSON on a NATS subject
package events
