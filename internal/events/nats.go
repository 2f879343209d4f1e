package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/redact"
)

// NATSPublisher is an EventHandler that publishes audit events as JSON on
// the subject returned by AuditEvent.Topic.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url with automatic
// reconnection. Extra options are appended to the defaults.
func NewNATSPublisher(url string, opts ...nats.Option) (*NATSPublisher, error) {
	defaults := []nats.Option{
		nats.Name("casebook-audit"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", redact.String(url), err)
	}
	return &NATSPublisher{conn: nc}, nil
}

// HandleEvent implements EventHandler.
func (p *NATSPublisher) HandleEvent(_ context.Context, event *domain.AuditEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling audit event: %w", err)
	}
	if err := p.conn.Publish(event.Topic(), data); err != nil {
		return fmt.Errorf("publishing %s: %w", event.Topic(), err)
	}
	return nil
}

// Flush waits until the server has processed every published event.
func (p *NATSPublisher) Flush() error {
	return p.conn.Flush()
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
