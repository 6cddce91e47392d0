package service

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EventPublisher fans out domain events to interested consumers. Publishing
// is best effort: a failed publish is logged, never surfaced to the caller.
type EventPublisher interface {
	Publish(subject string, payload interface{})
}

type natsEventPublisher struct {
	conn    *nats.Conn
	prefix  string
	logger  zerolog.Logger
	enabled bool
}

// NewNatsEventPublisher wraps a NATS connection as an event publisher. A nil
// connection yields a disabled publisher so callers never need nil checks.
func NewNatsEventPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) EventPublisher {
	return &natsEventPublisher{
		conn:    conn,
		prefix:  prefix,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
		enabled: conn != nil,
	}
}

func (p *natsEventPublisher) Publish(subject string, payload interface{}) {
	if !p.enabled {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to marshal event payload")
		return
	}

	full := subject
	if p.prefix != "" {
		full = p.prefix + "." + subject
	}

	if err := p.conn.Publish(full, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", full).Msg("failed to publish event")
	}
}
