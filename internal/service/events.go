package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Lifecycle event names published for downstream consumers.
const (
	EventAssignmentPublished = "assignment.published"
	EventAssignmentCompleted = "assignment.completed"
	EventSubmissionCreated   = "submission.created"
)

// EventPublisher emits best-effort lifecycle events over NATS. Publishing is
// fire and forget: failures are logged and never surfaced to the caller, and
// a nil connection disables publishing entirely.
type EventPublisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

type eventEnvelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sentAt"`
}

// NewEventPublisher constructs the publisher. conn may be nil.
func NewEventPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) *EventPublisher {
	return &EventPublisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish emits one event. Safe to call on a nil publisher.
func (p *EventPublisher) Publish(event string, payload interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(eventEnvelope{Event: event, Payload: payload, SentAt: time.Now().UTC()})
	if err != nil {
		p.logger.Error().Err(err).Str("event", event).Msg("failed to encode event")
		return
	}

	subject := event
	if p.prefix != "" {
		subject = p.prefix + "." + event
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}
