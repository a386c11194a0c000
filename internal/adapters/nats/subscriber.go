package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, err
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStreams(js); err != nil {
		conn.Close()
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeZoneChecks delivers zone-check events to handler on a durable
// consumer. Malformed payloads are terminated, handler errors redelivered.
func (s *Subscriber) SubscribeZoneChecks(ctx context.Context, handler func(ctx context.Context, event *domain.ZoneCheckEvent) error) error {
	sub, err := s.js.Subscribe(SubjectZoneChecked, func(msg *nats.Msg) {
		var event domain.ZoneCheckEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("dropping malformed zone check", "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &event); err != nil {
			slog.Warn("zone check handler failed", "event_id", event.ID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(zoneCheckAuditDurable),
		nats.ManualAck(),
		nats.MaxDeliver(5),
		nats.DeliverAll(),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close stops delivery without deleting the durable consumer, so the next
// run resumes where this one stopped. Unacked messages are redelivered.
func (s *Subscriber) Close() {
	s.subs = nil
	s.conn.Close()
}
