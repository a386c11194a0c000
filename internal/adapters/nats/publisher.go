package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

const (
	SubjectZoneChecked     = "delivery.zone.checked"
	SubjectLocationPrefix  = "locations.geocoded."
	streamDeliveryEvents   = "DELIVERY_EVENTS"
	streamLocationEvents   = "LOCATION_EVENTS"
	zoneCheckAuditDurable  = "zone-check-auditor"
	defaultReconnectWait   = 2 * time.Second
	deliveryEventRetention = 72 * time.Hour
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
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

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStreams(js nats.JetStreamContext) error {
	streams := []nats.StreamConfig{
		{
			Name:       streamDeliveryEvents,
			Subjects:   []string{"delivery.>"},
			Retention:  nats.LimitsPolicy,
			MaxAge:     deliveryEventRetention,
			Storage:    nats.FileStorage,
			Duplicates: 2 * time.Minute,
		},
		{
			Name:      streamLocationEvents,
			Subjects:  []string{"locations.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

// PublishZoneCheck publishes a decision. The event ID doubles as the
// JetStream message ID so retries are deduplicated.
func (p *Publisher) PublishZoneCheck(ctx context.Context, event *domain.ZoneCheckEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectZoneChecked, data, nats.Context(ctx), nats.MsgId(event.ID))
	return err
}

func (p *Publisher) PublishLocationGeocoded(ctx context.Context, event *domain.LocationGeocodedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectLocationPrefix+event.LocationID, data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return connect(url)
}

func connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(defaultReconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}
