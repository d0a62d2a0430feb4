package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rutamapa/rutamapa/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
//
// Subjects:
//
//	map.session.<id>.viewport   settled viewport commits
//	map.session.<id>.selection  route/popup selection changes
//	map.session.<id>.routes     applied calculation results
//	map.session.<id>.cleared    session reset / teardown
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure the session-events stream exists. Settled viewports are only
	// interesting while someone listens; they age out fast.
	cfg := nats.StreamConfig{
		Name:      "MAP_SESSION_EVENTS",
		Subjects:  []string{"map.session.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishViewportSettled(ctx context.Context, ev *domain.ViewportSettledEvent) error {
	return p.publish("map.session."+ev.SessionID+".viewport", ev)
}

func (p *Publisher) PublishSelectionChanged(ctx context.Context, ev *domain.SelectionChangedEvent) error {
	return p.publish("map.session."+ev.SessionID+".selection", ev)
}

func (p *Publisher) PublishRoutesLoaded(ctx context.Context, ev *domain.RoutesLoadedEvent) error {
	return p.publish("map.session."+ev.SessionID+".routes", ev)
}

func (p *Publisher) PublishSessionCleared(ctx context.Context, ev *domain.SessionClearedEvent) error {
	return p.publish("map.session."+ev.SessionID+".cleared", ev)
}

func (p *Publisher) publish(subject string, ev interface{}) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data)
	return err
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
