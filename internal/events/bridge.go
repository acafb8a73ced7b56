// Package events shares cache invalidations between instances that use the
// same storage, over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"financehub/internal/query"
)

const DefaultSubject = "financehub.changes"

// Invalidator is satisfied by *query.Client.
type Invalidator interface {
	Invalidate(prefix query.Key) int
}

type Config struct {
	URL     string
	Subject string
	// InstanceID tags outgoing messages so an instance ignores its own.
	InstanceID string
	Logger     logrus.FieldLogger
}

type message struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
	Op     string `json:"op"`
	Source string `json:"source"`
}

// Bridge publishes local changes and applies remote ones.
type Bridge struct {
	conn     *nats.Conn
	sub      *nats.Subscription
	subject  string
	instance string
	cache    Invalidator
	logger   logrus.FieldLogger
}

func newBridge(cfg Config, cache Invalidator) *Bridge {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Bridge{
		subject:  cfg.Subject,
		instance: cfg.InstanceID,
		cache:    cache,
		logger:   cfg.Logger.WithField("component", "events"),
	}
}

// Connect dials NATS and subscribes to every entity under the subject.
func Connect(cfg Config, cache Invalidator) (*Bridge, error) {
	b := newBridge(cfg, cache)
	conn, err := nats.Connect(cfg.URL, nats.Name("financehub-"+b.instance))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	sub, err := conn.Subscribe(b.subject+".>", b.handle)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.subject, err)
	}
	b.conn = conn
	b.sub = sub
	b.logger.WithField("subject", b.subject).Info("listening for changes")
	return b, nil
}

// Publish implements query.Publisher.
func (b *Bridge) Publish(_ context.Context, change query.Change) error {
	data, err := json.Marshal(message{Entity: change.Entity, ID: change.ID, Op: change.Op, Source: b.instance})
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	if err := b.conn.Publish(b.subject+"."+change.Entity, data); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

func (b *Bridge) handle(m *nats.Msg) {
	var msg message
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		b.logger.Warnf("decode change on %s: %v", m.Subject, err)
		return
	}
	if msg.Source == b.instance {
		return
	}
	entity := msg.Entity
	if entity == "" {
		entity = strings.TrimPrefix(m.Subject, b.subject+".")
	}
	n := b.cache.Invalidate(query.Key{entity})
	b.logger.WithFields(logrus.Fields{"entity": entity, "op": msg.Op, "source": msg.Source, "entries": n}).Debug("remote change applied")
}

// Close drains the subscription and the connection.
func (b *Bridge) Close() error {
	if b.sub != nil {
		if err := b.sub.Unsubscribe(); err != nil {
			b.logger.Warnf("unsubscribe: %v", err)
		}
	}
	if b.conn != nil {
		return b.conn.Drain()
	}
	return nil
}
