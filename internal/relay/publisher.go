// Package relay forwards FastSpring events to NATS, either by polling the
// events API or by receiving webhook deliveries.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/nats-io/nats.go"
)

// Publisher delivers events downstream.
type Publisher interface {
	Publish(ctx context.Context, event fastspring.Event) error
	Close() error
}

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	PublishMsg(msg *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATSPublisher publishes each event as JSON to <prefix>.<event type>.
type NATSPublisher struct {
	conn   Conn
	prefix string

	mutex  sync.RWMutex
	closed bool
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string, opts ...nats.Option) (*NATSPublisher, error) {
	opts = append([]nats.Option{nats.Name("fastspring-relay")}, opts...)

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return NewNATSPublisherWithConn(conn, prefix), nil
}

// NewNATSPublisherWithConn wraps an existing connection.
func NewNATSPublisherWithConn(conn Conn, prefix string) *NATSPublisher {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = constants.DefaultSubjectPrefix
	}

	return &NATSPublisher{
		conn:   conn,
		prefix: prefix,
	}
}

// Subject returns the subject an event of eventType is published to.
func (p *NATSPublisher) Subject(eventType string) (string, error) {
	eventType = strings.Trim(strings.TrimSpace(eventType), ".")
	if eventType == "" {
		return "", constants.ErrEmptyEventType
	}

	// NATS subjects cannot contain whitespace or wildcards.
	replacer := strings.NewReplacer(" ", "_", "*", "_", ">", "_")

	return p.prefix + "." + replacer.Replace(eventType), nil
}

// Publish implements Publisher. The event id is sent as Nats-Msg-Id so
// JetStream streams can drop duplicate deliveries.
func (p *NATSPublisher) Publish(ctx context.Context, event fastspring.Event) error {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.closed {
		return constants.ErrPublisherClosed
	}

	subject, err := p.Subject(event.Type)
	if err != nil {
		return fmt.Errorf("event %s: %w", event.ID, err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event %s: %w", event.ID, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = data

	if event.ID != "" {
		msg.Header.Set(nats.MsgIdHdr, event.ID)
	}

	err = p.conn.PublishMsg(msg)
	if err != nil {
		return fmt.Errorf("publishing event %s to %s: %w", event.ID, subject, err)
	}

	// FlushWithContext rejects contexts without a deadline.
	flushCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc

		flushCtx, cancel = context.WithTimeout(ctx, constants.DefaultFlushTimeout)
		defer cancel()
	}

	err = p.conn.FlushWithContext(flushCtx)
	if err != nil {
		return fmt.Errorf("flushing event %s: %w", event.ID, err)
	}

	return nil
}

// Close drains the connection. Further publishes fail.
func (p *NATSPublisher) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	err := p.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}
