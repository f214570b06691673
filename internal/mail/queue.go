package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/nats-io/nats.go"
)

const (
	sendSubject = "bookly.mail.send"
	streamName  = "BOOKLY_MAIL"
)

// Queue is a NATS JetStream backed delivery queue decoupling request
// handling from SMTP round trips. The API process enqueues; the mailer
// worker consumes.
type Queue struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewQueue connects to NATS and ensures the mail stream exists.
func NewQueue(url string, opts ...nats.Option) (*Queue, error) {
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{sendSubject},
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		nc.Close()
		return nil, err
	}

	return &Queue{conn: nc, js: js}, nil
}

// Close shuts down the underlying NATS connection.
func (q *Queue) Close() {
	if q == nil {
		return
	}
	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
	}
}

// Enqueue publishes msg for delivery by the mailer worker.
func (q *Queue) Enqueue(ctx context.Context, msg Message) error {
	if q == nil {
		return errors.New("nil queue")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	_, err = q.js.Publish(sendSubject, data, nats.Context(ctx))
	return err
}

type subscription struct {
	sub    *nats.Subscription
	mu     sync.Mutex
	closed bool
}

func (s *subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.sub.Drain()
}

// Consume creates a durable consumer invoking fn for each queued message.
// A handler error naks the message so delivery is retried.
func (q *Queue) Consume(ctx context.Context, durable string, fn func(ctx context.Context, msg Message) error) (io.Closer, error) {
	if q == nil {
		return nil, errors.New("nil queue")
	}
	if fn == nil {
		return nil, errors.New("nil handler")
	}

	handler := func(natsMsg *nats.Msg) {
		var msg Message
		if err := json.Unmarshal(natsMsg.Data, &msg); err != nil {
			// Undecodable payloads can never succeed; drop them.
			_ = natsMsg.Ack()
			return
		}

		if err := fn(ctx, msg); err != nil {
			_ = natsMsg.Nak()
			return
		}
		_ = natsMsg.Ack()
	}

	sub, err := q.js.Subscribe(sendSubject, handler, nats.Durable(durable), nats.ManualAck(), nats.AckExplicit())
	if err != nil {
		return nil, err
	}

	return &subscription{sub: sub}, nil
}
