package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	applog "txboard/internal/log"

	"github.com/rabbitmq/amqp091-go"
)

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
	closed   bool
}

func (r *recordingChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	r.exchange = exchange
	r.key = key
	r.msg = msg
	return r.err
}

func (r *recordingChannel) Close() error {
	r.closed = true
	return nil
}

func TestSeedCompletedMessage_JSON(t *testing.T) {
	msg := NewSeedCompletedMessage(60, "https://example.com/feed.json")
	if msg.Event != EventSeeded {
		t.Fatalf("Event = %q, want %q", msg.Event, EventSeeded)
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	got, err := SeedCompletedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("SeedCompletedMessageFromJSON() error = %v", err)
	}
	if got.Count != 60 || got.Source != "https://example.com/feed.json" || !got.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("decoded message = %+v, want %+v", got, msg)
	}

	if _, err := SeedCompletedMessageFromJSON([]byte("{")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestClient_PublishSeedCompleted(t *testing.T) {
	ch := &recordingChannel{}
	c := &Client{channel: ch, exchange: "txboard", routingKey: "transactions.seeded", logger: applog.Discard()}

	if err := c.PublishSeedCompleted(context.Background(), 3, "src"); err != nil {
		t.Fatalf("PublishSeedCompleted() error = %v", err)
	}

	if ch.exchange != "txboard" || ch.key != "transactions.seeded" {
		t.Errorf("published to %s/%s", ch.exchange, ch.key)
	}
	if ch.msg.ContentType != "application/json" {
		t.Errorf("ContentType = %q", ch.msg.ContentType)
	}
	if ch.msg.DeliveryMode != amqp091.Persistent {
		t.Errorf("DeliveryMode = %d, want persistent", ch.msg.DeliveryMode)
	}
	if time.Since(ch.msg.Timestamp) > time.Minute {
		t.Errorf("Timestamp = %v", ch.msg.Timestamp)
	}

	msg, err := SeedCompletedMessageFromJSON(ch.msg.Body)
	if err != nil {
		t.Fatalf("body is not a seed message: %v", err)
	}
	if msg.Count != 3 || msg.Source != "src" {
		t.Errorf("body = %+v", msg)
	}
}

func TestClient_PublishSeedCompletedError(t *testing.T) {
	boom := errors.New("channel closed")
	c := &Client{channel: &recordingChannel{err: boom}, logger: applog.Discard()}

	err := c.PublishSeedCompleted(context.Background(), 1, "src")
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}

func TestClient_Close(t *testing.T) {
	ch := &recordingChannel{}
	c := &Client{channel: ch}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !ch.closed {
		t.Error("channel not closed")
	}
}
