package kafka

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	kgo "github.com/segmentio/kafka-go"
)

type Handler func(ctx context.Context, topic string, key, value []byte) error

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks a handler error that retrying cannot fix, such as an
// undecodable payload. The message is logged and committed.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

type reader interface {
	FetchMessage(ctx context.Context) (kgo.Message, error)
	CommitMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}

// Consumer delivers each message of one topic to a handler. Any other
// handler error is retried on the same message with capped backoff, so an
// offset is committed only after its message was handled or dropped as
// permanent.
type Consumer struct {
	reader  reader
	handle  Handler
	topic   string
	backoff func(attempt int) time.Duration
}

func NewConsumer(brokers, groupID, topic string, h Handler) *Consumer {
	r := kgo.NewReader(kgo.ReaderConfig{
		Brokers:        strings.Split(brokers, ","),
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		StartOffset:    kgo.FirstOffset,
		CommitInterval: time.Second,
	})
	log.Printf("[Kafka] consumer group=%s topic=%s brokers=%s", groupID, topic, brokers)
	return newConsumer(r, topic, h)
}

func newConsumer(r reader, topic string, h Handler) *Consumer {
	return &Consumer{reader: r, handle: h, topic: topic, backoff: retryDelay}
}

func retryDelay(attempt int) time.Duration {
	d := time.Second << min(attempt-1, 5)
	return min(d, 30*time.Second)
}

// Run fetches until ctx is cancelled. A message still being retried at
// shutdown stays uncommitted and is redelivered to the group.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		_ = c.reader.Close()
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("[Kafka] %s consumer stopped", c.topic)
				return nil
			}
			log.Printf("[Kafka] fetch %s: %v", c.topic, err)
			if !sleep(ctx, time.Second) {
				return nil
			}
			continue
		}

		if !c.deliver(ctx, m) {
			return nil
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			log.Printf("[Kafka] commit %s@%d: %v", m.Topic, m.Offset, err)
		}
	}
}

// deliver reports false only when ctx ended before the message was handled.
func (c *Consumer) deliver(ctx context.Context, m kgo.Message) bool {
	if c.handle == nil {
		return true
	}
	for attempt := 1; ; attempt++ {
		err := c.handle(ctx, m.Topic, m.Key, m.Value)
		switch {
		case err == nil:
			return true
		case IsPermanent(err):
			log.Printf("[Kafka] drop %s@%d: %v", m.Topic, m.Offset, err)
			return true
		}
		wait := c.backoff(attempt)
		log.Printf("[Kafka] handle %s@%d attempt %d, retry in %s: %v", m.Topic, m.Offset, attempt, wait, err)
		if !sleep(ctx, wait) {
			return false
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
