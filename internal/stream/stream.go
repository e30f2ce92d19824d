// Package stream publishes conversation events to Kafka so external
// analytics and observer dashboards can follow sessions live.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/challengegame/negotiator/internal/bus"
)

// Publisher forwards bus events to a Kafka topic, keyed by session so
// one session's events stay ordered within a partition. Publishing is
// fire-and-forget: a broker outage must never stall a turn.
type Publisher struct {
	writer writerAPI
	logger *slog.Logger
	queue  chan bus.Event
	done   chan struct{}
}

// writerAPI is the slice of kafka.Writer the publisher uses; swapped
// for a recorder in tests.
type writerAPI interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newPublisher(w, logger)
}

func newPublisher(w writerAPI, logger *slog.Logger) *Publisher {
	p := &Publisher{
		writer: w,
		logger: logger,
		queue:  make(chan bus.Event, 256),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Attach subscribes the publisher to a bus.
func (p *Publisher) Attach(b *bus.Bus) {
	b.Subscribe(p.Handle)
}

// Handle enqueues one event. Events are dropped with a warning when
// the queue is full.
func (p *Publisher) Handle(ev bus.Event) {
	select {
	case p.queue <- ev:
	default:
		p.logger.Warn("stream queue full, dropping event",
			"kind", ev.Kind, "session", ev.SessionID)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for ev := range p.queue {
		payload, err := json.Marshal(ev)
		if err != nil {
			p.logger.Warn("stream marshal failed", "kind", ev.Kind, "error", err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(ev.SessionID),
			Value: payload,
		})
		cancel()
		if err != nil {
			p.logger.Warn("stream publish failed",
				"kind", ev.Kind, "session", ev.SessionID, "error", err)
		}
	}
}

// Close drains the queue and closes the writer.
func (p *Publisher) Close() error {
	close(p.queue)
	<-p.done
	return p.writer.Close()
}
