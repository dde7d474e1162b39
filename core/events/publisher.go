package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sales-history/core/dbf"
	"sales-history/core/reconcile"

	"github.com/segmentio/kafka-go"
)

// messageWriter abstracts kafka.Writer for testability.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sale is the payload of one published message.
type Sale struct {
	Key        string         `json:"key"`
	Record     map[string]any `json:"record"`
	Reconciled time.Time      `json:"reconciled_at"`
}

// Publisher writes appended records to Kafka.
type Publisher struct {
	writer messageWriter
	schema *reconcile.Schema
	shape  reconcile.KeyShape
	now    func() time.Time
}

// NewPublisher creates a publisher for cfg. Records are keyed with the dedup key of
// the given schema and shape.
func NewPublisher(cfg Config, schema *reconcile.Schema, shape reconcile.KeyShape) (*Publisher, error) {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newPublisherWith(w, schema, shape), nil
}

func newPublisherWith(w messageWriter, schema *reconcile.Schema, shape reconcile.KeyShape) *Publisher {
	return &Publisher{writer: w, schema: schema, shape: shape, now: time.Now}
}

func splitBrokers(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Name implements reconcile.Hook.
func (p *Publisher) Name() string {
	return "events"
}

// AfterAppend implements reconcile.Hook. All records go out in one batch.
func (p *Publisher) AfterAppend(ctx context.Context, records []dbf.Record) error {
	if len(records) == 0 {
		return nil
	}

	at := p.now().UTC()
	msgs := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		key := reconcile.KeyOf(rec, p.schema, p.shape).String()
		b, err := json.Marshal(Sale{Key: key, Record: rec, Reconciled: at})
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(key), Value: b, Time: at})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d sales: %w", len(msgs), err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
