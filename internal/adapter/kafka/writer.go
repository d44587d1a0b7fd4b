package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/export"
	"github.com/couchcryptid/squirrel-census-etl/internal/config"
	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces one message per merged record to a Kafka topic.
// It implements pipeline.Exporter.
type Publisher struct {
	writer  messageWriter
	clock   clockwork.Clock
	timeout time.Duration
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, clock: clock, timeout: cfg.KafkaTimeout, logger: logger}
}

func (p *Publisher) Name() string { return "kafka" }

// Export serializes every record and publishes them in a single
// WriteMessages call bounded by the configured timeout. Records are keyed by
// squirrel ID, so one squirrel's rows land on one partition.
func (p *Publisher) Export(ctx context.Context, table domain.MergedTable) (int, error) {
	if len(table.Records) == 0 {
		return 0, nil
	}

	publishedAt := p.clock.Now().UTC()
	msgs := make([]kafkago.Message, len(table.Records))
	for i, rec := range table.Records {
		msg, err := serializeToMessage(table.Columns, rec, publishedAt)
		if err != nil {
			return 0, err
		}
		msgs[i] = msg
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("publish merged records: %w", err)
	}

	p.logger.Debug("merged records published", "messages", len(msgs))
	return len(msgs), nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a merged record into a Kafka message.
func serializeToMessage(columns []string, rec domain.MergedRecord, publishedAt time.Time) (kafkago.Message, error) {
	data, err := export.MarshalRecord(columns, rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize merged record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.SquirrelID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hectare", Value: []byte(rec.Hectare)},
			{Key: "shift", Value: []byte(rec.Shift)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
