package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/health-facility-map/internal/config"
	"github.com/couchcryptid/health-facility-map/internal/domain"
)

// Writer publishes geocoded facilities to a Kafka topic.
// It implements pipeline.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Export publishes every geocoded facility of t and returns the number of
// messages written.
func (w *Writer) Export(ctx context.Context, t *domain.Table) (int, error) {
	facilities := t.Geocoded()
	if err := w.LoadBatch(ctx, facilities, t.GeocodedAt); err != nil {
		return 0, err
	}
	w.logger.Debug("facilities published", "topic", w.writer.Topic, "count", len(facilities))
	return len(facilities), nil
}

// LoadBatch serializes and publishes facilities in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, facilities []domain.Facility, geocodedAt time.Time) error {
	if len(facilities) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(facilities))
	for i := range facilities {
		msg, err := serializeToMessage(facilities[i], geocodedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish facilities: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Facility into a Kafka message keyed by its
// source row.
func serializeToMessage(f domain.Facility, geocodedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize facility: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(f.Row)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(f.Category)},
			{Key: "geocoded_at", Value: []byte(geocodedAt.Format(time.RFC3339))},
		},
	}, nil
}
