package kafka

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/volcano-atlas/internal/config"
	"github.com/couchcryptid/volcano-atlas/internal/domain"
)

// Header keys set on every snapshot message.
const (
	HeaderDatasetVersion = "dataset_version"
	HeaderGeneratedAt    = "generated_at"
)

// Writer publishes per-country aggregates to a Kafka topic.
// It implements pipeline.SnapshotLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSnapshotTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadSnapshot publishes one message per aggregate row, keyed by ISO code,
// in a single WriteMessages call. All messages of one call share a dataset
// version so consumers can tell snapshots apart.
func (w *Writer) LoadSnapshot(ctx context.Context, rows []domain.CountryAggregate) error {
	if len(rows) == 0 {
		return nil
	}
	msgs, err := serializeSnapshot(rows, domain.Now())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.logger.Debug("snapshot published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeSnapshot marshals every row and stamps the shared headers. The
// dataset version is a content hash of the serialized rows.
func serializeSnapshot(rows []domain.CountryAggregate, generatedAt time.Time) ([]kafkago.Message, error) {
	values := make([][]byte, len(rows))
	hash := sha256.New()
	for i := range rows {
		data, err := json.Marshal(rows[i])
		if err != nil {
			return nil, fmt.Errorf("serialize aggregate %s: %w", rows[i].ISO3, err)
		}
		values[i] = data
		hash.Write(data)
	}
	version := hex.EncodeToString(hash.Sum(nil))[:16]
	stamp := []byte(generatedAt.UTC().Format(time.RFC3339))

	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msgs[i] = kafkago.Message{
			Key:   []byte(rows[i].ISO3),
			Value: values[i],
			Headers: []kafkago.Header{
				{Key: HeaderDatasetVersion, Value: []byte(version)},
				{Key: HeaderGeneratedAt, Value: stamp},
			},
		}
	}
	return msgs, nil
}
