// Package kafkaingest consumes file-available notifications from Kafka and
// triggers grid loads. It is optional; the HTTP load endpoint works without
// it.
package kafkaingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/msimp2/GaugeVsQPE/internal/config"
	"github.com/msimp2/GaugeVsQPE/internal/domain"
	"github.com/msimp2/GaugeVsQPE/internal/observability"
)

// notification is the message body published when a new MRMS file lands.
type notification struct {
	Path     string `json:"path"`
	CacheKey string `json:"cache_key"`
}

// GridLoader loads a decoded file into the grid store.
type GridLoader interface {
	Load(ctx context.Context, path, cacheKey string) (*domain.Grid, error)
}

// messageSource is the slice of kafkago.Reader the consumer uses.
type messageSource interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer runs the notification loop: fetch, load, commit.
type Consumer struct {
	source  messageSource
	loader  GridLoader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewConsumer creates a Consumer reading the configured notification topic.
func NewConsumer(cfg *config.Config, loader GridLoader, logger *slog.Logger, metrics *observability.Metrics) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaGroupID,
		Topic:    cfg.KafkaTopic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	return &Consumer{source: reader, loader: loader, logger: logger, metrics: metrics}
}

// Run consumes notifications until the context is cancelled. Offsets commit
// after the load completes, so a crash mid-load replays the notification.
// Malformed or failing notifications are logged, counted, and committed
// anyway: retrying them forever would wedge the partition behind one bad
// file.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("kafka ingest started")
	c.metrics.IngestEnabled.Set(1)
	defer c.metrics.IngestEnabled.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		msg, err := c.source.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("kafka ingest stopping", "reason", ctx.Err())
				return nil
			}
			c.logger.Error("fetch notification failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = 200 * time.Millisecond

		c.handle(ctx, msg)

		if err := c.source.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("commit offset failed", "error", err,
				"partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) {
	var note notification
	if err := json.Unmarshal(msg.Value, &note); err != nil || note.Path == "" || note.CacheKey == "" {
		c.logger.Warn("malformed notification, skipping",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		c.metrics.IngestNotifications.WithLabelValues("skipped").Inc()
		return
	}

	if _, err := c.loader.Load(ctx, note.Path, note.CacheKey); err != nil {
		c.logger.Error("notification load failed, skipping",
			"path", note.Path, "cache_key", note.CacheKey, "error", err)
		c.metrics.IngestNotifications.WithLabelValues("error").Inc()
		return
	}
	c.metrics.IngestNotifications.WithLabelValues("loaded").Inc()
}

// Close releases the underlying Kafka reader.
func (c *Consumer) Close() error {
	return c.source.Close()
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
