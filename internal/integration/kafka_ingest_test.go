//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/msimp2/GaugeVsQPE/internal/adapter/kafkaingest"
	"github.com/msimp2/GaugeVsQPE/internal/config"
	"github.com/msimp2/GaugeVsQPE/internal/domain"
	"github.com/msimp2/GaugeVsQPE/internal/ingest"
	"github.com/msimp2/GaugeVsQPE/internal/observability"
	"github.com/msimp2/GaugeVsQPE/internal/render"
)

const testTopic = "mrms-file-available"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("tile-server-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// fixtureDecoder stands in for the GRIB decoder so the test exercises the
// Kafka path without real MRMS files.
type fixtureDecoder struct{}

func (fixtureDecoder) Decode(_ context.Context, path string) (*ingest.DecodedGrid, error) {
	values := make([]float32, domain.GridWidth*domain.GridHeight)
	for i := range values {
		values[i] = 1024
	}
	return &ingest.DecodedGrid{
		Values: values,
		Param: domain.Parameter{
			Discipline: 209, Category: 3, Number: 0,
			Name: "VIL", Abbreviation: "VIL", Unit: "kg/m^2",
		},
	}, nil
}

// TestKafkaIngestEndToEnd publishes file-available notifications to a real
// broker and verifies the consumer drives loads into the grid store, skipping
// malformed messages.
func TestKafkaIngestEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
		KafkaGroupID: fmt.Sprintf("test-ingest-%d", time.Now().UnixNano()),
	}

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("vil"), Value: []byte(`{"path":"vil.grib2","cache_key":"vil"}`)},
	))

	metrics := observability.NewMetricsForTesting()
	store := domain.NewGridStore()
	cache, err := render.NewTileCache(16, metrics)
	require.NoError(t, err)
	svc := render.NewService(store, render.NewRenderer(metrics, 2), cache)
	loader := ingest.NewLoader(fixtureDecoder{}, store, svc, discardLogger(), metrics)

	consumer := kafkaingest.NewConsumer(cfg, loader, discardLogger(), metrics)
	t.Cleanup(func() { _ = consumer.Close() })

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Run(consumerCtx) }()

	// The poison message is skipped; the valid one must land in the store.
	require.Eventually(t, func() bool {
		_, ok := store.Get("vil")
		return ok
	}, 60*time.Second, 250*time.Millisecond, "grid never appeared in the store")

	grid, ok := store.Get("vil")
	require.True(t, ok)
	require.Equal(t, domain.ClassVIL, grid.Class)
	// (1024-768)/256 = 1 after VIL de-scaling.
	require.InDelta(t, 1.0, float64(grid.Values[0]), 1e-6)

	consumerCancel()
	require.NoError(t, <-errCh)
}
