package kafkaingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msimp2/GaugeVsQPE/internal/domain"
	"github.com/msimp2/GaugeVsQPE/internal/observability"
)

// stubSource feeds a fixed set of messages, then cancels the consumer's
// context so Run returns.
type stubSource struct {
	mu        sync.Mutex
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
	commitErr error
}

func (s *stubSource) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		s.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := s.msgs[0]
	s.msgs = s.msgs[1:]
	return msg, nil
}

func (s *stubSource) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.commitErr != nil {
		return s.commitErr
	}
	for _, m := range msgs {
		s.committed = append(s.committed, m.Offset)
	}
	return nil
}

func (s *stubSource) Close() error { return nil }

type recordingLoader struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (l *recordingLoader) Load(_ context.Context, path, cacheKey string) (*domain.Grid, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, path+"|"+cacheKey)
	if l.err != nil {
		return nil, l.err
	}
	return &domain.Grid{}, nil
}

func runConsumer(t *testing.T, msgs []kafkago.Message, loader *recordingLoader) *stubSource {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &stubSource{msgs: msgs, cancel: cancel}
	c := &Consumer{
		source:  source,
		loader:  loader,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: observability.NewMetricsForTesting(),
	}

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
	return source
}

func note(offset int64, body string) kafkago.Message {
	return kafkago.Message{Offset: offset, Value: []byte(body)}
}

func TestConsumerLoadsNotifications(t *testing.T) {
	loader := &recordingLoader{}
	source := runConsumer(t, []kafkago.Message{
		note(1, `{"path":"vil.grib2","cache_key":"vil"}`),
		note(2, `{"path":"cref.grib2","cache_key":"cref"}`),
	}, loader)

	assert.Equal(t, []string{"vil.grib2|vil", "cref.grib2|cref"}, loader.calls)
	assert.Equal(t, []int64{1, 2}, source.committed)
}

func TestConsumerSkipsMalformedNotification(t *testing.T) {
	loader := &recordingLoader{}
	source := runConsumer(t, []kafkago.Message{
		note(1, `not json`),
		note(2, `{"path":"","cache_key":"vil"}`),
		note(3, `{"path":"vil.grib2","cache_key":"vil"}`),
	}, loader)

	assert.Equal(t, []string{"vil.grib2|vil"}, loader.calls)
	// Bad messages still commit so the partition keeps moving.
	assert.Equal(t, []int64{1, 2, 3}, source.committed)
}

func TestConsumerCommitsFailedLoads(t *testing.T) {
	loader := &recordingLoader{err: errors.New("decode failed")}
	source := runConsumer(t, []kafkago.Message{
		note(7, `{"path":"bad.grib2","cache_key":"vil"}`),
	}, loader)

	assert.Len(t, loader.calls, 1)
	assert.Equal(t, []int64{7}, source.committed)
}
