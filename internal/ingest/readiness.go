package ingest

import (
	"context"
	"errors"

	"github.com/msimp2/GaugeVsQPE/internal/domain"
)

// Readiness gates /readyz on the first published grid. When loads only
// happen on demand over HTTP there is nothing to wait for and the service is
// ready immediately; with Kafka ingest enabled, readiness means at least one
// notification has produced a grid.
type Readiness struct {
	store       *domain.GridStore
	requireLoad bool
}

// NewReadiness creates a readiness check over the store. requireLoad should
// be true when a background ingest feed is expected to populate the store.
func NewReadiness(store *domain.GridStore, requireLoad bool) *Readiness {
	return &Readiness{store: store, requireLoad: requireLoad}
}

// CheckReadiness returns nil once the service can usefully answer tile
// requests.
func (r *Readiness) CheckReadiness(_ context.Context) error {
	if !r.requireLoad || r.store.Len() > 0 {
		return nil
	}
	return errors.New("no grid loaded yet")
}
