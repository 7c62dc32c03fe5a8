package domain

import (
	"sync"
	"time"
)

// GridStore is a concurrent map from cache key to loaded grid. Reads only
// hold the lock long enough to fetch a pointer; grids themselves are
// immutable, so a reader can never observe metadata that does not match its
// value array. Put is total replacement, never a merge.
type GridStore struct {
	mu    sync.RWMutex
	grids map[string]*Grid
}

// EntryStats describes one cached grid for the diagnostics endpoint.
type EntryStats struct {
	Elements int       `json:"elements"`
	Product  string    `json:"product"`
	Unit     string    `json:"unit"`
	LoadedAt time.Time `json:"loaded_at"`
}

// NewGridStore creates an empty store.
func NewGridStore() *GridStore {
	return &GridStore{grids: make(map[string]*Grid)}
}

// Put replaces whatever grid is stored under key. The swap is atomic from a
// reader's point of view: in-flight readers keep the grid they already hold.
func (s *GridStore) Put(key string, g *Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[key] = g
}

// Get returns the grid under key. Absence is a normal outcome, not an error.
func (s *GridStore) Get(key string) (*Grid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.grids[key]
	return g, ok
}

// Clear removes the grid under key, reporting whether one existed.
func (s *GridStore) Clear(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.grids[key]
	delete(s.grids, key)
	return ok
}

// ClearAll removes every grid and returns how many were dropped.
func (s *GridStore) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.grids)
	s.grids = make(map[string]*Grid)
	return n
}

// Len returns the number of cached grids.
func (s *GridStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.grids)
}

// Stats returns per-key diagnostics.
func (s *GridStore) Stats() map[string]EntryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := make(map[string]EntryStats, len(s.grids))
	for key, g := range s.grids {
		stats[key] = EntryStats{
			Elements: len(g.Values),
			Product:  g.Param.Name,
			Unit:     g.Param.Unit,
			LoadedAt: g.LoadedAt,
		}
	}
	return stats
}
