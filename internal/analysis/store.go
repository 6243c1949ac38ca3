// Package analysis runs scoring analyses and keeps their immutable snapshots
// in a keyed store. A snapshot is written exactly once at creation; every
// dashboard and chart query afterwards is a pure read, so concurrent readers
// need no coordination beyond the store's atomic publish on insert.
package analysis

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// Store defines the interface for analysis snapshot storage.
type Store interface {
	// Put publishes a completed analysis. Snapshots are write-once: putting
	// an id that already exists is a defect and returns an error.
	Put(ctx context.Context, a *domain.Analysis) error

	// Get retrieves an analysis by id. Returns a NotFoundError when the id
	// is unknown or the snapshot has been evicted.
	Get(ctx context.Context, analysisID string) (*domain.Analysis, error)

	// DeleteByFile evicts every analysis derived from the given file and
	// returns how many were removed. Nothing outlives its source workbook.
	DeleteByFile(ctx context.Context, fileID string) (int, error)

	// Close releases backend resources.
	Close() error
}

// MemoryStore is the default Store: a bounded in-memory LRU. Retention is
// capacity-based; the least recently read analysis is evicted first.
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *domain.Analysis]
}

// NewMemoryStore creates a memory store holding at most capacity analyses.
func NewMemoryStore(capacity int) (*MemoryStore, error) {
	cache, err := lru.New[string, *domain.Analysis](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}
	return &MemoryStore{cache: cache}, nil
}

// Put publishes a completed analysis.
func (s *MemoryStore) Put(_ context.Context, a *domain.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.Contains(a.AnalysisID) {
		return fmt.Errorf("analysis %s already stored", a.AnalysisID)
	}
	s.cache.Add(a.AnalysisID, a)
	return nil
}

// Get retrieves an analysis by id.
func (s *MemoryStore) Get(_ context.Context, analysisID string) (*domain.Analysis, error) {
	if a, ok := s.cache.Get(analysisID); ok {
		return a, nil
	}
	return nil, domain.NewNotFoundError("analysis", analysisID)
}

// DeleteByFile evicts every analysis derived from the given file.
func (s *MemoryStore) DeleteByFile(_ context.Context, fileID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, key := range s.cache.Keys() {
		if a, ok := s.cache.Peek(key); ok && a.FileID == fileID {
			s.cache.Remove(key)
			removed++
		}
	}
	return removed, nil
}

// Close implements Store; the memory store holds no external resources.
func (s *MemoryStore) Close() error {
	return nil
}
