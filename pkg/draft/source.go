package draft

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrymomot/lingua/pkg/model"
)

// Source returns the snapshot of every object saved in a revision.
type Source interface {
	Snapshot(ctx context.Context, revisionID string) ([]*model.Instance, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, revisionID string) ([]*model.Instance, error)

func (fn SourceFunc) Snapshot(ctx context.Context, revisionID string) ([]*model.Instance, error) {
	return fn(ctx, revisionID)
}

// MemorySource keeps revisions in memory. Safe for concurrent use.
type MemorySource struct {
	mu        sync.RWMutex
	revisions map[string][]*model.Instance
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{revisions: make(map[string][]*model.Instance)}
}

// Add appends insts to the revision.
func (s *MemorySource) Add(revisionID string, insts ...*model.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revisions[revisionID] = append(s.revisions[revisionID], insts...)
}

// Delete drops a revision.
func (s *MemorySource) Delete(revisionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.revisions, revisionID)
}

func (s *MemorySource) Snapshot(_ context.Context, revisionID string) ([]*model.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	insts, ok := s.revisions[revisionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRevisionNotFound, revisionID)
	}
	return slices.Clone(insts), nil
}
