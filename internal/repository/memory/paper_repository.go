// Package memory implements domain.PaperRepository as a mutex-guarded map.
// Useful for tests and ephemeral runs; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/paper-chat/backend/internal/domain"
)

type PaperRepository struct {
	mu     sync.RWMutex
	papers map[string]domain.Paper
}

func NewPaperRepository() *PaperRepository {
	return &PaperRepository{papers: make(map[string]domain.Paper)}
}

func (r *PaperRepository) Put(ctx context.Context, paper *domain.Paper) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.papers[paper.ID] = *paper
	return paper.ID, nil
}

func (r *PaperRepository) Get(ctx context.Context, id string) (*domain.Paper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paper, ok := r.papers[id]
	if !ok {
		return nil, nil
	}
	return &paper, nil
}

func (r *PaperRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.papers))
	for id := range r.papers {
		ids = append(ids, id)
	}
	return ids, nil
}
