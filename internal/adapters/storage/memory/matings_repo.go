package memory

import (
	"context"
	"errors"
	"sync"

	"pig-farm/internal/domain/matings"
)

type matingRepo struct {
	mu   sync.RWMutex
	byID map[string]matings.Record
}

func NewMatingRepo() matings.Repository {
	return &matingRepo{
		byID: make(map[string]matings.Record),
	}
}

func (r *matingRepo) Create(ctx context.Context, rec matings.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("breeding record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("breeding record already exists")
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *matingRepo) Update(ctx context.Context, rec matings.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rec.ID]; !exists {
		return matings.ErrNotFound
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *matingRepo) GetByID(ctx context.Context, id string) (matings.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return matings.Record{}, matings.ErrNotFound
	}
	return rec, nil
}

func (r *matingRepo) ListByFarm(ctx context.Context, farmID string) ([]matings.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matings.Record, 0)
	for _, rec := range r.byID {
		if rec.FarmID == farmID {
			out = append(out, rec)
		}
	}
	return out, nil
}
