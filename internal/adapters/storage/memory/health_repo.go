package memory

import (
	"context"
	"errors"
	"sync"

	"pig-farm/internal/domain/health"
)

type healthRepo struct {
	mu   sync.RWMutex
	byID map[string]health.Record
}

func NewHealthRepo() health.Repository {
	return &healthRepo{
		byID: make(map[string]health.Record),
	}
}

func (r *healthRepo) Create(ctx context.Context, rec health.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("health record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("health record already exists")
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *healthRepo) Update(ctx context.Context, rec health.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rec.ID]; !exists {
		return health.ErrNotFound
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *healthRepo) GetByID(ctx context.Context, id string) (health.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return health.Record{}, health.ErrNotFound
	}
	return rec, nil
}

func (r *healthRepo) ListByFarm(ctx context.Context, farmID string) ([]health.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]health.Record, 0)
	for _, rec := range r.byID {
		if rec.FarmID == farmID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *healthRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return health.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
