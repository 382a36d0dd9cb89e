package memory

import (
	"context"
	"errors"
	"sync"

	"pig-farm/internal/domain/pigs"
)

type pigRepo struct {
	mu        sync.RWMutex
	byID      map[string]pigs.Pig
	transfers map[string][]pigs.Transfer // pigID -> historial
}

func NewPigRepo() pigs.Repository {
	return &pigRepo{
		byID:      make(map[string]pigs.Pig),
		transfers: make(map[string][]pigs.Transfer),
	}
}

func (r *pigRepo) Create(ctx context.Context, p pigs.Pig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("pig id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pig already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *pigRepo) Update(ctx context.Context, p pigs.Pig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return pigs.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *pigRepo) GetByID(ctx context.Context, id string) (pigs.Pig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pigs.Pig{}, pigs.ErrNotFound
	}
	return p, nil
}

func (r *pigRepo) ListByFarm(ctx context.Context, farmID string) ([]pigs.Pig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pigs.Pig, 0)
	for _, p := range r.byID {
		if p.FarmID == farmID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *pigRepo) CreateTransfer(ctx context.Context, t pigs.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" || t.PigID == "" {
		return errors.New("transfer id and pig id required")
	}
	r.transfers[t.PigID] = append(r.transfers[t.PigID], t)
	return nil
}

func (r *pigRepo) ListTransfers(ctx context.Context, pigID string) ([]pigs.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]pigs.Transfer(nil), r.transfers[pigID]...), nil
}
