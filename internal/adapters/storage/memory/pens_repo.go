package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pig-farm/internal/domain/pens"
)

type penRepo struct {
	mu   sync.RWMutex
	byID map[string]pens.Pen
}

func NewPenRepo() pens.Repository {
	return &penRepo{
		byID: make(map[string]pens.Pen),
	}
}

func (r *penRepo) Create(ctx context.Context, p pens.Pen) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("pen id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pen already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *penRepo) GetByID(ctx context.Context, id string) (pens.Pen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pens.Pen{}, pens.ErrNotFound
	}
	return p, nil
}

// ListByFarm ordena por fila y nombre, como se ve en el plano.
func (r *penRepo) ListByFarm(ctx context.Context, farmID string) ([]pens.Pen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pens.Pen, 0)
	for _, p := range r.byID {
		if p.FarmID == farmID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RowName != out[j].RowName {
			return out[i].RowName < out[j].RowName
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *penRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pens.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
