package pens

import "context"

// Repository devuelve ErrNotFound cuando no existe el corral.
type Repository interface {
	Create(ctx context.Context, p Pen) error
	GetByID(ctx context.Context, id string) (Pen, error)
	ListByFarm(ctx context.Context, farmID string) ([]Pen, error)
	Delete(ctx context.Context, id string) error
}
