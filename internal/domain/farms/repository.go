package farms

import "context"

// Repository devuelve ErrNotFound cuando no existe la granja.
type Repository interface {
	Create(ctx context.Context, f Farm) error
	Update(ctx context.Context, f Farm) error
	GetByID(ctx context.Context, id string) (Farm, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Farm, error)
}
