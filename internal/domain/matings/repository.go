package matings

import "context"

// Repository devuelve ErrNotFound cuando no existe el registro.
type Repository interface {
	Create(ctx context.Context, r Record) error
	Update(ctx context.Context, r Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	ListByFarm(ctx context.Context, farmID string) ([]Record, error)
}
