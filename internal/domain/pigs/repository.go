package pigs

import "context"

// Repository devuelve ErrNotFound cuando no existe el animal.
type Repository interface {
	Create(ctx context.Context, p Pig) error
	Update(ctx context.Context, p Pig) error
	GetByID(ctx context.Context, id string) (Pig, error)
	ListByFarm(ctx context.Context, farmID string) ([]Pig, error)

	CreateTransfer(ctx context.Context, t Transfer) error
	ListTransfers(ctx context.Context, pigID string) ([]Transfer, error)
}
