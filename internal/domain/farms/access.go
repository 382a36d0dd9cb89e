package farms

import (
	"context"
	"errors"

	"pig-farm/internal/domain/accessgrants"
)

// Access decide si un usuario puede operar sobre una granja: el dueño
// siempre; otro usuario necesita un grant activo con el scope pedido.
type Access struct {
	farms  *Service
	grants *accessgrants.Service
}

func NewAccess(farms *Service, grants *accessgrants.Service) *Access {
	return &Access{farms: farms, grants: grants}
}

// Check devuelve la granja si el acceso está permitido.
// Errores: ErrNotFound, ErrForbidden.
func (a *Access) Check(ctx context.Context, farmID, userID string, scope accessgrants.Scope) (Farm, error) {
	f, err := a.farms.GetByID(ctx, farmID)
	if err != nil {
		return Farm{}, err
	}
	if f.OwnerUserID == userID {
		return f, nil
	}

	g, err := a.grants.GetActiveGrant(ctx, farmID, userID)
	if err != nil {
		if errors.Is(err, accessgrants.ErrNotFound) || errors.Is(err, accessgrants.ErrInvalidInput) {
			return Farm{}, ErrForbidden
		}
		return Farm{}, err
	}
	if !accessgrants.HasScope(g, scope) {
		return Farm{}, ErrForbidden
	}
	return f, nil
}

// Shared lista las granjas donde el usuario tiene grant activo con farm:read.
func (a *Access) Shared(ctx context.Context, userID string) ([]Farm, error) {
	grants, err := a.grants.ListByGrantee(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]Farm, 0)
	for _, g := range grants {
		if g.Status != accessgrants.StatusActive || !accessgrants.HasScope(g, accessgrants.ScopeFarmRead) {
			continue
		}
		if _, ok := seen[g.FarmID]; ok {
			continue
		}
		seen[g.FarmID] = struct{}{}

		f, err := a.farms.GetByID(ctx, g.FarmID)
		if err != nil {
			// grant huérfano
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
