package alerts

import (
	"context"

	"pig-farm/internal/domain/breeding"
)

// NotificationTracker guarda, por sesión (usuario + granja), qué partos
// atrasados ya se avisaron. Load de una clave desconocida devuelve un set vacío.
type NotificationTracker interface {
	Load(ctx context.Context, key string) (breeding.NotifiedSet, error)
	Save(ctx context.Context, key string, set breeding.NotifiedSet) error
	Reset(ctx context.Context, key string) error
}

// SessionKey identifica la sesión de avisos.
func SessionKey(userID, farmID string) string {
	return userID + "|" + farmID
}
