package memory

import (
	"context"
	"sync"

	"pig-farm/internal/domain/alerts"
	"pig-farm/internal/domain/breeding"
)

// NotificationTracker vive lo que vive el proceso: reiniciar el servidor
// equivale a abrir una sesión nueva.
type NotificationTracker struct {
	mu   sync.Mutex
	sets map[string]breeding.NotifiedSet
}

var _ alerts.NotificationTracker = (*NotificationTracker)(nil)

func NewNotificationTracker() *NotificationTracker {
	return &NotificationTracker{sets: make(map[string]breeding.NotifiedSet)}
}

func (t *NotificationTracker) Load(ctx context.Context, key string) (breeding.NotifiedSet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.sets[key]; ok {
		return s.With(), nil
	}
	return breeding.NewNotifiedSet(), nil
}

func (t *NotificationTracker) Save(ctx context.Context, key string, set breeding.NotifiedSet) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sets[key] = set.With()
	return nil
}

func (t *NotificationTracker) Reset(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.sets, key)
	return nil
}
