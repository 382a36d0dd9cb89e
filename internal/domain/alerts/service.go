package alerts

import (
	"context"
	"strings"
	"sync"
	"time"

	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/domain/pigs"
	"pig-farm/internal/platform/logger"
	"pig-farm/internal/platform/metrics"
)

// PigLister lo implementa pigs.Service.
type PigLister interface {
	ListActive(ctx context.Context, farmID string) ([]pigs.Pig, error)
}

// PenNamer lo implementa pens.Service.
type PenNamer interface {
	Names(ctx context.Context, farmID string) (map[string]string, error)
}

type Service struct {
	pigs    PigLister
	pens    PenNamer
	engine  *breeding.Engine
	tracker NotificationTracker
	log     logger.Logger
	now     func() time.Time

	// serializa Load/Save del tracker para que dos pedidos simultáneos
	// no avisen el mismo parto dos veces
	mu sync.Mutex
}

func NewService(pigLister PigLister, pens PenNamer, engine *breeding.Engine, tracker NotificationTracker, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		pigs:    pigLister,
		pens:    pens,
		engine:  engine,
		tracker: tracker,
		log:     log.With(map[string]any{"module": "alerts"}),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type OverdueBirth struct {
	ID                string
	Name              string
	PenID             string
	ExpectedBirthDate string
}

type Report struct {
	Alerts       []breeding.Alert
	NewlyOverdue []OverdueBirth
}

// Evaluate corre el motor sobre los animales activos de la granja y
// actualiza el set de avisos de la sesión.
func (s *Service) Evaluate(ctx context.Context, farmID, userID string) (Report, error) {
	items, err := s.pigs.ListActive(ctx, farmID)
	if err != nil {
		return Report{}, err
	}
	animals := make([]breeding.Animal, 0, len(items))
	for _, p := range items {
		animals = append(animals, p.ToAnimal())
	}

	names, err := s.pens.Names(ctx, farmID)
	if err != nil {
		return Report{}, err
	}

	key := SessionKey(userID, farmID)

	s.mu.Lock()
	defer s.mu.Unlock()

	notified, err := s.tracker.Load(ctx, key)
	if err != nil {
		return Report{}, err
	}

	res := s.engine.GenerateAlerts(animals, s.now(), notified)

	if len(res.NewlyOverdue) > 0 {
		if err := s.tracker.Save(ctx, key, res.Notified); err != nil {
			return Report{}, err
		}
		metrics.OverdueNotified(len(res.NewlyOverdue))
		s.log.Info("overdue births notified", map[string]any{
			"farm_id": farmID,
			"user_id": userID,
			"count":   len(res.NewlyOverdue),
		})
	}

	out := Report{
		Alerts:       make([]breeding.Alert, 0, len(res.Alerts)),
		NewlyOverdue: make([]OverdueBirth, 0, len(res.NewlyOverdue)),
	}
	for _, a := range res.Alerts {
		a.Message = withPenName(a.Message, a.PenID, names)
		metrics.AlertGenerated(string(a.Type), string(a.Variant))
		out.Alerts = append(out.Alerts, a)
	}
	for _, a := range res.NewlyOverdue {
		out.NewlyOverdue = append(out.NewlyOverdue, OverdueBirth{
			ID:                a.ID,
			Name:              a.Name,
			PenID:             a.PenID,
			ExpectedBirthDate: a.ExpectedBirthDate,
		})
	}
	return out, nil
}

// ResetSession olvida los avisos de la sesión; el próximo Evaluate vuelve a
// reportar todos los partos atrasados.
func (s *Service) ResetSession(ctx context.Context, farmID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Reset(ctx, SessionKey(userID, farmID))
}

// withPenName cambia "(penID)" por "(nombre)" en el mensaje.
func withPenName(msg, penID string, names map[string]string) string {
	if penID == "" {
		return msg
	}
	name, ok := names[penID]
	if !ok || name == "" {
		return msg
	}
	return strings.Replace(msg, "("+penID+")", "("+name+")", 1)
}
