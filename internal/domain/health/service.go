package health

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pig-farm/internal/domain/pigs"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("health record not found")
)

// PigLookup lo implementa pigs.Service.
type PigLookup interface {
	Get(ctx context.Context, farmID, pigID string) (pigs.Pig, error)
}

type Service struct {
	repo Repository
	pigs PigLookup
	now  func() time.Time
}

func NewService(repo Repository, pigLookup PigLookup) *Service {
	return &Service{
		repo: repo,
		pigs: pigLookup,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type CreateInput struct {
	FarmID       string
	PigID        string
	Type         string
	Description  string
	Date         *time.Time // nil = hoy
	NextDue      *time.Time
	Status       string // "" = pending
	Veterinarian string
	Notes        string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	farmID := strings.TrimSpace(in.FarmID)
	typ := Type(strings.ToLower(strings.TrimSpace(in.Type)))
	desc := strings.TrimSpace(in.Description)
	if farmID == "" || desc == "" {
		return Record{}, ErrInvalidInput
	}
	if _, ok := allTypes[typ]; !ok {
		return Record{}, ErrInvalidInput
	}

	status := Status(strings.TrimSpace(in.Status))
	switch status {
	case "":
		status = StatusPending
	case StatusPending, StatusCompleted:
	default:
		return Record{}, ErrInvalidInput
	}

	p, err := s.pigs.Get(ctx, farmID, strings.TrimSpace(in.PigID))
	if err != nil {
		if errors.Is(err, pigs.ErrNotFound) {
			return Record{}, ErrInvalidInput
		}
		return Record{}, err
	}

	now := s.now()
	date := now
	if in.Date != nil {
		date = in.Date.UTC()
	}
	if in.NextDue != nil && in.NextDue.Before(date) {
		return Record{}, ErrInvalidInput
	}

	r := Record{
		ID:           uuid.NewString(),
		FarmID:       farmID,
		PigID:        p.ID,
		Type:         typ,
		Description:  desc,
		Date:         date,
		NextDue:      in.NextDue,
		Status:       status,
		Veterinarian: strings.TrimSpace(in.Veterinarian),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == StatusCompleted {
		r.CompletedAt = &now
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

type ListFilter struct {
	PigID  string
	Status Status // se compara contra el estado derivado
}

// List devuelve los registros con Status ya derivado, más recientes primero.
func (s *Service) List(ctx context.Context, farmID string, f ListFilter) ([]Record, error) {
	items, err := s.repo.ListByFarm(ctx, strings.TrimSpace(farmID))
	if err != nil {
		return nil, err
	}
	now := s.now()
	pigID := strings.TrimSpace(f.PigID)

	out := make([]Record, 0, len(items))
	for _, r := range items {
		r.Status = r.EffectiveStatus(now)
		if pigID != "" && r.PigID != pigID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Service) get(ctx context.Context, farmID, id string) (Record, error) {
	r, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if r.FarmID != farmID {
		return Record{}, ErrNotFound
	}
	return r, nil
}

// Complete es idempotente.
func (s *Service) Complete(ctx context.Context, farmID, id string) (Record, error) {
	r, err := s.get(ctx, farmID, id)
	if err != nil {
		return Record{}, err
	}
	if r.Status == StatusCompleted {
		return r, nil
	}

	now := s.now()
	r.Status = StatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now
	if err := s.repo.Update(ctx, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, farmID, id string) error {
	r, err := s.get(ctx, farmID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, r.ID)
}

// Summary agrupa por animal: overdue si tiene algo vencido, upcoming si algo
// vence dentro de UpcomingWindow, good en otro caso. Solo incluye animales
// con registros.
func (s *Service) Summary(ctx context.Context, farmID string) ([]PigSummary, error) {
	items, err := s.repo.ListByFarm(ctx, strings.TrimSpace(farmID))
	if err != nil {
		return nil, err
	}
	now := s.now()

	byPig := map[string]*PigSummary{}
	order := make([]string, 0)
	for _, r := range items {
		sum, ok := byPig[r.PigID]
		if !ok {
			sum = &PigSummary{PigID: r.PigID, Status: PigGood}
			byPig[r.PigID] = sum
			order = append(order, r.PigID)
		}
		switch r.EffectiveStatus(now) {
		case StatusOverdue:
			sum.Overdue++
		case StatusPending:
			if due, ok := r.Due(); ok && !due.After(now.Add(UpcomingWindow)) {
				sum.Upcoming++
			}
		}
	}

	sort.Strings(order)
	out := make([]PigSummary, 0, len(order))
	for _, id := range order {
		sum := byPig[id]
		switch {
		case sum.Overdue > 0:
			sum.Status = PigOverdue
		case sum.Upcoming > 0:
			sum.Status = PigUpcoming
		}
		out = append(out, *sum)
	}
	return out, nil
}
