package pens

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pig-farm/internal/ports/capabilities"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pen not found")
	ErrDuplicate    = errors.New("pen name already used")
	ErrRowFull      = errors.New("row is full")
	ErrLimitReached = errors.New("plan limit reached")
	ErrOccupied     = errors.New("pen is occupied")
)

// Occupancy cuenta animales activos en un corral. La implementa pigs.Service;
// se inyecta con SetOccupancy para no importar ese paquete.
type Occupancy interface {
	CountActiveInPen(ctx context.Context, farmID, penID string) (int, error)
}

type Service struct {
	repo      Repository
	occupancy Occupancy
	now       func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) SetOccupancy(o Occupancy) { s.occupancy = o }

type CreateInput struct {
	FarmID   string
	Name     string
	RowName  string
	Capacity int

	// MaxRows del plan del dueño. capabilities.Unlimited = sin tope.
	MaxRows int
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pen, error) {
	farmID := strings.TrimSpace(in.FarmID)
	name := strings.TrimSpace(in.Name)
	row := strings.TrimSpace(in.RowName)
	if farmID == "" || name == "" || row == "" || in.Capacity < 0 {
		return Pen{}, ErrInvalidInput
	}

	existing, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return Pen{}, err
	}

	rows := map[string]int{}
	for _, p := range existing {
		if strings.EqualFold(p.Name, name) {
			return Pen{}, ErrDuplicate
		}
		rows[strings.ToLower(p.RowName)]++
	}

	inRow, rowExists := rows[strings.ToLower(row)]
	if rowExists && inRow >= HutchesPerRow {
		return Pen{}, ErrRowFull
	}
	// Solo una fila nueva consume cupo del plan.
	if !rowExists && !capabilities.Allows(in.MaxRows, len(rows)) {
		return Pen{}, ErrLimitReached
	}

	p := Pen{
		ID:        uuid.NewString(),
		FarmID:    farmID,
		Name:      name,
		RowName:   row,
		Capacity:  in.Capacity,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Pen{}, err
	}
	return p, nil
}

// Get devuelve el corral solo si pertenece a la granja.
func (s *Service) Get(ctx context.Context, farmID, penID string) (Pen, error) {
	penID = strings.TrimSpace(penID)
	if penID == "" {
		return Pen{}, ErrNotFound
	}
	p, err := s.repo.GetByID(ctx, penID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Pen{}, ErrNotFound
		}
		return Pen{}, err
	}
	if p.FarmID != farmID {
		return Pen{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListByFarm(ctx context.Context, farmID string) ([]Pen, error) {
	return s.repo.ListByFarm(ctx, strings.TrimSpace(farmID))
}

// Names arma penID -> nombre para una granja.
func (s *Service) Names(ctx context.Context, farmID string) (map[string]string, error) {
	items, err := s.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, p := range items {
		out[p.ID] = p.Name
	}
	return out, nil
}

// Occupied cuenta animales activos; sin Occupancy configurado devuelve 0.
func (s *Service) Occupied(ctx context.Context, farmID, penID string) (int, error) {
	if s.occupancy == nil {
		return 0, nil
	}
	return s.occupancy.CountActiveInPen(ctx, farmID, penID)
}

func (s *Service) Delete(ctx context.Context, farmID, penID string) error {
	p, err := s.Get(ctx, farmID, penID)
	if err != nil {
		return err
	}
	n, err := s.Occupied(ctx, farmID, p.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrOccupied
	}
	return s.repo.Delete(ctx, p.ID)
}
