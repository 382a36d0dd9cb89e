package farms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("farm not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type CreateInput struct {
	Name     string
	Location string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Farm, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	name := strings.TrimSpace(in.Name)
	if ownerUserID == "" || name == "" {
		return Farm{}, ErrInvalidInput
	}

	now := s.now()
	f := Farm{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Location:    strings.TrimSpace(in.Location),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return Farm{}, err
	}
	return f, nil
}

type UpdateInput struct {
	// nil = no tocar
	Name     *string
	Location *string
}

func (s *Service) Update(ctx context.Context, farmID string, in UpdateInput) (Farm, error) {
	f, err := s.GetByID(ctx, farmID)
	if err != nil {
		return Farm{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Farm{}, ErrInvalidInput
		}
		f.Name = name
	}
	if in.Location != nil {
		f.Location = strings.TrimSpace(*in.Location)
	}
	f.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, f); err != nil {
		return Farm{}, err
	}
	return f, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Farm, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Farm{}, ErrNotFound
	}
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Farm{}, ErrNotFound
		}
		return Farm{}, err
	}
	return f, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Farm, error) {
	return s.repo.ListByOwner(ctx, strings.TrimSpace(ownerUserID))
}

// OwnerOf expone el dueño; lo usa accessgrants sin importar este paquete.
func (s *Service) OwnerOf(ctx context.Context, farmID string) (string, error) {
	f, err := s.GetByID(ctx, farmID)
	if err != nil {
		return "", err
	}
	return f.OwnerUserID, nil
}
