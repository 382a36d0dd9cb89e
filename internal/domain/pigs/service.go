package pigs

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/domain/pens"
	"pig-farm/internal/ports/capabilities"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pig not found")
	ErrLimitReached = errors.New("plan limit reached")
	ErrNotActive    = errors.New("pig is not active")
	ErrNotPregnant  = errors.New("sow is not pregnant")
	ErrSamePen      = errors.New("pig is already in that pen")
	ErrPenFull      = errors.New("pen is full")
	ErrPenNotFound  = errors.New("pen not found")
)

// PenLookup resuelve corrales de la granja. Lo implementa pens.Service.
type PenLookup interface {
	Get(ctx context.Context, farmID, penID string) (pens.Pen, error)
}

type Service struct {
	repo   Repository
	pens   PenLookup
	engine *breeding.Engine
	now    func() time.Time
}

func NewService(repo Repository, pens PenLookup, engine *breeding.Engine) *Service {
	return &Service{
		repo:   repo,
		pens:   pens,
		engine: engine,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type CreateInput struct {
	FarmID   string
	FarmName string

	Name      string
	Gender    string
	Breed     string
	Color     string
	Weight    float64
	BirthDate *time.Time
	PenID     string

	ParentMaleID   string
	ParentFemaleID string

	Notes string

	// MaxPigs del plan del dueño. capabilities.Unlimited = sin tope.
	MaxPigs int
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pig, error) {
	farmID := strings.TrimSpace(in.FarmID)
	gender := breeding.Gender(strings.ToLower(strings.TrimSpace(in.Gender)))
	if farmID == "" || in.Weight < 0 {
		return Pig{}, ErrInvalidInput
	}
	if gender != breeding.GenderMale && gender != breeding.GenderFemale {
		return Pig{}, ErrInvalidInput
	}

	now := s.now()
	if in.BirthDate != nil && in.BirthDate.After(now) {
		return Pig{}, ErrInvalidInput
	}

	existing, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return Pig{}, err
	}
	if !capabilities.Allows(in.MaxPigs, countActive(existing)) {
		return Pig{}, ErrLimitReached
	}

	penID := strings.TrimSpace(in.PenID)
	if penID != "" {
		if err := s.checkRoom(ctx, farmID, penID, existing); err != nil {
			return Pig{}, err
		}
	}

	maleID := strings.TrimSpace(in.ParentMaleID)
	femaleID := strings.TrimSpace(in.ParentFemaleID)
	if !validParent(existing, maleID, breeding.GenderMale) || !validParent(existing, femaleID, breeding.GenderFemale) {
		return Pig{}, ErrInvalidInput
	}

	tag := nextTag(tagPrefix(in.FarmName), existing)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = tag
	}

	p := Pig{
		ID:             uuid.NewString(),
		FarmID:         farmID,
		Tag:            tag,
		Name:           name,
		Gender:         gender,
		Breed:          strings.TrimSpace(in.Breed),
		Color:          strings.TrimSpace(in.Color),
		Weight:         in.Weight,
		BirthDate:      in.BirthDate,
		PenID:          penID,
		ParentMaleID:   maleID,
		ParentFemaleID: femaleID,
		Status:         StatusActive,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Pig{}, err
	}
	return p, nil
}

// Get devuelve el animal solo si pertenece a la granja.
func (s *Service) Get(ctx context.Context, farmID, pigID string) (Pig, error) {
	pigID = strings.TrimSpace(pigID)
	if pigID == "" {
		return Pig{}, ErrNotFound
	}
	p, err := s.repo.GetByID(ctx, pigID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Pig{}, ErrNotFound
		}
		return Pig{}, err
	}
	if p.FarmID != farmID {
		return Pig{}, ErrNotFound
	}
	return p, nil
}

type ListFilter struct {
	Status Status          // "" = todos
	Gender breeding.Gender // "" = ambos
}

// List ordena por tag para que la salida sea estable.
func (s *Service) List(ctx context.Context, farmID string, f ListFilter) ([]Pig, error) {
	items, err := s.repo.ListByFarm(ctx, strings.TrimSpace(farmID))
	if err != nil {
		return nil, err
	}
	out := make([]Pig, 0, len(items))
	for _, p := range items {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Gender != "" && p.Gender != f.Gender {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out, nil
}

func (s *Service) ListActive(ctx context.Context, farmID string) ([]Pig, error) {
	return s.List(ctx, farmID, ListFilter{Status: StatusActive})
}

// CountActiveInPen cumple pens.Occupancy.
func (s *Service) CountActiveInPen(ctx context.Context, farmID, penID string) (int, error) {
	items, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return 0, err
	}
	return countInPen(items, penID), nil
}

type UpdateInput struct {
	// nil = no tocar
	Name           *string
	Breed          *string
	Color          *string
	Weight         *float64
	BirthDate      *time.Time
	ParentMaleID   *string
	ParentFemaleID *string
	Notes          *string
}

func (s *Service) Update(ctx context.Context, farmID, pigID string, in UpdateInput) (Pig, error) {
	p, err := s.Get(ctx, farmID, pigID)
	if err != nil {
		return Pig{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pig{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Weight != nil {
		if *in.Weight < 0 {
			return Pig{}, ErrInvalidInput
		}
		p.Weight = *in.Weight
	}
	if in.BirthDate != nil {
		if in.BirthDate.After(s.now()) {
			return Pig{}, ErrInvalidInput
		}
		p.BirthDate = in.BirthDate
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	if in.ParentMaleID != nil || in.ParentFemaleID != nil {
		existing, err := s.repo.ListByFarm(ctx, farmID)
		if err != nil {
			return Pig{}, err
		}
		if in.ParentMaleID != nil {
			id := strings.TrimSpace(*in.ParentMaleID)
			if id == p.ID || !validParent(existing, id, breeding.GenderMale) {
				return Pig{}, ErrInvalidInput
			}
			p.ParentMaleID = id
		}
		if in.ParentFemaleID != nil {
			id := strings.TrimSpace(*in.ParentFemaleID)
			if id == p.ID || !validParent(existing, id, breeding.GenderFemale) {
				return Pig{}, ErrInvalidInput
			}
			p.ParentFemaleID = id
		}
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pig{}, err
	}
	return p, nil
}

type TransferInput struct {
	FarmID   string
	PigID    string
	NewPenID string
	Reason   string
	Notes    string
	UserID   string
}

func (s *Service) Transfer(ctx context.Context, in TransferInput) (Pig, Transfer, error) {
	reason := TransferReason(strings.TrimSpace(in.Reason))
	if _, ok := transferReasons[reason]; !ok {
		return Pig{}, Transfer{}, ErrInvalidInput
	}
	newPen := strings.TrimSpace(in.NewPenID)
	if newPen == "" {
		return Pig{}, Transfer{}, ErrInvalidInput
	}

	p, err := s.Get(ctx, in.FarmID, in.PigID)
	if err != nil {
		return Pig{}, Transfer{}, err
	}
	if !p.IsActive() {
		return Pig{}, Transfer{}, ErrNotActive
	}
	if p.PenID == newPen {
		return Pig{}, Transfer{}, ErrSamePen
	}

	existing, err := s.repo.ListByFarm(ctx, p.FarmID)
	if err != nil {
		return Pig{}, Transfer{}, err
	}
	if err := s.checkRoom(ctx, p.FarmID, newPen, existing); err != nil {
		return Pig{}, Transfer{}, err
	}

	now := s.now()
	t := Transfer{
		ID:            uuid.NewString(),
		FarmID:        p.FarmID,
		PigID:         p.ID,
		FromPenID:     p.PenID,
		ToPenID:       newPen,
		Reason:        reason,
		Notes:         strings.TrimSpace(in.Notes),
		TransferredBy: strings.TrimSpace(in.UserID),
		TransferredAt: now,
	}

	p.PenID = newPen
	p.UpdatedAt = now
	if err := s.repo.Update(ctx, p); err != nil {
		return Pig{}, Transfer{}, err
	}
	if err := s.repo.CreateTransfer(ctx, t); err != nil {
		return Pig{}, Transfer{}, err
	}
	return p, t, nil
}

// Transfers devuelve el historial, el más reciente primero.
func (s *Service) Transfers(ctx context.Context, farmID, pigID string) ([]Transfer, error) {
	p, err := s.Get(ctx, farmID, pigID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListTransfers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].TransferredAt.After(items[j].TransferredAt) })
	return items, nil
}

type RemoveInput struct {
	Status string // sold | removed | dead
	Reason string
	Notes  string
	Date   *time.Time // nil = ahora
}

// Remove da de baja al animal. El corral queda registrado como último conocido.
func (s *Service) Remove(ctx context.Context, farmID, pigID string, in RemoveInput) (Pig, error) {
	status := Status(strings.TrimSpace(in.Status))
	if _, ok := removalStatuses[status]; !ok {
		return Pig{}, ErrInvalidInput
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return Pig{}, ErrInvalidInput
	}

	p, err := s.Get(ctx, farmID, pigID)
	if err != nil {
		return Pig{}, err
	}
	if !p.IsActive() {
		return Pig{}, ErrNotActive
	}

	now := s.now()
	at := now
	if in.Date != nil {
		at = *in.Date
	}

	p.Status = status
	p.RemovalReason = reason
	p.RemovalNotes = strings.TrimSpace(in.Notes)
	p.RemovedAt = &at
	p.IsPregnant = false
	p.UpdatedAt = now

	if err := s.repo.Update(ctx, p); err != nil {
		return Pig{}, err
	}
	return p, nil
}

// StartPregnancy marca a la cerda como preñada desde la fecha de monta.
func (s *Service) StartPregnancy(ctx context.Context, farmID, sowID, boarName string, matingDate time.Time) (Pig, error) {
	p, err := s.Get(ctx, farmID, sowID)
	if err != nil {
		return Pig{}, err
	}
	if !p.IsActive() {
		return Pig{}, ErrNotActive
	}
	if !p.ToAnimal().IsFemale() {
		return Pig{}, ErrInvalidInput
	}

	start := matingDate.UTC()
	expected := s.engine.ExpectedBirthDate(start)

	p.IsPregnant = true
	p.PregnancyStartDate = &start
	p.ExpectedBirthDate = &expected
	p.ActualBirthDate = nil
	p.MatedWith = strings.TrimSpace(boarName)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pig{}, err
	}
	return p, nil
}

// RecordBirth cierra la preñez y acumula la camada.
func (s *Service) RecordBirth(ctx context.Context, farmID, sowID string, birthDate time.Time, litterSize int) (Pig, error) {
	if litterSize < 0 {
		return Pig{}, ErrInvalidInput
	}
	p, err := s.Get(ctx, farmID, sowID)
	if err != nil {
		return Pig{}, err
	}
	if !p.IsPregnant {
		return Pig{}, ErrNotPregnant
	}

	born := birthDate.UTC()
	p.IsPregnant = false
	p.PregnancyStartDate = nil
	p.ExpectedBirthDate = nil
	p.ActualBirthDate = &born
	p.TotalLitters++
	p.TotalPiglets += litterSize
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pig{}, err
	}
	return p, nil
}

// Profile es la vista de detalle: edad y veredicto de madurez.
type Profile struct {
	Pig       Pig
	AgeMonths *float64
	Maturity  breeding.Maturity
}

func (s *Service) Profile(p Pig) Profile {
	a := p.ToAnimal()
	now := s.now()
	out := Profile{Pig: p, Maturity: s.engine.IsMature(a, now)}
	if months, ok := s.engine.AgeInMonths(a, now); ok {
		out.AgeMonths = &months
	}
	return out
}

func (s *Service) checkRoom(ctx context.Context, farmID, penID string, existing []Pig) error {
	pen, err := s.pens.Get(ctx, farmID, penID)
	if err != nil {
		if errors.Is(err, pens.ErrNotFound) {
			return ErrPenNotFound
		}
		return err
	}
	if !pen.HasRoom(countInPen(existing, penID)) {
		return ErrPenFull
	}
	return nil
}

func validParent(existing []Pig, id string, gender breeding.Gender) bool {
	if id == "" {
		return true
	}
	for _, p := range existing {
		if p.ID == id {
			return p.Gender == gender
		}
	}
	return false
}

func countActive(items []Pig) int {
	n := 0
	for _, p := range items {
		if p.IsActive() {
			n++
		}
	}
	return n
}

func countInPen(items []Pig, penID string) int {
	n := 0
	for _, p := range items {
		if p.IsActive() && p.PenID == penID {
			n++
		}
	}
	return n
}
