package matings

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/domain/pigs"
	"pig-farm/internal/platform/logger"
	"pig-farm/internal/platform/metrics"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("breeding record not found")
	ErrIncompatible    = errors.New("incompatible pair")
	ErrAlreadyRecorded = errors.New("birth already recorded")
)

// IncompatibleError lleva el motivo que devolvió el motor.
type IncompatibleError struct {
	Reason string
}

func (e *IncompatibleError) Error() string { return e.Reason }

func (e *IncompatibleError) Is(target error) bool { return target == ErrIncompatible }

// PigStore es lo que este módulo necesita de pigs.Service.
type PigStore interface {
	Get(ctx context.Context, farmID, pigID string) (pigs.Pig, error)
	StartPregnancy(ctx context.Context, farmID, sowID, boarName string, matingDate time.Time) (pigs.Pig, error)
	RecordBirth(ctx context.Context, farmID, sowID string, birthDate time.Time, litterSize int) (pigs.Pig, error)
}

type Service struct {
	repo   Repository
	pigs   PigStore
	engine *breeding.Engine
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, pigStore PigStore, engine *breeding.Engine, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		pigs:   pigStore,
		engine: engine,
		log:    log.With(map[string]any{"module": "matings"}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CheckCompatibility resuelve la pareja y consulta al motor. Un animal
// inexistente, dado de baja o con el sexo equivocado cuenta como selección
// inválida.
func (s *Service) CheckCompatibility(ctx context.Context, farmID, sowID, boarID string) (breeding.Compatibility, error) {
	sow, err := s.pick(ctx, farmID, sowID, breeding.GenderFemale)
	if err != nil {
		return breeding.Compatibility{}, err
	}
	boar, err := s.pick(ctx, farmID, boarID, breeding.GenderMale)
	if err != nil {
		return breeding.Compatibility{}, err
	}

	res := s.engine.CheckCompatibility(sow, boar, s.now())
	metrics.CompatibilityChecked(res.Compatible)
	return res, nil
}

type ScheduleInput struct {
	FarmID     string
	SowID      string
	BoarID     string
	MatingDate *time.Time // nil = hoy
	Notes      string
	UserID     string
}

// Schedule registra la monta y deja a la cerda preñada.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (Record, error) {
	farmID := strings.TrimSpace(in.FarmID)
	sowID := strings.TrimSpace(in.SowID)
	boarID := strings.TrimSpace(in.BoarID)
	if farmID == "" || sowID == "" || boarID == "" {
		return Record{}, ErrInvalidInput
	}

	now := s.now()
	mating := now
	if in.MatingDate != nil {
		mating = in.MatingDate.UTC()
	}
	if mating.After(now) {
		return Record{}, ErrInvalidInput
	}

	res, err := s.CheckCompatibility(ctx, farmID, sowID, boarID)
	if err != nil {
		return Record{}, err
	}
	if !res.Compatible {
		return Record{}, &IncompatibleError{Reason: res.Reason}
	}

	boar, err := s.pigs.Get(ctx, farmID, boarID)
	if err != nil {
		return Record{}, err
	}
	sow, err := s.pigs.StartPregnancy(ctx, farmID, sowID, boar.Name, mating)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:                uuid.NewString(),
		FarmID:            farmID,
		SowID:             sow.ID,
		BoarID:            boar.ID,
		SowName:           sow.Name,
		BoarName:          boar.Name,
		MatingDate:        mating,
		ExpectedBirthDate: s.engine.ExpectedBirthDate(mating),
		Notes:             strings.TrimSpace(in.Notes),
		CreatedBy:         strings.TrimSpace(in.UserID),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, err
	}

	s.log.Info("mating recorded", map[string]any{
		"farm_id":  farmID,
		"sow_id":   sow.ID,
		"boar_id":  boar.ID,
		"expected": breeding.FormatDate(rec.ExpectedBirthDate),
	})
	return rec, nil
}

// List devuelve los registros de la granja, la monta más reciente primero.
// sowID vacío = todas las cerdas.
func (s *Service) List(ctx context.Context, farmID, sowID string) ([]Record, error) {
	items, err := s.repo.ListByFarm(ctx, strings.TrimSpace(farmID))
	if err != nil {
		return nil, err
	}
	sowID = strings.TrimSpace(sowID)

	out := make([]Record, 0, len(items))
	for _, r := range items {
		if sowID != "" && r.SowID != sowID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatingDate.After(out[j].MatingDate) })
	return out, nil
}

func (s *Service) Get(ctx context.Context, farmID, recordID string) (Record, error) {
	rec, err := s.repo.GetByID(ctx, strings.TrimSpace(recordID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if rec.FarmID != farmID {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

type BirthInput struct {
	Date       *time.Time // nil = hoy
	LitterSize int
}

// RecordBirth guarda el parto en el registro y en la ficha de la cerda.
func (s *Service) RecordBirth(ctx context.Context, farmID, recordID string, in BirthInput) (Record, error) {
	if in.LitterSize < 0 {
		return Record{}, ErrInvalidInput
	}
	rec, err := s.Get(ctx, farmID, recordID)
	if err != nil {
		return Record{}, err
	}
	if rec.BirthRecorded() {
		return Record{}, ErrAlreadyRecorded
	}

	now := s.now()
	born := now
	if in.Date != nil {
		born = in.Date.UTC()
	}
	if born.Before(rec.MatingDate) || born.After(now) {
		return Record{}, ErrInvalidInput
	}

	if _, err := s.pigs.RecordBirth(ctx, farmID, rec.SowID, born, in.LitterSize); err != nil {
		return Record{}, err
	}

	size := in.LitterSize
	rec.ActualBirthDate = &born
	rec.LitterSize = &size
	rec.UpdatedAt = now
	if err := s.repo.Update(ctx, rec); err != nil {
		return Record{}, err
	}

	s.log.Info("birth recorded", map[string]any{
		"farm_id":     farmID,
		"sow_id":      rec.SowID,
		"litter_size": size,
	})
	return rec, nil
}

func (s *Service) pick(ctx context.Context, farmID, pigID string, gender breeding.Gender) (*breeding.Animal, error) {
	p, err := s.pigs.Get(ctx, farmID, strings.TrimSpace(pigID))
	if err != nil {
		if errors.Is(err, pigs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !p.IsActive() || p.Gender != gender {
		return nil, nil
	}
	a := p.ToAnimal()
	return &a, nil
}
