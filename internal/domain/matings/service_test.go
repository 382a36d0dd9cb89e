package matings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/domain/pigs"
	"pig-farm/internal/platform/logger"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type testRepo struct {
	byID map[string]Record
}

func (r *testRepo) Create(_ context.Context, rec Record) error {
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRepo) Update(_ context.Context, rec Record) error {
	if _, ok := r.byID[rec.ID]; !ok {
		return ErrNotFound
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Record, error) {
	rec, ok := r.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *testRepo) ListByFarm(_ context.Context, farmID string) ([]Record, error) {
	out := make([]Record, 0)
	for _, rec := range r.byID {
		if rec.FarmID == farmID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// testPigs replica lo mínimo de pigs.Service.
type testPigs struct {
	byID map[string]pigs.Pig
}

func (s *testPigs) Get(_ context.Context, farmID, id string) (pigs.Pig, error) {
	p, ok := s.byID[id]
	if !ok || p.FarmID != farmID {
		return pigs.Pig{}, pigs.ErrNotFound
	}
	return p, nil
}

func (s *testPigs) StartPregnancy(ctx context.Context, farmID, sowID, boarName string, at time.Time) (pigs.Pig, error) {
	p, err := s.Get(ctx, farmID, sowID)
	if err != nil {
		return pigs.Pig{}, err
	}
	p.IsPregnant = true
	p.PregnancyStartDate = &at
	p.MatedWith = boarName
	s.byID[p.ID] = p
	return p, nil
}

func (s *testPigs) RecordBirth(ctx context.Context, farmID, sowID string, at time.Time, litter int) (pigs.Pig, error) {
	p, err := s.Get(ctx, farmID, sowID)
	if err != nil {
		return pigs.Pig{}, err
	}
	if !p.IsPregnant {
		return pigs.Pig{}, pigs.ErrNotPregnant
	}
	p.IsPregnant = false
	p.ActualBirthDate = &at
	p.TotalLitters++
	p.TotalPiglets += litter
	s.byID[p.ID] = p
	return p, nil
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestService(t *testing.T) (*Service, *testPigs) {
	t.Helper()
	engine, err := breeding.NewEngine(breeding.DefaultRules(), logger.Nop())
	require.NoError(t, err)

	adult := day(2024, 6, 1)
	store := &testPigs{byID: map[string]pigs.Pig{
		"sow":      {ID: "sow", FarmID: "farm-1", Name: "Rosa", Gender: breeding.GenderFemale, BirthDate: adult, Status: pigs.StatusActive, PenID: "A1"},
		"boar":     {ID: "boar", FarmID: "farm-1", Name: "Bruno", Gender: breeding.GenderMale, BirthDate: adult, Status: pigs.StatusActive},
		"son":      {ID: "son", FarmID: "farm-1", Name: "Tito", Gender: breeding.GenderMale, BirthDate: adult, Status: pigs.StatusActive, ParentFemaleID: "sow"},
		"young":    {ID: "young", FarmID: "farm-1", Name: "Lulu", Gender: breeding.GenderFemale, BirthDate: day(2025, 5, 1), Status: pigs.StatusActive, PenID: "B2"},
		"sold":     {ID: "sold", FarmID: "farm-1", Name: "Max", Gender: breeding.GenderMale, BirthDate: adult, Status: pigs.StatusSold},
		"neighbor": {ID: "neighbor", FarmID: "farm-2", Name: "Otro", Gender: breeding.GenderMale, BirthDate: adult, Status: pigs.StatusActive},
	}}

	svc := NewService(&testRepo{byID: map[string]Record{}}, store, engine, logger.Nop())
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func TestService_CheckCompatibility(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		sow, boar  string
		compatible bool
		reason     string
	}{
		{"ok", "sow", "boar", true, "Compatible for breeding"},
		{"missing sow", "nope", "boar", false, "Invalid selection"},
		{"swapped genders", "boar", "sow", false, "Invalid selection"},
		{"inactive boar", "sow", "sold", false, "Invalid selection"},
		{"other farm", "sow", "neighbor", false, "Invalid selection"},
		{"young sow", "young", "boar", false, "Sow Lulu (B2): Pig is too young (1 months)"},
		{"mother and son", "sow", "son", false, "Potential inbreeding detected"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.CheckCompatibility(ctx, "farm-1", tc.sow, tc.boar)
			require.NoError(t, err)
			assert.Equal(t, tc.compatible, res.Compatible)
			assert.Equal(t, tc.reason, res.Reason)
		})
	}
}

func TestService_Schedule(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Schedule(ctx, ScheduleInput{FarmID: "farm-1", SowID: "sow", BoarID: "son"})
	require.ErrorIs(t, err, ErrIncompatible)
	assert.Equal(t, "Potential inbreeding detected", err.Error())

	_, err = svc.Schedule(ctx, ScheduleInput{FarmID: "farm-1", SowID: "sow", BoarID: "boar", MatingDate: day(2025, 7, 1)})
	require.ErrorIs(t, err, ErrInvalidInput, "future mating date")

	rec, err := svc.Schedule(ctx, ScheduleInput{FarmID: "farm-1", SowID: "sow", BoarID: "boar", MatingDate: day(2025, 6, 1), Notes: " first ", UserID: "owner-1"})
	require.NoError(t, err)
	assert.Equal(t, "Rosa", rec.SowName)
	assert.Equal(t, "Bruno", rec.BoarName)
	assert.Equal(t, "2025-09-23", breeding.FormatDate(rec.ExpectedBirthDate))
	assert.Equal(t, "first", rec.Notes)

	sow := store.byID["sow"]
	assert.True(t, sow.IsPregnant)
	assert.Equal(t, "Bruno", sow.MatedWith)

	// una cerda preñada ya no es compatible
	_, err = svc.Schedule(ctx, ScheduleInput{FarmID: "farm-1", SowID: "sow", BoarID: "boar"})
	require.ErrorIs(t, err, ErrIncompatible)
	assert.Equal(t, "Sow is currently pregnant", err.Error())
}

func TestService_ListAndBirth(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Schedule(ctx, ScheduleInput{FarmID: "farm-1", SowID: "sow", BoarID: "boar", MatingDate: day(2025, 2, 1)})
	require.NoError(t, err)

	items, err := svc.List(ctx, "farm-1", "")
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = svc.List(ctx, "farm-1", "young")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.RecordBirth(ctx, "farm-1", rec.ID, BirthInput{Date: day(2025, 1, 1), LitterSize: 8})
	require.ErrorIs(t, err, ErrInvalidInput, "birth before mating")

	_, err = svc.RecordBirth(ctx, "farm-2", rec.ID, BirthInput{LitterSize: 8})
	require.ErrorIs(t, err, ErrNotFound)

	done, err := svc.RecordBirth(ctx, "farm-1", rec.ID, BirthInput{Date: day(2025, 5, 25), LitterSize: 11})
	require.NoError(t, err)
	require.NotNil(t, done.LitterSize)
	assert.Equal(t, 11, *done.LitterSize)
	assert.True(t, done.BirthRecorded())

	sow := store.byID["sow"]
	assert.False(t, sow.IsPregnant)
	assert.Equal(t, 1, sow.TotalLitters)
	assert.Equal(t, 11, sow.TotalPiglets)

	_, err = svc.RecordBirth(ctx, "farm-1", rec.ID, BirthInput{LitterSize: 3})
	require.ErrorIs(t, err, ErrAlreadyRecorded)
}
