package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-farm/internal/domain/pigs"
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

func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type testPigs map[string]string // pigID -> farmID

func (p testPigs) Get(_ context.Context, farmID, pigID string) (pigs.Pig, error) {
	if p[pigID] != farmID {
		return pigs.Pig{}, pigs.ErrNotFound
	}
	return pigs.Pig{ID: pigID, FarmID: farmID}, nil
}

func newTestService() *Service {
	svc := NewService(&testRepo{byID: map[string]Record{}}, testPigs{"p1": "farm-1", "p2": "farm-1", "p3": "farm-1"})
	svc.now = func() time.Time { return testNow }
	return svc
}

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRecord_EffectiveStatus(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want Status
	}{
		{"completed stays completed", Record{Status: StatusCompleted, Date: *at(2025, 1, 1)}, StatusCompleted},
		{"next_due past", Record{Status: StatusPending, Date: *at(2025, 6, 1), NextDue: at(2025, 6, 10)}, StatusOverdue},
		{"next_due future", Record{Status: StatusPending, Date: *at(2025, 6, 1), NextDue: at(2025, 6, 20)}, StatusPending},
		{"no next_due never overdue", Record{Status: StatusPending, Date: *at(2025, 6, 14)}, StatusPending},
		{"scheduled in future", Record{Status: StatusPending, Date: *at(2025, 6, 16)}, StatusPending},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.rec.EffectiveStatus(testNow), tc.name)
	}
}

func TestService_Create(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p1", Type: "surgery", Description: "x"})
	require.ErrorIs(t, err, ErrInvalidInput, "unknown type")
	_, err = svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p1", Type: "checkup"})
	require.ErrorIs(t, err, ErrInvalidInput, "description required")
	_, err = svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p9", Type: "checkup", Description: "x"})
	require.ErrorIs(t, err, ErrInvalidInput, "unknown pig")
	_, err = svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p1", Type: "checkup", Description: "x", Status: "overdue"})
	require.ErrorIs(t, err, ErrInvalidInput, "overdue is derived")
	_, err = svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p1", Type: "checkup", Description: "x", Date: at(2025, 6, 10), NextDue: at(2025, 6, 1)})
	require.ErrorIs(t, err, ErrInvalidInput, "next_due before date")

	rec, err := svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p1", Type: "Vaccination", Description: " Parvovirus "})
	require.NoError(t, err)
	assert.Equal(t, TypeVaccination, rec.Type)
	assert.Equal(t, "Parvovirus", rec.Description)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, testNow, rec.Date)

	done, err := svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p1", Type: "deworming", Description: "x", Status: "completed"})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
}

func TestService_ListCompleteDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	late, err := svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p1", Type: "vaccination", Description: "late", Date: at(2025, 5, 1), NextDue: at(2025, 6, 1)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p2", Type: "checkup", Description: "soon", Date: at(2025, 6, 10), NextDue: at(2025, 6, 17)})
	require.NoError(t, err)

	overdue, err := svc.List(ctx, "farm-1", ListFilter{Status: StatusOverdue})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)

	all, err := svc.List(ctx, "farm-1", ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "soon", all[0].Description, "newest first")

	byPig, err := svc.List(ctx, "farm-1", ListFilter{PigID: "p2"})
	require.NoError(t, err)
	assert.Len(t, byPig, 1)

	done, err := svc.Complete(ctx, "farm-1", late.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	again, err := svc.Complete(ctx, "farm-1", late.ID)
	require.NoError(t, err)
	assert.Equal(t, done.CompletedAt, again.CompletedAt)

	_, err = svc.Complete(ctx, "farm-2", late.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "farm-1", late.ID))
	require.ErrorIs(t, svc.Delete(ctx, "farm-1", late.ID), ErrNotFound)
}

func TestService_Summary(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	mk := func(pig string, due *time.Time, status string) {
		_, err := svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: pig, Type: "treatment", Description: "x", Date: at(2025, 5, 1), NextDue: due, Status: status})
		require.NoError(t, err)
	}
	mk("p1", at(2025, 6, 1), "")          // vencido
	mk("p1", at(2025, 6, 16), "")         // próximo
	mk("p2", at(2025, 6, 17), "")         // próximo
	mk("p3", at(2025, 6, 1), "completed") // ya hecho
	mk("p3", at(2025, 7, 30), "")         // lejos

	sum, err := svc.Summary(ctx, "farm-1")
	require.NoError(t, err)
	require.Len(t, sum, 3)

	assert.Equal(t, PigSummary{PigID: "p1", Status: PigOverdue, Overdue: 1, Upcoming: 1}, sum[0])
	assert.Equal(t, PigSummary{PigID: "p2", Status: PigUpcoming, Upcoming: 1}, sum[1])
	assert.Equal(t, PigSummary{PigID: "p3", Status: PigGood}, sum[2])
}

func TestService_RecordWithoutNextDueStaysPending(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateInput{FarmID: "farm-1", PigID: "p1", Type: "vaccination", Description: "Erisipela"})
	require.NoError(t, err)
	require.Nil(t, rec.NextDue)

	svc.now = func() time.Time { return testNow.Add(time.Minute) }

	items, err := svc.List(ctx, "farm-1", ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusPending, items[0].Status)

	sum, err := svc.Summary(ctx, "farm-1")
	require.NoError(t, err)
	assert.Equal(t, []PigSummary{{PigID: "p1", Status: PigGood}}, sum)
}
