package alerts

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

type testPigs []pigs.Pig

func (p testPigs) ListActive(_ context.Context, farmID string) ([]pigs.Pig, error) {
	out := make([]pigs.Pig, 0)
	for _, x := range p {
		if x.FarmID == farmID && x.IsActive() {
			out = append(out, x)
		}
	}
	return out, nil
}

type testPens map[string]string

func (p testPens) Names(_ context.Context, _ string) (map[string]string, error) {
	return p, nil
}

type testTracker struct {
	sets map[string]breeding.NotifiedSet
}

func (t *testTracker) Load(_ context.Context, key string) (breeding.NotifiedSet, error) {
	if s, ok := t.sets[key]; ok {
		return s, nil
	}
	return breeding.NewNotifiedSet(), nil
}

func (t *testTracker) Save(_ context.Context, key string, s breeding.NotifiedSet) error {
	t.sets[key] = s
	return nil
}

func (t *testTracker) Reset(_ context.Context, key string) error {
	delete(t.sets, key)
	return nil
}

func daysBefore(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func newTestService(t *testing.T, herd testPigs) (*Service, *testTracker) {
	t.Helper()
	engine, err := breeding.NewEngine(breeding.DefaultRules(), logger.Nop())
	require.NoError(t, err)

	tracker := &testTracker{sets: map[string]breeding.NotifiedSet{}}
	svc := NewService(herd, testPens{"pen-1": "A1"}, engine, tracker, logger.Nop())
	svc.now = func() time.Time { return testNow }
	return svc, tracker
}

func overdueSow() pigs.Pig {
	return pigs.Pig{
		ID:                 "s1",
		FarmID:             "farm-1",
		Name:               "Rosa",
		PenID:              "pen-1",
		Gender:             breeding.GenderFemale,
		BirthDate:          daysBefore(400),
		Status:             pigs.StatusActive,
		IsPregnant:         true,
		PregnancyStartDate: daysBefore(113),
		ExpectedBirthDate:  daysBefore(2),
	}
}

func TestService_Evaluate_PenNamesAndOverdue(t *testing.T) {
	svc, tracker := newTestService(t, testPigs{overdueSow()})
	ctx := context.Background()

	rep, err := svc.Evaluate(ctx, "farm-1", "owner-1")
	require.NoError(t, err)

	require.Len(t, rep.Alerts, 1)
	assert.Equal(t, breeding.AlertBirthExpected, rep.Alerts[0].Type)
	assert.Equal(t, breeding.VariantDestructive, rep.Alerts[0].Variant)
	assert.Equal(t, "Rosa (A1) - Expected to give birth overdue by 2 days", rep.Alerts[0].Message)
	assert.Equal(t, "pen-1", rep.Alerts[0].PenID, "pen id stays machine-readable")

	require.Len(t, rep.NewlyOverdue, 1)
	assert.Equal(t, OverdueBirth{ID: "s1", Name: "Rosa", PenID: "pen-1", ExpectedBirthDate: "2025-06-13"}, rep.NewlyOverdue[0])
	assert.True(t, tracker.sets[SessionKey("owner-1", "farm-1")].Has("s1"))

	// misma sesión: la alerta sigue, el aviso no
	again, err := svc.Evaluate(ctx, "farm-1", "owner-1")
	require.NoError(t, err)
	assert.Len(t, again.Alerts, 1)
	assert.Empty(t, again.NewlyOverdue)

	// otra sesión ve el aviso
	other, err := svc.Evaluate(ctx, "farm-1", "worker-1")
	require.NoError(t, err)
	assert.Len(t, other.NewlyOverdue, 1)

	require.NoError(t, svc.ResetSession(ctx, "farm-1", "owner-1"))
	reset, err := svc.Evaluate(ctx, "farm-1", "owner-1")
	require.NoError(t, err)
	assert.Len(t, reset.NewlyOverdue, 1)
}

func TestService_Evaluate_SkipsInactive(t *testing.T) {
	sold := overdueSow()
	sold.Status = pigs.StatusSold
	svc, tracker := newTestService(t, testPigs{sold})

	rep, err := svc.Evaluate(context.Background(), "farm-1", "owner-1")
	require.NoError(t, err)
	assert.Empty(t, rep.Alerts)
	assert.Empty(t, rep.NewlyOverdue)
	assert.Empty(t, tracker.sets)
}

func TestWithPenName(t *testing.T) {
	names := map[string]string{"p1": "North 3"}

	assert.Equal(t, "Rosa (North 3) - x", withPenName("Rosa (p1) - x", "p1", names))
	assert.Equal(t, "Rosa (p2) - x", withPenName("Rosa (p2) - x", "p2", names), "unknown pen keeps id")
	assert.Equal(t, "Rosa (N/A) - x", withPenName("Rosa (N/A) - x", "", names))
	// solo la primera aparición
	assert.Equal(t, "A (North 3) - B (p1)", withPenName("A (p1) - B (p1)", "p1", names))
}
