package breeding

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pig-farm/internal/platform/logger"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultRules(), nil)
	require.NoError(t, err)
	return e
}

func newObservedEngine(t *testing.T) (*Engine, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	e, err := NewEngine(DefaultRules(), logger.FromZap(zap.New(core)))
	require.NoError(t, err)
	return e, logs
}

func ago(d time.Duration) string {
	return testNow.Add(-d).Format(time.RFC3339)
}

func daysAgo(n int) string { return ago(days(n)) }

func monthsAgo(n int) string {
	return ago(time.Duration(n) * DefaultRules().monthLength())
}

func sow(id, name string) Animal {
	return Animal{ID: id, Name: name, PenID: "pen-1", Gender: GenderFemale, BirthDate: monthsAgo(12)}
}

func boar(id, name string) Animal {
	return Animal{ID: id, Name: name, PenID: "pen-2", Gender: GenderMale, BirthDate: monthsAgo(12)}
}

func TestNewEngine_RejectsInvalidRules(t *testing.T) {
	cases := map[string]func(r *Rules){
		"zero gestation":       func(r *Rules) { r.GestationDays = 0 },
		"negative month":       func(r *Rules) { r.DaysPerMonth = -1 },
		"nesting window empty": func(r *Rules) { r.NestingBoxEndDays = r.NestingBoxStartDays },
		"nesting after birth":  func(r *Rules) { r.NestingBoxEndDays = r.GestationDays + 1 },
		"negative delay":       func(r *Rules) { r.PostWeaningBreedingDelayDays = -1 },
		"no alerts allowed":    func(r *Rules) { r.MaxAlerts = 0 },
		"zero maturity age":    func(r *Rules) { r.MinBreedingAgeMonths = 0 },
		"zero fostering day":   func(r *Rules) { r.FosteringDay = 0 },
		"zero weaning period":  func(r *Rules) { r.WeaningDays = 0 },
		"zero nesting start":   func(r *Rules) { r.NestingBoxStartDays = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := DefaultRules()
			mutate(&r)
			_, err := NewEngine(r, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRules))
		})
	}
}

func TestDefaultRules_AreValid(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())
}

func TestAgeInMonths(t *testing.T) {
	e := newTestEngine(t)

	months, ok := e.AgeInMonths(Animal{BirthDate: monthsAgo(6)}, testNow)
	require.True(t, ok)
	assert.InDelta(t, 6.0, months, 1e-9)

	_, ok = e.AgeInMonths(Animal{}, testNow)
	assert.False(t, ok)

	_, ok = e.AgeInMonths(Animal{BirthDate: "not-a-date"}, testNow)
	assert.False(t, ok)
}

func TestDaysSince(t *testing.T) {
	e := newTestEngine(t)

	d, ok := e.DaysSince(daysAgo(20), testNow)
	require.True(t, ok)
	assert.Equal(t, 20, d)

	// 20 días y medio siguen siendo 20
	d, ok = e.DaysSince(ago(days(20)+12*time.Hour), testNow)
	require.True(t, ok)
	assert.Equal(t, 20, d)

	_, ok = e.DaysSince("", testNow)
	assert.False(t, ok)
}

func TestExpectedBirthDate(t *testing.T) {
	e := newTestEngine(t)
	mating := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC), e.ExpectedBirthDate(mating))
}

func TestParseDate_Layouts(t *testing.T) {
	for _, raw := range []string{
		"2025-06-15",
		"2025-06-15T08:30:00Z",
		"2025-06-15T08:30:00.123Z",
		"2025-06-15T08:30:00",
		"2025-06-15 08:30:00",
		"2025-06-15T08:30:00-03:00",
	} {
		got, ok, err := ParseDate(raw)
		require.NoError(t, err, raw)
		require.True(t, ok, raw)
		assert.Equal(t, 2025, got.Year(), raw)
	}

	_, ok, err := ParseDate("  ")
	assert.False(t, ok)
	assert.NoError(t, err)

	_, ok, err = ParseDate("15/06/2025")
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 4, roundHalfUp(3.5))
	assert.Equal(t, 3, roundHalfUp(3.49))
	assert.Equal(t, -1, roundHalfUp(-1.5))
	assert.Equal(t, 0, roundHalfUp(-0.4))
}
