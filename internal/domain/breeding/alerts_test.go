package breeding

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pregnantSow(id string, startDaysAgo int) Animal {
	a := sow(id, "Sow "+id)
	a.IsPregnant = true
	a.PregnancyStartDate = daysAgo(startDaysAgo)
	return a
}

func alertsOfType(alerts []Alert, typ AlertType) []Alert {
	out := make([]Alert, 0)
	for _, a := range alerts {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

func TestGenerateAlerts_PregnancyNoticed(t *testing.T) {
	e := newTestEngine(t)
	a := sow("s1", "Rosa")
	a.IsPregnant = true
	a.PregnancyStartDate = daysAgo(30)

	rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())

	require.Len(t, rep.Alerts, 1)
	assert.Equal(t, Alert{
		Type:    AlertPregnancyNoticed,
		Message: "Rosa (pen-1) - Confirmed pregnant since 2025-05-16",
		Variant: VariantSecondary,
		PigID:   "s1",
		PenID:   "pen-1",
	}, rep.Alerts[0])
}

func TestGenerateAlerts_NestingBoxExcludesNoticed(t *testing.T) {
	e := newTestEngine(t)
	a := pregnantSow("s1", 111)
	a.Name = "Rosa"

	rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())

	require.Len(t, rep.Alerts, 1)
	assert.Equal(t, AlertNestingBoxNeeded, rep.Alerts[0].Type)
	assert.Equal(t, "Rosa (pen-1) - Add nesting box, 111 days since mating", rep.Alerts[0].Message)
	assert.Empty(t, alertsOfType(rep.Alerts, AlertPregnancyNoticed))
}

func TestGenerateAlerts_WindowEdges(t *testing.T) {
	e := newTestEngine(t)

	for _, tc := range []struct {
		days int
		want AlertType
	}{
		{0, AlertPregnancyNoticed},
		{109, AlertPregnancyNoticed},
		{110, AlertNestingBoxNeeded},
		{111, AlertNestingBoxNeeded},
	} {
		rep := e.GenerateAlerts([]Animal{pregnantSow("s1", tc.days)}, testNow, NewNotifiedSet())
		require.Len(t, rep.Alerts, 1, "day %d", tc.days)
		assert.Equal(t, tc.want, rep.Alerts[0].Type, "day %d", tc.days)
	}

	rep := e.GenerateAlerts([]Animal{pregnantSow("s1", 112)}, testNow, NewNotifiedSet())
	assert.Empty(t, rep.Alerts)
}

func TestGenerateAlerts_OverdueIsOneShot(t *testing.T) {
	e := newTestEngine(t)
	a := pregnantSow("s1", 112)
	a.Name = "Rosa"
	a.ExpectedBirthDate = daysAgo(3)

	notified := NewNotifiedSet()
	first := e.GenerateAlerts([]Animal{a}, testNow, notified)

	require.Len(t, first.Alerts, 1)
	assert.Equal(t, AlertBirthExpected, first.Alerts[0].Type)
	assert.Equal(t, VariantDestructive, first.Alerts[0].Variant)
	assert.Equal(t, "Rosa (pen-1) - Expected to give birth overdue by 3 days", first.Alerts[0].Message)

	require.Len(t, first.NewlyOverdue, 1)
	assert.Equal(t, "s1", first.NewlyOverdue[0].ID)
	assert.True(t, first.Notified.Has("s1"))
	assert.Equal(t, 0, notified.Len(), "input set must not change")

	second := e.GenerateAlerts([]Animal{a}, testNow, first.Notified)
	assert.Empty(t, second.NewlyOverdue)
	require.Len(t, second.Alerts, 1)
	assert.Equal(t, first.Alerts[0], second.Alerts[0])
	assert.Equal(t, []string{"s1"}, second.Notified.IDs())
}

func TestGenerateAlerts_OverdueDedupedWithinCall(t *testing.T) {
	e := newTestEngine(t)
	a := pregnantSow("s1", 112)
	a.ExpectedBirthDate = daysAgo(3)

	rep := e.GenerateAlerts([]Animal{a, a}, testNow, NewNotifiedSet())
	assert.Len(t, rep.NewlyOverdue, 1)
	assert.Len(t, rep.Alerts, 2)
}

func TestGenerateAlerts_OverdueOutsideWindowStillNotifies(t *testing.T) {
	e := newTestEngine(t)
	a := pregnantSow("s1", 120)
	a.ExpectedBirthDate = daysAgo(6)

	rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())
	assert.Empty(t, rep.Alerts)
	require.Len(t, rep.NewlyOverdue, 1)
	assert.Equal(t, "s1", rep.NewlyOverdue[0].ID)
}

func TestGenerateAlerts_BirthExpectedMessages(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name        string
		startAgo    int
		expected    time.Time
		wantMessage string
		wantVariant Variant
	}{
		{"today", 114, testNow, "Expected to give birth today", VariantDestructive},
		{"in two days", 112, testNow.Add(days(2)), "Expected to give birth in 2 days", VariantSecondary},
		{"partial day rounds up", 113, testNow.Add(36 * time.Hour), "Expected to give birth in 2 days", VariantSecondary},
		{"overdue", 114, testNow.Add(-days(1)), "Expected to give birth overdue by 1 days", VariantDestructive},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := pregnantSow("s1", tc.startAgo)
			a.ExpectedBirthDate = tc.expected.Format(time.RFC3339)

			rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())
			births := alertsOfType(rep.Alerts, AlertBirthExpected)
			require.Len(t, births, 1)
			assert.Equal(t, "Sow s1 (pen-1) - "+tc.wantMessage, births[0].Message)
			assert.Equal(t, tc.wantVariant, births[0].Variant)
		})
	}
}

func TestGenerateAlerts_NoBirthAlertBeforeWindow(t *testing.T) {
	e := newTestEngine(t)
	a := pregnantSow("s1", 100)
	a.ExpectedBirthDate = testNow.Add(days(14)).Format(time.RFC3339)

	rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())
	require.Len(t, rep.Alerts, 1)
	assert.Equal(t, AlertPregnancyNoticed, rep.Alerts[0].Type)
}

func TestGenerateAlerts_NoBirthAlertOnceBorn(t *testing.T) {
	e := newTestEngine(t)
	a := pregnantSow("s1", 112)
	a.ExpectedBirthDate = daysAgo(3)
	a.ActualBirthDate = daysAgo(1)

	rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())
	assert.Empty(t, alertsOfType(rep.Alerts, AlertBirthExpected))
	assert.Empty(t, rep.NewlyOverdue)
}

func TestGenerateAlerts_FosteringExactDay(t *testing.T) {
	e := newTestEngine(t)

	for _, d := range []int{19, 20, 21} {
		a := sow("s1", "Rosa")
		a.ActualBirthDate = daysAgo(d)
		rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())

		fostering := alertsOfType(rep.Alerts, AlertFosteringNeeded)
		if d == 20 {
			require.Len(t, fostering, 1)
			assert.Equal(t, "Rosa (pen-1) - Consider fostering piglets to other sows", fostering[0].Message)
		} else {
			assert.Empty(t, fostering, "day %d", d)
		}
	}
}

func TestGenerateAlerts_WeaningExactDay(t *testing.T) {
	e := newTestEngine(t)

	for _, d := range []int{41, 42, 43} {
		a := sow("s1", "Rosa")
		a.ActualBirthDate = daysAgo(d)
		rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())

		weaning := alertsOfType(rep.Alerts, AlertWeaning)
		if d == 42 {
			require.Len(t, weaning, 1)
			assert.Equal(t, "Rosa (pen-1) - Wean piglets and move to new pens, remove nesting box", weaning[0].Message)
		} else {
			assert.Empty(t, weaning, "day %d", d)
		}
	}
}

func TestGenerateAlerts_BreedingReady(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name   string
		mutate func(a *Animal)
		want   bool
	}{
		{"never bred", func(a *Animal) {}, true},
		{"weaned a week ago", func(a *Animal) { a.ActualBirthDate = daysAgo(50) }, true},
		{"delay not over", func(a *Animal) { a.ActualBirthDate = daysAgo(49) }, false},
		{"cycle not over", func(a *Animal) { a.PregnancyStartDate = daysAgo(150) }, false},
		{"cycle over", func(a *Animal) { a.PregnancyStartDate = daysAgo(157) }, true},
		{"pregnant", func(a *Animal) { a.IsPregnant = true; a.PregnancyStartDate = daysAgo(10) }, false},
		{"young", func(a *Animal) { a.BirthDate = monthsAgo(3) }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := sow("s1", "Rosa")
			tc.mutate(&a)
			rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())

			ready := alertsOfType(rep.Alerts, AlertBreedingReady)
			if !tc.want {
				assert.Empty(t, ready)
				return
			}
			require.Len(t, ready, 1)
			assert.Equal(t, "Rosa (pen-1) - Ready for next breeding cycle", ready[0].Message)
			assert.Equal(t, VariantOutline, ready[0].Variant)
		})
	}
}

func TestGenerateAlerts_MalesNeverBreedingReady(t *testing.T) {
	e := newTestEngine(t)
	rep := e.GenerateAlerts([]Animal{boar("b1", "Toro")}, testNow, NewNotifiedSet())
	assert.Empty(t, rep.Alerts)
}

func TestGenerateAlerts_SkipsYoungFemales(t *testing.T) {
	e := newTestEngine(t)
	a := pregnantSow("s1", 111)
	a.BirthDate = monthsAgo(3)
	a.ActualBirthDate = daysAgo(20)

	rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())
	assert.Empty(t, rep.Alerts)
	assert.Empty(t, rep.NewlyOverdue)
}

func TestGenerateAlerts_SortsAndTruncates(t *testing.T) {
	e := newTestEngine(t)

	animals := make([]Animal, 0)
	for i := 0; i < 10; i++ {
		animals = append(animals, sow(fmt.Sprintf("ready-%02d", i), "Ready"))
	}
	for i := 0; i < 5; i++ {
		animals = append(animals, pregnantSow(fmt.Sprintf("nest-%02d", i), 111))
	}
	for i := 0; i < 3; i++ {
		a := pregnantSow(fmt.Sprintf("late-%02d", i), 112)
		a.ExpectedBirthDate = daysAgo(3)
		animals = append(animals, a)
	}

	rep := e.GenerateAlerts(animals, testNow, NewNotifiedSet())

	require.Len(t, rep.Alerts, 15)
	for i := 0; i < 3; i++ {
		assert.Equal(t, VariantDestructive, rep.Alerts[i].Variant)
		assert.Equal(t, fmt.Sprintf("late-%02d", i), rep.Alerts[i].PigID)
	}
	for i := 3; i < 8; i++ {
		assert.Equal(t, VariantSecondary, rep.Alerts[i].Variant)
		assert.Equal(t, fmt.Sprintf("nest-%02d", i-3), rep.Alerts[i].PigID)
	}
	for i := 8; i < 15; i++ {
		assert.Equal(t, VariantOutline, rep.Alerts[i].Variant)
		assert.Equal(t, fmt.Sprintf("ready-%02d", i-8), rep.Alerts[i].PigID)
	}
	assert.Len(t, rep.NewlyOverdue, 3)
}

func TestGenerateAlerts_MissingPregnancyStartLooksFresh(t *testing.T) {
	e, logs := newObservedEngine(t)
	a := sow("s1", "Rosa")
	a.IsPregnant = true

	rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())

	require.Len(t, rep.Alerts, 1)
	assert.Equal(t, "Rosa (pen-1) - Confirmed pregnant since 2025-06-15", rep.Alerts[0].Message)
	assert.Equal(t, 1, logs.FilterMessage("pregnant animal without pregnancy_start_date").Len())
}

func TestGenerateAlerts_InvalidExpectedDateFallsBack(t *testing.T) {
	e, logs := newObservedEngine(t)
	a := pregnantSow("s1", 111)
	a.ExpectedBirthDate = "soon"

	rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())

	births := alertsOfType(rep.Alerts, AlertBirthExpected)
	require.Len(t, births, 1)
	assert.Equal(t, "Sow s1 (pen-1) - Expected to give birth in 114 days", births[0].Message)
	assert.Empty(t, rep.NewlyOverdue)

	entries := logs.FilterMessage("invalid date on animal record").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "expected_birth_date", entries[0].ContextMap()["field"])
}

func TestGenerateAlerts_PenShownAsNA(t *testing.T) {
	e := newTestEngine(t)
	a := sow("s1", "Rosa")
	a.PenID = ""

	rep := e.GenerateAlerts([]Animal{a}, testNow, NewNotifiedSet())
	require.Len(t, rep.Alerts, 1)
	assert.Equal(t, "Rosa (N/A) - Ready for next breeding cycle", rep.Alerts[0].Message)
	assert.Empty(t, rep.Alerts[0].PenID)
}

func TestGenerateAlerts_EmptyInput(t *testing.T) {
	e := newTestEngine(t)
	rep := e.GenerateAlerts(nil, testNow, NotifiedSet{})
	assert.NotNil(t, rep.Alerts)
	assert.Empty(t, rep.Alerts)
	assert.Empty(t, rep.NewlyOverdue)
	assert.Equal(t, 0, rep.Notified.Len())
}

func TestNotifiedSet_WithCopies(t *testing.T) {
	base := NewNotifiedSet("a")
	next := base.With("b", "a")

	assert.Equal(t, []string{"a"}, base.IDs())
	assert.Equal(t, []string{"a", "b"}, next.IDs())
	assert.False(t, base.Has("b"))
	assert.True(t, next.Has("b"))
}
