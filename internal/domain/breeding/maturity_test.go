package breeding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMature(t *testing.T) {
	e := newTestEngine(t)
	fourMonths := 4 * DefaultRules().monthLength()

	tests := []struct {
		name       string
		birth      string
		wantMature bool
		wantReason string
	}{
		{"no birth date", "", false, "Birth date not available"},
		{"exactly four months", ago(fourMonths), true, "Pig is mature"},
		{"one day short", ago(fourMonths - 24*time.Hour), false, "Pig is too young (4 months)"},
		{"two months", monthsAgo(2), false, "Pig is too young (2 months)"},
		{"newborn", ago(time.Hour), false, "Pig is too young (0 months)"},
		{"adult", monthsAgo(18), true, "Pig is mature"},
		{"date only layout", "2024-01-01", true, "Pig is mature"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := e.IsMature(Animal{ID: "p1", BirthDate: tc.birth}, testNow)
			assert.Equal(t, tc.wantMature, got.IsMature)
			assert.Equal(t, tc.wantReason, got.Reason)
		})
	}
}

func TestIsMature_InvalidBirthDateFailsClosed(t *testing.T) {
	e, logs := newObservedEngine(t)

	got := e.IsMature(Animal{ID: "p1", BirthDate: "yesterday"}, testNow)
	assert.False(t, got.IsMature)
	assert.Equal(t, "Birth date is invalid", got.Reason)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "p1", entry.ContextMap()["pig_id"])
}

func TestIsMature_FutureBirthDate(t *testing.T) {
	e := newTestEngine(t)
	got := e.IsMature(Animal{BirthDate: testNow.AddDate(0, 0, 10).Format("2006-01-02")}, testNow)
	assert.False(t, got.IsMature)
	assert.Equal(t, "Pig is too young (0 months)", got.Reason)
}
