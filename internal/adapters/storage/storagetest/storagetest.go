// Package storagetest tiene los casos que todo adaptador de storage debe pasar.
// Cada adaptador los corre contra su propia implementación.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-farm/internal/domain/accessgrants"
	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/domain/farms"
	"pig-farm/internal/domain/health"
	"pig-farm/internal/domain/matings"
	"pig-farm/internal/domain/pens"
	"pig-farm/internal/domain/pigs"
)

// Repos agrupa los repositorios de un adaptador.
type Repos struct {
	Farms   farms.Repository
	Grants  accessgrants.Repository
	Pens    pens.Repository
	Pigs    pigs.Repository
	Matings matings.Repository
	Health  health.Repository
}

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func day(n int) *time.Time {
	t := base.AddDate(0, 0, n)
	return &t
}

// Run corre todos los casos; newRepos debe devolver storage vacío.
func Run(t *testing.T, newRepos func(t *testing.T) Repos) {
	t.Run("farms", func(t *testing.T) { testFarms(t, newRepos(t).Farms) })
	t.Run("grants", func(t *testing.T) { testGrants(t, newRepos(t).Grants) })
	t.Run("pens", func(t *testing.T) { testPens(t, newRepos(t).Pens) })
	t.Run("pigs", func(t *testing.T) { testPigs(t, newRepos(t).Pigs) })
	t.Run("matings", func(t *testing.T) { testMatings(t, newRepos(t).Matings) })
	t.Run("health", func(t *testing.T) { testHealth(t, newRepos(t).Health) })
}

func testFarms(t *testing.T, repo farms.Repository) {
	ctx := context.Background()

	f := farms.Farm{ID: "f1", OwnerUserID: "u1", Name: "La Esperanza", Location: "Valle", CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repo.Create(ctx, f))
	require.NoError(t, repo.Create(ctx, farms.Farm{ID: "f2", OwnerUserID: "u2", Name: "Otra", CreatedAt: base, UpdatedAt: base}))

	got, err := repo.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, f, got)

	f.Name = "El Porvenir"
	f.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, f))
	got, _ = repo.GetByID(ctx, "f1")
	assert.Equal(t, "El Porvenir", got.Name)
	assert.Equal(t, base.Add(time.Hour), got.UpdatedAt)

	mine, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "f1", mine[0].ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, farms.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, farms.Farm{ID: "missing"}), farms.ErrNotFound)
}

func testGrants(t *testing.T, repo accessgrants.Repository) {
	ctx := context.Background()

	g := accessgrants.Grant{
		ID:            "g1",
		FarmID:        "f1",
		OwnerUserID:   "u1",
		GranteeUserID: "w1",
		Scopes:        []accessgrants.Scope{accessgrants.ScopeFarmRead, accessgrants.ScopePigsWrite},
		Status:        accessgrants.StatusInvited,
		CreatedAt:     base,
		UpdatedAt:     base,
	}
	require.NoError(t, repo.Create(ctx, g))

	got, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, g, got)

	_, err = repo.GetActiveGrant(ctx, "f1", "w1")
	assert.ErrorIs(t, err, accessgrants.ErrNotFound)

	g.Status = accessgrants.StatusActive
	g.UpdatedAt = base.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, g))

	active, err := repo.GetActiveGrant(ctx, "f1", "w1")
	require.NoError(t, err)
	assert.Equal(t, "g1", active.ID)

	byFarm, err := repo.ListByFarm(ctx, "f1")
	require.NoError(t, err)
	assert.Len(t, byFarm, 1)

	byGrantee, err := repo.ListByGrantee(ctx, "w1")
	require.NoError(t, err)
	assert.Len(t, byGrantee, 1)

	revokedAt := base.Add(2 * time.Minute)
	g.Status = accessgrants.StatusRevoked
	g.RevokedAt = &revokedAt
	require.NoError(t, repo.Update(ctx, g))
	got, _ = repo.GetByID(ctx, "g1")
	require.NotNil(t, got.RevokedAt)
	assert.Equal(t, revokedAt, *got.RevokedAt)

	assert.ErrorIs(t, repo.Update(ctx, accessgrants.Grant{ID: "missing"}), accessgrants.ErrNotFound)
}

func testPens(t *testing.T, repo pens.Repository) {
	ctx := context.Background()

	for _, p := range []pens.Pen{
		{ID: "p2", FarmID: "f1", Name: "B1", RowName: "B", CreatedAt: base},
		{ID: "p1", FarmID: "f1", Name: "A1", RowName: "A", Capacity: 4, CreatedAt: base},
		{ID: "p3", FarmID: "f2", Name: "A1", RowName: "A", CreatedAt: base},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Capacity)

	list, err := repo.ListByFarm(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A1", list[0].Name)
	assert.Equal(t, "B1", list[1].Name)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, pens.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), pens.ErrNotFound)
}

func testPigs(t *testing.T, repo pigs.Repository) {
	ctx := context.Background()

	sow := pigs.Pig{
		ID:        "s1",
		FarmID:    "f1",
		Tag:       "LE-001",
		Name:      "Rosa",
		Gender:    breeding.GenderFemale,
		Breed:     "Landrace",
		Weight:    120.5,
		BirthDate: day(-400),
		PenID:     "p1",
		Status:    pigs.StatusActive,
		CreatedAt: base,
		UpdatedAt: base,
	}
	require.NoError(t, repo.Create(ctx, sow))
	require.NoError(t, repo.Create(ctx, pigs.Pig{ID: "b1", FarmID: "f1", Tag: "LE-002", Name: "Toro", Gender: breeding.GenderMale, Status: pigs.StatusActive, CreatedAt: base, UpdatedAt: base}))

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sow, got)

	sow.IsPregnant = true
	sow.PregnancyStartDate = day(0)
	sow.ExpectedBirthDate = day(114)
	sow.MatedWith = "Toro"
	sow.TotalLitters = 2
	sow.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, sow))

	got, _ = repo.GetByID(ctx, "s1")
	assert.Equal(t, sow, got)

	list, err := repo.ListByFarm(ctx, "f1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.CreateTransfer(ctx, pigs.Transfer{ID: "t1", FarmID: "f1", PigID: "s1", ToPenID: "p1", Reason: pigs.ReasonOther, TransferredAt: base}))
	require.NoError(t, repo.CreateTransfer(ctx, pigs.Transfer{ID: "t2", FarmID: "f1", PigID: "s1", FromPenID: "p1", ToPenID: "p2", Reason: pigs.ReasonQuarantine, TransferredAt: base.Add(time.Hour)}))

	transfers, err := repo.ListTransfers(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, transfers, 2)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pigs.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, pigs.Pig{ID: "missing", FarmID: "f1"}), pigs.ErrNotFound)
}

func testMatings(t *testing.T, repo matings.Repository) {
	ctx := context.Background()

	rec := matings.Record{
		ID:                "m1",
		FarmID:            "f1",
		SowID:             "s1",
		BoarID:            "b1",
		SowName:           "Rosa",
		BoarName:          "Toro",
		MatingDate:        base,
		ExpectedBirthDate: *day(114),
		CreatedBy:         "u1",
		CreatedAt:         base,
		UpdatedAt:         base,
	}
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.False(t, got.BirthRecorded())

	litter := 11
	rec.ActualBirthDate = day(115)
	rec.LitterSize = &litter
	rec.UpdatedAt = *day(115)
	require.NoError(t, repo.Update(ctx, rec))

	got, _ = repo.GetByID(ctx, "m1")
	assert.True(t, got.BirthRecorded())
	require.NotNil(t, got.LitterSize)
	assert.Equal(t, 11, *got.LitterSize)

	list, err := repo.ListByFarm(ctx, "f1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, matings.ErrNotFound)
}

func testHealth(t *testing.T, repo health.Repository) {
	ctx := context.Background()

	rec := health.Record{
		ID:          "h1",
		FarmID:      "f1",
		PigID:       "s1",
		Type:        health.TypeVaccination,
		Description: "Parvovirus",
		Date:        base,
		NextDue:     day(21),
		Status:      health.StatusPending,
		CreatedAt:   base,
		UpdatedAt:   base,
	}
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	rec.Status = health.StatusCompleted
	rec.CompletedAt = day(21)
	rec.UpdatedAt = *day(21)
	require.NoError(t, repo.Update(ctx, rec))

	got, _ = repo.GetByID(ctx, "h1")
	assert.Equal(t, health.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	list, err := repo.ListByFarm(ctx, "f1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "h1"))
	assert.ErrorIs(t, repo.Delete(ctx, "h1"), health.ErrNotFound)
}
