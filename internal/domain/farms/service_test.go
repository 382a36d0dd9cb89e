package farms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-farm/internal/domain/accessgrants"
)

type testRepo struct {
	byID map[string]Farm
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Farm{}} }

func (r *testRepo) Create(_ context.Context, f Farm) error {
	r.byID[f.ID] = f
	return nil
}

func (r *testRepo) Update(_ context.Context, f Farm) error {
	if _, ok := r.byID[f.ID]; !ok {
		return ErrNotFound
	}
	r.byID[f.ID] = f
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Farm, error) {
	f, ok := r.byID[id]
	if !ok {
		return Farm{}, ErrNotFound
	}
	return f, nil
}

func (r *testRepo) ListByOwner(_ context.Context, owner string) ([]Farm, error) {
	out := make([]Farm, 0)
	for _, f := range r.byID {
		if f.OwnerUserID == owner {
			out = append(out, f)
		}
	}
	return out, nil
}

type grantRepo struct {
	byID map[string]accessgrants.Grant
}

func (r *grantRepo) Create(_ context.Context, g accessgrants.Grant) error {
	r.byID[g.ID] = g
	return nil
}

func (r *grantRepo) Update(_ context.Context, g accessgrants.Grant) error {
	r.byID[g.ID] = g
	return nil
}

func (r *grantRepo) GetByID(_ context.Context, id string) (accessgrants.Grant, error) {
	g, ok := r.byID[id]
	if !ok {
		return accessgrants.Grant{}, accessgrants.ErrNotFound
	}
	return g, nil
}

func (r *grantRepo) ListByFarm(_ context.Context, farmID string) ([]accessgrants.Grant, error) {
	out := make([]accessgrants.Grant, 0)
	for _, g := range r.byID {
		if g.FarmID == farmID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *grantRepo) ListByGrantee(_ context.Context, grantee string) ([]accessgrants.Grant, error) {
	out := make([]accessgrants.Grant, 0)
	for _, g := range r.byID {
		if g.GranteeUserID == grantee {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *grantRepo) GetActiveGrant(_ context.Context, farmID, grantee string) (accessgrants.Grant, error) {
	for _, g := range r.byID {
		if g.FarmID == farmID && g.GranteeUserID == grantee && g.Status == accessgrants.StatusActive {
			return g, nil
		}
	}
	return accessgrants.Grant{}, accessgrants.ErrNotFound
}

func TestService_CreateAndUpdate(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner-1", CreateInput{Name: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)

	f, err := svc.Create(ctx, "owner-1", CreateInput{Name: " Granja Los Alamos ", Location: "Cusco"})
	require.NoError(t, err)
	assert.Equal(t, "Granja Los Alamos", f.Name)
	assert.Equal(t, now, f.CreatedAt)

	empty := ""
	_, err = svc.Update(ctx, f.ID, UpdateInput{Name: &empty})
	require.ErrorIs(t, err, ErrInvalidInput)

	loc := "Arequipa"
	svc.now = func() time.Time { return now.Add(time.Hour) }
	updated, err := svc.Update(ctx, f.ID, UpdateInput{Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, "Granja Los Alamos", updated.Name)
	assert.Equal(t, "Arequipa", updated.Location)
	assert.Equal(t, now.Add(time.Hour), updated.UpdatedAt)

	_, err = svc.Update(ctx, "missing", UpdateInput{Location: &loc})
	require.ErrorIs(t, err, ErrNotFound)

	owner, err := svc.OwnerOf(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", owner)
}

func TestAccess_Check(t *testing.T) {
	ctx := context.Background()
	farmSvc := NewService(newTestRepo())
	grantSvc := accessgrants.NewService(&grantRepo{byID: map[string]accessgrants.Grant{}})
	access := NewAccess(farmSvc, grantSvc)

	f, err := farmSvc.Create(ctx, "owner-1", CreateInput{Name: "Granja"})
	require.NoError(t, err)

	// dueño: cualquier scope
	_, err = access.Check(ctx, f.ID, "owner-1", accessgrants.ScopeHealthWrite)
	require.NoError(t, err)

	// desconocido
	_, err = access.Check(ctx, f.ID, "worker-1", accessgrants.ScopeFarmRead)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = access.Check(ctx, "missing", "owner-1", accessgrants.ScopeFarmRead)
	require.ErrorIs(t, err, ErrNotFound)

	g, err := grantSvc.Invite(ctx, accessgrants.InviteInput{
		FarmID:        f.ID,
		OwnerUserID:   "owner-1",
		GranteeUserID: "worker-1",
		Scopes:        []accessgrants.Scope{accessgrants.ScopeFarmRead, accessgrants.ScopePigsWrite},
		MaxUsers:      -1,
	})
	require.NoError(t, err)

	// invitado sin aceptar todavía no entra
	_, err = access.Check(ctx, f.ID, "worker-1", accessgrants.ScopeFarmRead)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = grantSvc.Accept(ctx, g.ID, "worker-1")
	require.NoError(t, err)

	_, err = access.Check(ctx, f.ID, "worker-1", accessgrants.ScopePigsWrite)
	require.NoError(t, err)
	_, err = access.Check(ctx, f.ID, "worker-1", accessgrants.ScopeHealthWrite)
	require.ErrorIs(t, err, ErrForbidden)

	shared, err := access.Shared(ctx, "worker-1")
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, f.ID, shared[0].ID)

	_, err = grantSvc.Revoke(ctx, g.ID, "owner-1")
	require.NoError(t, err)
	_, err = access.Check(ctx, f.ID, "worker-1", accessgrants.ScopeFarmRead)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestWriteAccessError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		WriteAccessError(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}
