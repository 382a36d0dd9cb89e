package pens

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-farm/internal/ports/capabilities"
)

type testRepo struct {
	byID map[string]Pen
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Pen{}} }

func (r *testRepo) Create(_ context.Context, p Pen) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pen, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pen{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByFarm(_ context.Context, farmID string) ([]Pen, error) {
	out := make([]Pen, 0)
	for _, p := range r.byID {
		if p.FarmID == farmID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fixedOccupancy map[string]int

func (o fixedOccupancy) CountActiveInPen(_ context.Context, _, penID string) (int, error) {
	return o[penID], nil
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{FarmID: "f1", Name: "", RowName: "A", MaxRows: capabilities.Unlimited})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, CreateInput{FarmID: "f1", Name: "A1", RowName: " ", MaxRows: capabilities.Unlimited})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, CreateInput{FarmID: "f1", Name: "A1", RowName: "A", Capacity: -1, MaxRows: capabilities.Unlimited})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{FarmID: "f1", Name: "A1", RowName: "A", MaxRows: capabilities.Unlimited})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{FarmID: "f1", Name: "a1", RowName: "A", MaxRows: capabilities.Unlimited})
	require.ErrorIs(t, err, ErrDuplicate)

	// mismo nombre en otra granja está bien
	_, err = svc.Create(ctx, CreateInput{FarmID: "f2", Name: "A1", RowName: "A", MaxRows: capabilities.Unlimited})
	require.NoError(t, err)
}

func TestService_Create_MaxRows(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	// plan free: 3 filas
	for _, row := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, CreateInput{FarmID: "f1", Name: row + "1", RowName: row, MaxRows: 3})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, CreateInput{FarmID: "f1", Name: "D1", RowName: "D", MaxRows: 3})
	require.ErrorIs(t, err, ErrLimitReached)

	// una fila existente no consume cupo
	_, err = svc.Create(ctx, CreateInput{FarmID: "f1", Name: "A2", RowName: "a", MaxRows: 3})
	require.NoError(t, err)
}

func TestService_Create_RowFull(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	for i := 1; i <= HutchesPerRow; i++ {
		_, err := svc.Create(ctx, CreateInput{FarmID: "f1", Name: fmt.Sprintf("A%d", i), RowName: "A", MaxRows: 1})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, CreateInput{FarmID: "f1", Name: "A19", RowName: "A", MaxRows: 1})
	require.ErrorIs(t, err, ErrRowFull)
}

func TestService_Delete(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	busy, err := svc.Create(ctx, CreateInput{FarmID: "f1", Name: "A1", RowName: "A", MaxRows: capabilities.Unlimited})
	require.NoError(t, err)
	empty, err := svc.Create(ctx, CreateInput{FarmID: "f1", Name: "A2", RowName: "A", MaxRows: capabilities.Unlimited})
	require.NoError(t, err)

	svc.SetOccupancy(fixedOccupancy{busy.ID: 2})

	require.ErrorIs(t, svc.Delete(ctx, "f1", busy.ID), ErrOccupied)
	require.ErrorIs(t, svc.Delete(ctx, "f2", empty.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "f1", empty.ID))

	_, err = svc.Get(ctx, "f1", empty.ID)
	require.ErrorIs(t, err, ErrNotFound)

	names, err := svc.Names(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{busy.ID: "A1"}, names)
}

func TestPen_HasRoom(t *testing.T) {
	assert.True(t, Pen{Capacity: 0}.HasRoom(100))
	assert.True(t, Pen{Capacity: 2}.HasRoom(1))
	assert.False(t, Pen{Capacity: 2}.HasRoom(2))
}
