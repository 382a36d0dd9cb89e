package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-farm/internal/adapters/storage/storagetest"
	"pig-farm/internal/domain/alerts"
)

func TestMemoryRepos(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storagetest.Repos {
		return storagetest.Repos{
			Farms:   NewFarmRepo(),
			Grants:  NewAccessGrantsRepo(),
			Pens:    NewPenRepo(),
			Pigs:    NewPigRepo(),
			Matings: NewMatingRepo(),
			Health:  NewHealthRepo(),
		}
	})
}

func TestNotificationTracker(t *testing.T) {
	ctx := context.Background()
	tr := NewNotificationTracker()
	key := alerts.SessionKey("u1", "f1")

	set, err := tr.Load(ctx, key)
	require.NoError(t, err)
	assert.False(t, set.Has("s1"))

	require.NoError(t, tr.Save(ctx, key, set.With("s1")))

	got, _ := tr.Load(ctx, key)
	assert.True(t, got.Has("s1"))

	other, _ := tr.Load(ctx, alerts.SessionKey("u2", "f1"))
	assert.False(t, other.Has("s1"))

	require.NoError(t, tr.Reset(ctx, key))
	got, _ = tr.Load(ctx, key)
	assert.False(t, got.Has("s1"))
}
