package repository

import (
	"biokuiz/internal/model"
	"biokuiz/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	p := model.Principal{UserID: 7, Username: "guru1", Role: model.Teacher}
	require.NoError(t, repo.Save(ctx, "tok", p, time.Hour))

	got, err := repo.Find(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	_, err = repo.Find(ctx, "other")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	now = now.Add(time.Hour)
	_, err = repo.Find(ctx, "tok")
	assert.ErrorIs(t, err, util.ErrSessionNotFound, "expired")

	require.NoError(t, repo.Save(ctx, "tok2", p, time.Hour))
	require.NoError(t, repo.Delete(ctx, "tok2"))
	_, err = repo.Find(ctx, "tok2")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}
