package repository

import (
	"context"
	"testing"
	"time"

	"banking-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSaveSetsExpiry(t *testing.T) {
	store, mr := newTestStore(t, 4)
	repo := NewSessionRepo(store)
	ctx := context.Background()

	s := &domain.Session{Token: "tok", Username: "alice", ExpiresAt: time.Unix(1700007200, 0)}
	require.NoError(t, repo.Save(ctx, s, 2*time.Hour))
	assert.Equal(t, 2*time.Hour, mr.TTL("session:tok"))

	got, err := repo.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, repo.Delete(ctx, "tok"))
	_, err = repo.Get(ctx, "tok")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
