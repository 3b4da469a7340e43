package repository

import (
	"context"
	"testing"

	"user-service/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepository_SaveAndFind(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, &entity.User{Username: "alice", Email: "a@x.com", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, saved.ID, found.ID)

	exists, err := repo.ExistsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	missing, err := repo.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryUserRepository_UniqueConstraints(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	_, err := repo.Save(ctx, &entity.User{Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)
	bob, err := repo.Save(ctx, &entity.User{Username: "bob", Email: "b@x.com"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, &entity.User{Username: "alice", Email: "c@x.com"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	bob.Email = "a@x.com"
	_, err = repo.Save(ctx, bob)
	assert.ErrorIs(t, err, ErrEmailTaken)

	bob.Email = "b@x.com"
	_, err = repo.Save(ctx, bob)
	assert.NoError(t, err, "saving a user with its own email is allowed")
}

func TestMemoryUserRepository_ActiveOnly(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	a, _ := repo.Save(ctx, &entity.User{Username: "a", Email: "a", IsActive: true})
	_, _ = repo.Save(ctx, &entity.User{Username: "b", Email: "b", IsActive: true})

	a.Deactivate()
	_, err := repo.Save(ctx, a)
	require.NoError(t, err)

	users, err := repo.FindAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "b", users[0].Username)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryUserRepository_UpdateMissing(t *testing.T) {
	_, err := NewMemoryUserRepository().Save(context.Background(), &entity.User{Base: entity.Base{ID: 5}})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
