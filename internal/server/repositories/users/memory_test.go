package users

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/dmitrijs2005/hrportal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(NewMemoryStore())

	u, err := repo.Insert(ctx, &models.User{Email: " A@X.com", PasswordHash: "h", Name: "A", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Nil(t, u.UpdatedAt)

	got, err := repo.FindByEmail(ctx, "a@X.COM")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	got.Name = "mutated"
	again, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_Duplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewMemoryRepository(store)

	_, err := repo.Insert(ctx, &models.User{Email: "a@x.com"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, &models.User{Email: "A@x.com"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryRepository_ConcurrentInsertSameEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewMemoryRepository(store)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, &models.User{Email: "race@x.com"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case err == common.ErrAlreadyExists:
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 15, dup)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryRepository_SetActive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(NewMemoryStore())

	u, err := repo.Insert(ctx, &models.User{Email: "a@x.com", IsActive: true})
	require.NoError(t, err)

	got, err := repo.SetActive(ctx, u.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.UpdatedAt)

	_, err = repo.SetActive(ctx, 999, true)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_SetPasswordHash(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(NewMemoryStore())

	u, err := repo.Insert(ctx, &models.User{Email: "a@x.com", PasswordHash: "old", IsActive: true})
	require.NoError(t, err)

	got, err := repo.SetPasswordHash(ctx, u.ID, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)
	require.NotNil(t, got.UpdatedAt)

	again, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "new", again.PasswordHash)

	_, err = repo.SetPasswordHash(ctx, 999, "new")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com\t"))
}
