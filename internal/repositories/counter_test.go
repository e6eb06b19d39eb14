package repositories_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-desktop-todo/internal/repositories"
	"go-desktop-todo/testutil"
)

func newCounterRepo(t *testing.T) *repositories.CounterRepository {
	t.Helper()
	db, dialect := testutil.NewTestDB(t, testutil.NewTestConfig(t))
	return repositories.NewCounterRepository(db, dialect)
}

func TestCounterRepository_LoadBeforeSave(t *testing.T) {
	repo := newCounterRepo(t)

	value, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, value)
}

func TestCounterRepository_SaveOverwrites(t *testing.T) {
	repo := newCounterRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, 5))
	value, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, value)

	require.NoError(t, repo.Save(ctx, 7))
	value, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, value, "加算ではなく上書きされること")

	require.NoError(t, repo.Save(ctx, -3))
	value, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, -3, value)

	var rows int
	require.NoError(t, repo.DB.QueryRow("SELECT COUNT(*) FROM counter").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestCounterRepository_ConcurrentFirstSave(t *testing.T) {
	repo := newCounterRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			assert.NoError(t, repo.Save(ctx, v))
		}(i)
	}
	wg.Wait()

	var rows int
	require.NoError(t, repo.DB.QueryRow("SELECT COUNT(*) FROM counter").Scan(&rows))
	assert.Equal(t, 1, rows)

	value, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, value, 1)
	assert.LessOrEqual(t, value, 10)
}
