package repositories_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-desktop-todo/internal/apperrors"
	"go-desktop-todo/internal/models"
	"go-desktop-todo/internal/repositories"
	"go-desktop-todo/testutil"
)

func newTodoRepo(t *testing.T) *repositories.TodoRepository {
	t.Helper()
	db, _ := testutil.NewTestDB(t, testutil.NewTestConfig(t))
	return repositories.NewTodoRepository(db)
}

func TestTodoRepository_CreateAndFindAll(t *testing.T) {
	repo := newTodoRepo(t)
	ctx := context.Background()

	todos, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, todos, "空でもnilではなく空スライスを返すこと")
	assert.Empty(t, todos)

	created, err := repo.Create(ctx, "Buy milk")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, created.ID, 1)
	assert.False(t, created.Completed)

	todos, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, &models.Todo{ID: created.ID, Title: "Buy milk", Completed: false}, todos[0])
}

func TestTodoRepository_CreateEmptyTitle(t *testing.T) {
	repo := newTodoRepo(t)

	created, err := repo.Create(context.Background(), "")
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "", found.Title)
}

func TestTodoRepository_FindAllIsStable(t *testing.T) {
	repo := newTodoRepo(t)
	ctx := context.Background()

	for _, title := range []string{"c", "a", "b"} {
		_, err := repo.Create(ctx, title)
		require.NoError(t, err)
	}

	first, err := repo.FindAll(ctx)
	require.NoError(t, err)
	second, err := repo.FindAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "c", first[0].Title)
	assert.Less(t, first[0].ID, first[1].ID)
	assert.Less(t, first[1].ID, first[2].ID)
}

func TestTodoRepository_Update(t *testing.T) {
	repo := newTodoRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Original Todo")
	require.NoError(t, err)

	err = repo.Update(ctx, &models.Todo{ID: created.ID, Title: "Updated Todo", Completed: true})
	require.NoError(t, err)

	todos, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, &models.Todo{ID: created.ID, Title: "Updated Todo", Completed: true}, todos[0])

	// 同じ値での更新も成功すること
	err = repo.Update(ctx, &models.Todo{ID: created.ID, Title: "Updated Todo", Completed: true})
	assert.NoError(t, err)
}

func TestTodoRepository_UpdateNotFound(t *testing.T) {
	repo := newTodoRepo(t)

	err := repo.Update(context.Background(), &models.Todo{ID: 99999, Title: "ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "todo not found", err.Error())
}

func TestTodoRepository_Delete(t *testing.T) {
	repo := newTodoRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "to delete")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// 2回目の削除もエラーにならない
	assert.NoError(t, repo.Delete(ctx, created.ID))
	assert.NoError(t, repo.Delete(ctx, 424242))
}

func TestTodoRepository_ConcurrentCreate(t *testing.T) {
	repo := newTodoRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, "parallel")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	todos, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 20)

	seen := make(map[int]bool)
	for _, todo := range todos {
		assert.False(t, seen[todo.ID], "IDが重複しないこと")
		seen[todo.ID] = true
	}
}

func TestTodoRepository_ClosedDB(t *testing.T) {
	db, _ := testutil.NewTestDB(t, testutil.NewTestConfig(t))
	repo := repositories.NewTodoRepository(db)
	require.NoError(t, db.Close())

	_, err := repo.FindAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}
