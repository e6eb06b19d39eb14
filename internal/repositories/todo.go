// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"go-desktop-todo/internal/apperrors"
	"go-desktop-todo/internal/models"
)

// TodoRepository はtodosテーブルを操作します。
type TodoRepository struct {
	DB *sql.DB
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

// Create は新しいTodoを completed = false で挿入します。
func (r *TodoRepository) Create(ctx context.Context, title string) (*models.Todo, error) {
	query := "INSERT INTO todos (title, completed) VALUES (?, ?)"

	result, err := r.DB.ExecContext(ctx, query, title, false)
	if err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, apperrors.Storage("could not insert todo", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperrors.Storage("could not get last insert ID", err)
	}

	return &models.Todo{ID: int(id), Title: title, Completed: false}, nil
}

// FindAll はすべてのTodoをid順で取得します。
func (r *TodoRepository) FindAll(ctx context.Context) ([]*models.Todo, error) {
	query := "SELECT id, title, completed FROM todos ORDER BY id ASC"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, apperrors.Storage("could not query todos", err)
	}
	defer rows.Close()

	todos := []*models.Todo{}
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			log.Printf("Failed to scan todo: %v", err)
			return nil, apperrors.Storage("could not scan todo", err)
		}
		todos = append(todos, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("error iterating todos", err)
	}

	return todos, nil
}

// FindByID は指定されたIDのTodoを取得します。
func (r *TodoRepository) FindByID(ctx context.Context, id int) (*models.Todo, error) {
	query := "SELECT id, title, completed FROM todos WHERE id = ?"

	var t models.Todo
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Title, &t.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("todo")
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, apperrors.Storage("could not query todo", err)
	}

	return &t, nil
}

// Update はTodoのtitleとcompletedを上書きします。
// 対象の行が無い場合は NotFound を返します。
func (r *TodoRepository) Update(ctx context.Context, t *models.Todo) error {
	query := "UPDATE todos SET title = ?, completed = ? WHERE id = ?"

	result, err := r.DB.ExecContext(ctx, query, t.Title, t.Completed, t.ID)
	if err != nil {
		log.Printf("Failed to update todo: %v", err)
		return apperrors.Storage("could not update todo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("could not get rows affected", err)
	}

	// MySQLは値が変わらない場合 0 を返すため存在確認を行う
	if rowsAffected == 0 {
		if _, err := r.FindByID(ctx, t.ID); err != nil {
			return err
		}
	}

	return nil
}

// Delete は指定されたIDのTodoを削除します。存在しないIDでもエラーにはなりません。
func (r *TodoRepository) Delete(ctx context.Context, id int) error {
	query := "DELETE FROM todos WHERE id = ?"

	if _, err := r.DB.ExecContext(ctx, query, id); err != nil {
		log.Printf("Failed to delete todo: %v", err)
		return apperrors.Storage("could not delete todo", err)
	}

	return nil
}
