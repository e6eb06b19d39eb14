package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"go-desktop-todo/internal/apperrors"
	"go-desktop-todo/internal/database"
)

// counterID はカウンター行の固定IDです。
const counterID = 1

// CounterRepository はcounterテーブル(常に1行)を操作します。
type CounterRepository struct {
	DB      *sql.DB
	Dialect database.Dialect
}

// NewCounterRepository は新しいCounterRepositoryインスタンスを作成します。
func NewCounterRepository(db *sql.DB, dialect database.Dialect) *CounterRepository {
	return &CounterRepository{DB: db, Dialect: dialect}
}

// Save はカウンター値を保存します。挿入と更新は1文のupsertで行います。
func (r *CounterRepository) Save(ctx context.Context, value int) error {
	if _, err := r.DB.ExecContext(ctx, r.Dialect.CounterUpsert(), value); err != nil {
		log.Printf("Failed to save counter: %v", err)
		return apperrors.Storage("could not save counter", err)
	}
	return nil
}

// Load はカウンター値を返します。まだ保存されていない場合は0です。
func (r *CounterRepository) Load(ctx context.Context) (int, error) {
	var value int
	err := r.DB.QueryRowContext(ctx, "SELECT value FROM counter WHERE id = ?", counterID).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		log.Printf("Failed to load counter: %v", err)
		return 0, apperrors.Storage("could not load counter", err)
	}
	return value, nil
}
