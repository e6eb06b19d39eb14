package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-desktop-todo/internal/config"
)

func TestInitDB_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	db, dialect, err := InitDB(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, SQLite, dialect)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)

	for _, table := range []string{"todos", "counter"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	// 2回目も失敗しないこと
	require.NoError(t, ApplySchema(context.Background(), db, dialect))
}

func TestInitDB_CounterSingleRow(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	db, _, err := InitDB(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO counter (id, value) VALUES (2, 1)")
	assert.Error(t, err, "id = 1 以外は CHECK 制約で拒否されること")
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("mysql")
	require.NoError(t, err)
	assert.Contains(t, d.CounterUpsert(), "ON DUPLICATE KEY UPDATE")

	d, err = DialectFor("sqlite")
	require.NoError(t, err)
	assert.Contains(t, d.CounterUpsert(), "ON CONFLICT(id)")

	_, err = DialectFor("oracle")
	assert.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(schemaMySQL)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS todos")
	assert.Contains(t, stmts[1], "CREATE TABLE IF NOT EXISTS counter")

	stmts = splitStatements(schemaSQLite)
	require.Len(t, stmts, 2)
	assert.NotContains(t, stmts[1], "--")
}
