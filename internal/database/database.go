package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"go-desktop-todo/internal/config"
)

//go:embed schema_sqlite.sql
var schemaSQLite string

//go:embed schema_mysql.sql
var schemaMySQL string

// Dialect はSQL方言を表します。
type Dialect string

const (
	SQLite Dialect = config.DriverSQLite
	MySQL  Dialect = config.DriverMySQL
)

// DialectFor はドライバー名から方言を返します。
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverSQLite:
		return SQLite, nil
	case config.DriverMySQL:
		return MySQL, nil
	}
	return "", fmt.Errorf("unsupported db driver %q", driver)
}

// CounterUpsert はカウンター(id = 1)を1文で挿入または更新するSQLを返します。
func (d Dialect) CounterUpsert() string {
	if d == MySQL {
		return "INSERT INTO counter (id, value) VALUES (1, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)"
	}
	return "INSERT INTO counter (id, value) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET value = excluded.value"
}

func (d Dialect) schema() string {
	if d == MySQL {
		return schemaMySQL
	}
	return schemaSQLite
}

// InitDB はデータベース接続を初期化し、テーブルを作成します。
func InitDB(cfg *config.Config) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.DB.Driver)
	if err != nil {
		return nil, "", err
	}

	if dialect == SQLite {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, "", fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open(string(dialect), cfg.DSN())
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}

	if dialect == SQLite {
		// 書き込みは1接続のみ（SQLITE_BUSYを避ける）
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping database: %w", err)
	}

	if err := ApplySchema(context.Background(), db, dialect); err != nil {
		db.Close()
		return nil, "", err
	}

	log.Printf("Successfully connected to %s database!", dialect)
	return db, dialect, nil
}

// ApplySchema はテーブルが無ければ作成します。何度呼んでも安全です。
func ApplySchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	// MySQLは既定でマルチステートメント不可のため1文ずつ実行する
	for _, stmt := range splitStatements(dialect.schema()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func splitStatements(schema string) []string {
	var stmts []string
	for _, part := range strings.Split(schema, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
