package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-desktop-todo/internal/config"
	"go-desktop-todo/internal/database"
	"go-desktop-todo/internal/repositories"
	"go-desktop-todo/internal/routes"
)

// NewTestConfig は一時ディレクトリを使うテスト用の設定を返します。
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.CORSOrigins = []string{"http://localhost:1420"}
	// テスト中に外部APIへ出ないようにする
	cfg.Prices.URL = "http://127.0.0.1:0"
	return cfg
}

// NewTestDB はテスト用のSQLiteデータベースを作成します。テスト終了時に閉じられます。
func NewTestDB(t *testing.T, cfg *config.Config) (*sql.DB, database.Dialect) {
	t.Helper()
	db, dialect, err := database.InitDB(cfg)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { db.Close() })
	return db, dialect
}

// SetupTestDB はテスト用のデータベースとGinルーターをセットアップします。
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.TodoRepository, *repositories.CounterRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := NewTestConfig(t)
	db, dialect := NewTestDB(t, cfg)

	router := routes.SetupRouter(cfg, db, routes.NewDispatcher(cfg, db, dialect))
	return db, router, repositories.NewTodoRepository(db), repositories.NewCounterRepository(db, dialect)
}

// Invoke はコマンドをHTTP経由で呼び出し、レスポンスを返します。
func Invoke(t *testing.T, router *gin.Engine, command string, params any) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if params != nil {
		var err error
		body, err = json.Marshal(params)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(http.MethodPost, "/api/invoke/"+command, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// AddTestTodo はadd_todoでTodoを作成し、作成されたTodoのIDを返します。
func AddTestTodo(t *testing.T, router *gin.Engine, title string) int {
	t.Helper()
	resp := Invoke(t, router, "add_todo", map[string]any{"title": title})
	require.Equal(t, http.StatusOK, resp.Code, "TODO作成に失敗しました: %s", resp.Body.String())

	resp = Invoke(t, router, "list_todos", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var todos []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &todos))
	for i := len(todos) - 1; i >= 0; i-- {
		if todos[i].Title == title {
			return todos[i].ID
		}
	}
	t.Fatalf("todo %q not found after add_todo", title)
	return 0
}
