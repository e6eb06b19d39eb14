// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-desktop-todo/internal/commands"
	"go-desktop-todo/internal/config"
	"go-desktop-todo/internal/database"
	"go-desktop-todo/internal/handlers"
	"go-desktop-todo/internal/repositories"
	"go-desktop-todo/internal/services"
)

// NewDispatcher はリポジトリとサービスを組み立ててDispatcherを作成します。
func NewDispatcher(cfg *config.Config, db *sql.DB, dialect database.Dialect) *commands.Dispatcher {
	// リポジトリ
	todoRepo := repositories.NewTodoRepository(db)
	counterRepo := repositories.NewCounterRepository(db, dialect)

	// サービス
	priceService := services.NewPriceService(cfg.Prices)

	return commands.NewDispatcher(todoRepo, counterRepo, priceService)
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(cfg *config.Config, db *sql.DB, dispatcher *commands.Dispatcher) *gin.Engine {
	r := gin.Default()

	// CORS対策 (webviewのオリジン)
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.CustomSchemas = []string{"tauri://"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{handlers.InvocationIDHeader}
	r.Use(cors.New(corsConfig))

	commandHandler := handlers.NewCommandHandler(dispatcher)

	// ルーティング
	r.GET("/api/hello", HelloHandler)
	r.GET("/api/dbcheck", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})
	r.GET("/api/commands", commandHandler.ListCommandsHandler)
	r.POST("/api/invoke/:command", commandHandler.InvokeHandler)

	return r
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from Go Backend!"})
}
