package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-desktop-todo/internal/apperrors"
	"go-desktop-todo/internal/commands"
)

// InvocationIDHeader は呼び出しIDを返すレスポンスヘッダーです。
const InvocationIDHeader = "X-Invocation-ID"

// CommandHandler はUIからのコマンド呼び出しを処理します。
type CommandHandler struct {
	dispatcher *commands.Dispatcher
}

// NewCommandHandler は新しいCommandHandlerを作成します。
func NewCommandHandler(dispatcher *commands.Dispatcher) *CommandHandler {
	return &CommandHandler{dispatcher: dispatcher}
}

// InvokeHandler は POST /api/invoke/:command を処理します。ボディはコマンドのパラメータです。
func (h *CommandHandler) InvokeHandler(c *gin.Context) {
	id := uuid.NewString()
	c.Header(InvocationIDHeader, id)

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result, err := h.dispatcher.InvokeWithID(c.Request.Context(), id, c.Param("command"), raw)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListCommandsHandler は登録済みのコマンド名を返します。
func (h *CommandHandler) ListCommandsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": h.dispatcher.Names()})
}

// StatusFor はエラーの種類をHTTPステータスに変換します。
func StatusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidParams, apperrors.KindUnknownCommand:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindNetwork, apperrors.KindDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
