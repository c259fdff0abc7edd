package assistant

import (
	"net/http"

	"kitchen-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommandRequest 自然語言指令請求
type CommandRequest struct {
	Command  string `json:"command" binding:"required"` // 語音或文字指令
	Servings int    `json:"servings,omitempty"`         // 食譜指令的份數，可省略
}

// HandleCommand 處理一條自然語言指令
// 不論成敗都回 200 與完整信封，語音端才有東西可唸；
// HTTP 錯誤碼留給傳輸層的問題
func (h *Handler) HandleCommand(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	owner := ownerOf(c)
	common.LogInfo("開始處理語音指令",
		zap.String("request_id", requestID),
		zap.String("user", owner),
		zap.String("command", req.Command),
	)

	result := h.orchestrator.Execute(c.Request.Context(), owner, req.Command, req.Servings)
	c.JSON(http.StatusOK, result)
}
