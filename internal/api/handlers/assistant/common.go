package assistant

import (
	"errors"
	"net/http"

	"kitchen-assistant/internal/core/inventory"
	"kitchen-assistant/internal/core/planner"
	"kitchen-assistant/internal/core/shopping"
	"kitchen-assistant/internal/core/workflow"
	"kitchen-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 未帶 X-User-ID 時共用的預設使用者
const defaultOwner = "default"

// Handler 助理 API 處理程序
type Handler struct {
	orchestrator *workflow.Orchestrator
	inventory    *inventory.Agent
	shopping     *shopping.Agent
	planner      *planner.Service
}

// NewHandler 創建助理 API 處理程序
func NewHandler(
	orchestrator *workflow.Orchestrator,
	inventoryAgent *inventory.Agent,
	shoppingAgent *shopping.Agent,
	plannerService *planner.Service,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		inventory:    inventoryAgent,
		shopping:     shoppingAgent,
		planner:      plannerService,
	}
}

// ownerOf 從請求標頭取出使用者身分
func ownerOf(c *gin.Context) string {
	if owner := c.GetHeader("X-User-ID"); owner != "" {
		return owner
	}
	return defaultOwner
}

// ensureRequestID 確保回應帶有請求 ID
func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// respondError 依錯誤代碼決定狀態碼，統一錯誤響應格式
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := common.ErrCodeInternalError
	message := "Internal server error"

	var custom *common.CustomError
	if errors.As(err, &custom) {
		status = custom.Status
		code = custom.Code
		message = custom.Message
	}

	c.JSON(status, common.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
