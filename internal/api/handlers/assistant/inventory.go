package assistant

import (
	"net/http"

	"kitchen-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleInventoryList 取回庫存清單
func (h *Handler) HandleInventoryList(c *gin.Context) {
	owner := ownerOf(c)

	items, err := h.inventory.List(c.Request.Context(), owner)
	if err != nil {
		common.LogError("庫存讀取失敗",
			zap.Error(err),
			zap.String("user", owner),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// HandleInventoryClear 清空庫存
func (h *Handler) HandleInventoryClear(c *gin.Context) {
	owner := ownerOf(c)

	if err := h.inventory.Clear(c.Request.Context(), owner); err != nil {
		common.LogError("庫存清空失敗",
			zap.Error(err),
			zap.String("user", owner),
		)
		respondError(c, err)
		return
	}

	common.LogInfo("庫存已清空",
		zap.String("user", owner),
	)
	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory cleared.",
	})
}
