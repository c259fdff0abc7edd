package assistant

import (
	"net/http"

	"kitchen-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ThresholdRequest 補貨門檻設定請求
type ThresholdRequest struct {
	ItemName  string  `json:"item_name" binding:"required"`
	Threshold float64 `json:"threshold"`
}

// CheckRequest 購物清單勾選請求
type CheckRequest struct {
	ItemName string `json:"item_name" binding:"required"`
	Checked  bool   `json:"checked"`
}

// HandleShoppingList 取回購物清單
func (h *Handler) HandleShoppingList(c *gin.Context) {
	owner := ownerOf(c)

	entries, err := h.shopping.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// HandleShoppingGenerate 掃描庫存產生補貨建議並寫入清單
func (h *Handler) HandleShoppingGenerate(c *gin.Context) {
	owner := ownerOf(c)

	items, err := h.inventory.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}

	suggestions, err := h.shopping.Generate(c.Request.Context(), owner, items)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.shopping.AddSuggestions(c.Request.Context(), owner, suggestions); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// HandleShoppingCheck 勾選或取消勾選購物清單項目
func (h *Handler) HandleShoppingCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	owner := ownerOf(c)
	entry, err := h.shopping.SetChecked(c.Request.Context(), owner, req.ItemName, req.Checked)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// HandleShoppingClear 清空購物清單
func (h *Handler) HandleShoppingClear(c *gin.Context) {
	owner := ownerOf(c)

	if err := h.shopping.Clear(c.Request.Context(), owner); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shopping list cleared.",
	})
}

// HandleThreshold 設定品項的補貨門檻
func (h *Handler) HandleThreshold(c *gin.Context) {
	var req ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	owner := ownerOf(c)
	if err := h.shopping.SetThreshold(c.Request.Context(), owner, req.ItemName, req.Threshold); err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("補貨門檻已更新",
		zap.String("user", owner),
		zap.String("item", req.ItemName),
		zap.Float64("threshold", req.Threshold),
	)
	c.JSON(http.StatusOK, gin.H{
		"item_name": req.ItemName,
		"threshold": req.Threshold,
	})
}
