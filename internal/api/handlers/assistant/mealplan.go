package assistant

import (
	"net/http"

	"kitchen-assistant/internal/core/planner"
	"kitchen-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeSuggestRequest 食譜建議請求
type RecipeSuggestRequest struct {
	Preferences string `json:"preferences,omitempty"` // 偏好或菜系，可省略
	Servings    int    `json:"servings,omitempty"`    // 份數，預設 4
	UsageMode   string `json:"usage_mode,omitempty"`  // strict 或 main，預設 main
}

// RecipeConfirmRequest 食譜確認請求
type RecipeConfirmRequest struct {
	RecipeName string `json:"recipe_name" binding:"required"` // 先前生成的食譜名稱
	Servings   int    `json:"servings,omitempty"`             // 實際下廚份數，可省略
}

// HandleRecipeSuggest 依庫存生成食譜建議
func (h *Handler) HandleRecipeSuggest(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req RecipeSuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	owner := ownerOf(c)
	common.LogInfo("開始處理食譜建議請求",
		zap.String("request_id", requestID),
		zap.String("user", owner),
		zap.Int("servings", req.Servings),
	)

	items, err := h.inventory.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.planner.Suggest(c.Request.Context(), owner, req.Preferences, req.Servings, planner.ParseUsageMode(req.UsageMode), items)
	if err != nil {
		common.LogWarn("食譜建議失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// HandleRecipeConfirm 確認下廚，扣庫存並把缺料記進購物清單
func (h *Handler) HandleRecipeConfirm(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req RecipeConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	owner := ownerOf(c)
	common.LogInfo("開始處理食譜確認請求",
		zap.String("request_id", requestID),
		zap.String("user", owner),
		zap.String("recipe", req.RecipeName),
	)

	result := h.orchestrator.ConfirmRecipe(c.Request.Context(), owner, req.RecipeName, req.Servings)
	c.JSON(http.StatusOK, result)
}
