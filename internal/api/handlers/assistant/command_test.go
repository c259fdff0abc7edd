package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kitchen-assistant/internal/core/ai/cache"
	aiservice "kitchen-assistant/internal/core/ai/service"
	"kitchen-assistant/internal/core/command"
	"kitchen-assistant/internal/core/guard"
	"kitchen-assistant/internal/core/inventory"
	"kitchen-assistant/internal/core/planner"
	"kitchen-assistant/internal/core/shopping"
	"kitchen-assistant/internal/core/workflow"
	"kitchen-assistant/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		OpenRouter: config.OpenRouterConfig{Enabled: false},
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         16,
			TTL:             time.Minute,
			CleanupInterval: time.Minute,
		},
	}

	recipeCache := cache.NewRecipeCache(cfg)
	require.NotNil(t, recipeCache)
	t.Cleanup(func() { _ = recipeCache.Close() })

	inventoryAgent := inventory.NewAgent(inventory.NewMemoryStore())
	shoppingAgent := shopping.NewAgent(shopping.NewMemoryStore(), 1.0)
	plannerService := planner.NewService(aiservice.NewService(cfg), recipeCache, guard.New(500))
	reconciler := planner.NewReconciler(plannerService, inventoryAgent, shoppingAgent)
	orchestrator := workflow.NewOrchestrator(command.NewParser(), inventoryAgent, shoppingAgent, plannerService, reconciler)

	handler := NewHandler(orchestrator, inventoryAgent, shoppingAgent, plannerService)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/assistant/command", handler.HandleCommand)
		v1.GET("/inventory", handler.HandleInventoryList)
		v1.POST("/recipe/confirm", handler.HandleRecipeConfirm)
	}
	return router
}

func postCommand(router *gin.Engine, owner, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set("X-User-ID", owner)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCommand(t *testing.T) {
	router := newTestRouter(t)

	w := postCommand(router, "", `{"command":"add 2 liters of milk"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result workflow.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "add", result.CommandType)
	assert.Equal(t, "Added 2 l of milk to your inventory.", result.ResponseText)
}

// 語意層的失敗仍回 200，信封帶錯誤訊息
func TestHandleCommandSemanticFailure(t *testing.T) {
	router := newTestRouter(t)

	w := postCommand(router, "", `{"command":"hello world"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result workflow.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, command.UnknownCommandMessage, result.Error)
}

func TestHandleCommandMalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	w := postCommand(router, "", `{"command":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// command 為必填
	w = postCommand(router, "", `{"servings":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCommandResponseHasRequestID(t *testing.T) {
	router := newTestRouter(t)

	w := postCommand(router, "", `{"command":"what do i have"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// 不同使用者的庫存互不干擾
func TestHandleCommandOwnerIsolation(t *testing.T) {
	router := newTestRouter(t)

	w := postCommand(router, "alice", `{"command":"add 2 liters of milk"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postCommand(router, "bob", `{"command":"what do i have"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result workflow.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Contains(t, result.ResponseText, "Your inventory is empty.")
}

func TestHandleInventoryList(t *testing.T) {
	router := newTestRouter(t)

	w := postCommand(router, "alice", `{"command":"add 2 liters of milk"}`)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []struct {
			Name     string  `json:"name"`
			Quantity float64 `json:"quantity"`
			Unit     string  `json:"unit"`
		} `json:"items"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "milk", body.Items[0].Name)
	assert.Equal(t, 2.0, body.Items[0].Quantity)
	assert.Equal(t, "l", body.Items[0].Unit)
}

func TestHandleRecipeConfirmMissingRecipe(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/confirm",
		strings.NewReader(`{"recipe_name":"Tomato Pasta"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result workflow.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "Recipe not found. Please generate a recipe first.", result.Error)
}
