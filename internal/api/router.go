package api

import (
	"context"
	"net/http"
	"time"

	"kitchen-assistant/internal/api/handlers/assistant"
	"kitchen-assistant/internal/api/handlers/health"
	"kitchen-assistant/internal/api/middleware"
	"kitchen-assistant/internal/core/ai/cache"
	aiservice "kitchen-assistant/internal/core/ai/service"
	"kitchen-assistant/internal/core/command"
	"kitchen-assistant/internal/core/guard"
	"kitchen-assistant/internal/core/inventory"
	"kitchen-assistant/internal/core/planner"
	"kitchen-assistant/internal/core/shopping"
	"kitchen-assistant/internal/core/workflow"
	"kitchen-assistant/internal/infrastructure/config"
	"kitchen-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 請求超時
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，純文字指令用不到更多
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, recipeCache *cache.RecipeCache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Deduplication(cfg))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 持久層：有 Redis 用 Redis，沒有就退回行程內儲存
	inventoryStore, shoppingStore := buildStores(cfg)

	// 初始化服務
	inventoryAgent := inventory.NewAgent(inventoryStore)
	shoppingAgent := shopping.NewAgent(shoppingStore, cfg.Shopping.DefaultThreshold)
	guardrail := guard.New(cfg.Guardrail.MaxPromptLength)
	aiSvc := aiservice.NewService(cfg)
	plannerSvc := planner.NewService(aiSvc, recipeCache, guardrail)
	reconciler := planner.NewReconciler(plannerSvc, inventoryAgent, shoppingAgent)
	parser := command.NewParser()
	orchestrator := workflow.NewOrchestrator(parser, inventoryAgent, shoppingAgent, plannerSvc, reconciler)

	common.LogInfo("Services initialized",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("ai_enabled", aiSvc.Enabled()),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Float64("default_threshold", cfg.Shopping.DefaultThreshold),
	)

	// 全局請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, recipeCache)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	assistantHandler := assistant.NewHandler(orchestrator, inventoryAgent, shoppingAgent, plannerSvc)
	api := router.Group("/api/v1")
	{
		// 自然語言指令入口
		api.POST("/assistant/command", assistantHandler.HandleCommand)

		inventoryGroup := api.Group("/inventory")
		{
			inventoryGroup.GET("", assistantHandler.HandleInventoryList)
			inventoryGroup.DELETE("", assistantHandler.HandleInventoryClear)
		}

		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/suggest", assistantHandler.HandleRecipeSuggest)
			recipeGroup.POST("/confirm", assistantHandler.HandleRecipeConfirm)
		}

		shoppingGroup := api.Group("/shopping")
		{
			shoppingGroup.GET("", assistantHandler.HandleShoppingList)
			shoppingGroup.POST("/generate", assistantHandler.HandleShoppingGenerate)
			shoppingGroup.POST("/check", assistantHandler.HandleShoppingCheck)
			shoppingGroup.DELETE("", assistantHandler.HandleShoppingClear)
			shoppingGroup.PATCH("/threshold", assistantHandler.HandleThreshold)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

// buildStores 依設定選擇持久層
func buildStores(cfg *config.Config) (inventory.Store, shopping.Store) {
	if cfg.Redis.Addr == "" {
		common.LogWarn("Redis 未設定，改用行程內儲存")
		return inventory.NewMemoryStore(), shopping.NewMemoryStore()
	}

	inventoryStore, err := inventory.NewRedisStore(&cfg.Redis)
	if err != nil {
		common.LogWarn("Redis 連線失敗，改用行程內儲存",
			zap.Error(err),
		)
		return inventory.NewMemoryStore(), shopping.NewMemoryStore()
	}

	shoppingStore, err := shopping.NewRedisStore(&cfg.Redis)
	if err != nil {
		common.LogWarn("Redis 連線失敗，改用行程內儲存",
			zap.Error(err),
		)
		return inventory.NewMemoryStore(), shopping.NewMemoryStore()
	}

	common.LogInfo("Redis 儲存已連線",
		zap.String("addr", cfg.Redis.Addr),
		zap.Int("db", cfg.Redis.DB),
	)
	return inventoryStore, shoppingStore
}
