package planner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"kitchen-assistant/internal/core/ai/cache"
	aiservice "kitchen-assistant/internal/core/ai/service"
	"kitchen-assistant/internal/core/guard"
	"kitchen-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

const defaultServings = 4

// 後備食譜最多取用的庫存品項數與單項用量上限
const (
	fallbackItemLimit  = 5
	fallbackPortionCap = 2.0
)

// Service 食譜規劃服務
// 先過內容檢核，再叫生成後端；生成失敗或輸出解析不了時
// 退回以庫存拼出的基本食譜，任何情況都回得出一份食譜
type Service struct {
	ai    *aiservice.Service
	cache *cache.RecipeCache
	guard *guard.Guardrail
}

// NewService 創建食譜規劃服務
func NewService(ai *aiservice.Service, recipeCache *cache.RecipeCache, guardrail *guard.Guardrail) *Service {
	return &Service{
		ai:    ai,
		cache: recipeCache,
		guard: guardrail,
	}
}

// Suggest 生成食譜建議
// 生成前後都經過內容檢核；命中受限食材時回固定的拒絕
// 食譜且不透露命中詞，一般性攔截則換成制式拒絕食譜
func (s *Service) Suggest(ctx context.Context, owner, preferences string, servings int, mode UsageMode, items []common.InventoryItem) (*common.Recipe, error) {
	if servings <= 0 {
		servings = defaultServings
	}

	if ok, reason := s.guard.ValidateRequest(preferences); !ok {
		if reason == guard.ReasonRestricted {
			return guard.EthicalRefusal(), nil
		}
		return nil, common.ErrContentPolicy.WithMessage(reason)
	}

	if len(items) == 0 {
		return &common.Recipe{
			Name:         "No ingredients available",
			Description:  "Please add some ingredients to your inventory first.",
			Servings:     servings,
			Ingredients:  []common.RecipeIngredient{},
			Instructions: []string{},
		}, nil
	}

	recipe := s.generate(ctx, preferences, servings, mode, items)

	if ok, reason := s.guard.ValidateResponse(recipe); !ok {
		common.LogWarn("生成食譜未通過檢核",
			zap.String("食譜", recipe.Name),
			zap.String("理由", reason),
		)
		return refusalFor(reason), nil
	}

	recipe = scaleToServings(recipe, servings)

	if err := s.cache.Set(ctx, owner, recipe.Name, recipe); err != nil {
		common.LogWarn("食譜快取寫入失敗",
			zap.Error(err),
		)
	}

	return recipe, nil
}

// Cached 取回先前生成的食譜
func (s *Service) Cached(ctx context.Context, owner, name string) (*common.Recipe, error) {
	return s.cache.Get(ctx, owner, name)
}

// refusalFor 依攔截理由挑對應的拒絕食譜
// 受限食材走不透露原因的版本，其餘走一般性拒絕
func refusalFor(reason string) *common.Recipe {
	if reason == guard.ReasonRestricted {
		return guard.EthicalRefusal()
	}
	return guard.GenericRefusal()
}

// generate 呼叫生成後端，失敗時回後備食譜
func (s *Service) generate(ctx context.Context, preferences string, servings int, mode UsageMode, items []common.InventoryItem) *common.Recipe {
	if !s.ai.Enabled() {
		return fallbackRecipe(items, servings)
	}

	prompt := BuildRecipePrompt(items, preferences, servings, mode)

	started := time.Now()
	resp, err := s.ai.ProcessRequest(ctx, prompt)
	common.LogAICall(prompt, time.Since(started), err, "")
	if err != nil {
		return fallbackRecipe(items, servings)
	}

	recipe, err := parseRecipe(resp.Content)
	if err != nil {
		common.LogWarn("食譜輸出解析失敗，改用後備食譜",
			zap.Error(err),
		)
		return fallbackRecipe(items, servings)
	}
	return recipe
}

// parseRecipe 解析模型輸出
// 先擷取 JSON 物件，失敗再補鍵名引號重試一次
func parseRecipe(content string) (*common.Recipe, error) {
	raw := common.ExtractJSONObject(content)

	var recipe common.Recipe
	if err := common.ParseJSON(raw, &recipe); err != nil {
		repaired := common.QuoteJSONKeys(raw)
		if err := common.ParseJSON(repaired, &recipe); err != nil {
			return nil, fmt.Errorf("failed to parse recipe JSON: %w", err)
		}
	}

	if strings.TrimSpace(recipe.Name) == "" || len(recipe.Ingredients) == 0 {
		return nil, fmt.Errorf("recipe is missing name or ingredients")
	}
	if recipe.Servings <= 0 {
		recipe.Servings = defaultServings
	}
	return &recipe, nil
}

// scaleToServings 依要求份數等比縮放食材用量，留兩位小數
func scaleToServings(recipe *common.Recipe, servings int) *common.Recipe {
	if recipe.Servings == servings || recipe.Servings <= 0 {
		recipe.Servings = servings
		return recipe
	}

	factor := float64(servings) / float64(recipe.Servings)
	scaled := *recipe
	scaled.Ingredients = make([]common.RecipeIngredient, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		ing.Quantity = math.Round(ing.Quantity*factor*100) / 100
		scaled.Ingredients[i] = ing
	}
	scaled.Servings = servings
	return &scaled
}

// fallbackRecipe 以庫存拼出的基本食譜
// 最多取五項，單項用量不超過現有量也不超過常識份量
func fallbackRecipe(items []common.InventoryItem, servings int) *common.Recipe {
	var ingredients []common.RecipeIngredient
	for _, item := range items {
		if len(ingredients) >= fallbackItemLimit {
			break
		}
		qty := item.Quantity
		if qty > fallbackPortionCap {
			qty = fallbackPortionCap
		}
		ingredients = append(ingredients, common.RecipeIngredient{
			Name:     item.Name,
			Quantity: qty,
			Unit:     item.Unit,
		})
	}

	var names []string
	for i, ing := range ingredients {
		if i >= 3 {
			break
		}
		names = append(names, ing.Name)
	}

	return &common.Recipe{
		Name:        "Simple Recipe with Your Ingredients",
		Description: "A basic recipe using ingredients from your inventory.",
		Servings:    servings,
		Ingredients: ingredients,
		Instructions: []string{
			"Prepare and wash all ingredients thoroughly",
			fmt.Sprintf("Combine %s in a large bowl or pan", strings.Join(names, ", ")),
			"Cook according to your preferred method and taste",
			"Season with salt, pepper, and spices as desired",
			"Serve hot and enjoy!",
		},
	}
}
