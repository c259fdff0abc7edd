package workflow

import (
	"context"
	"testing"
	"time"

	"kitchen-assistant/internal/core/ai/cache"
	aiservice "kitchen-assistant/internal/core/ai/service"
	"kitchen-assistant/internal/core/command"
	"kitchen-assistant/internal/core/guard"
	"kitchen-assistant/internal/core/inventory"
	"kitchen-assistant/internal/core/planner"
	"kitchen-assistant/internal/core/shopping"
	"kitchen-assistant/internal/infrastructure/config"
	"kitchen-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "tester"

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()

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

	return NewOrchestrator(command.NewParser(), inventoryAgent, shoppingAgent, plannerService, reconciler)
}

func TestExecuteAdd(t *testing.T) {
	o := newTestOrchestrator(t)

	result := o.Execute(context.Background(), testOwner, "add 2 liters of milk", 0)
	assert.True(t, result.Success)
	assert.Equal(t, "add 2 liters of milk", result.Command)
	assert.Equal(t, "add", result.CommandType)
	assert.Equal(t, ActionInventoryUpdated, result.ResponseAction)
	assert.Equal(t, "Added 2 l of milk to your inventory.", result.ResponseText)
	assert.Empty(t, result.Error)
	assert.NotNil(t, result.ResponseData)
}

func TestExecuteRemovePartial(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)

	result := o.Execute(ctx, testOwner, "remove 1 liter of milk", 0)
	assert.True(t, result.Success)
	assert.Equal(t, "remove", result.CommandType)
	assert.Equal(t, "Removed 1 l of milk. Remaining: 1 l.", result.ResponseText)
}

func TestExecuteRemoveWholeItem(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)

	result := o.Execute(ctx, testOwner, "remove milk", 0)
	assert.True(t, result.Success)
	assert.Equal(t, "Removed milk from your inventory.", result.ResponseText)
}

// 庫存不足時信封帶錯誤但不中斷服務
func TestExecuteRemoveInsufficient(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)

	result := o.Execute(ctx, testOwner, "remove 5 liters of milk", 0)
	assert.False(t, result.Success)
	assert.Equal(t, "you only have 2 l of milk", result.Error)
	assert.Equal(t, "Sorry, I couldn't process that: you only have 2 l of milk", result.ResponseText)
}

func TestExecuteUpdate(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)

	result := o.Execute(ctx, testOwner, "update 5 liters of milk", 0)
	assert.True(t, result.Success)
	assert.Equal(t, "Updated milk quantity to 5 l.", result.ResponseText)
}

func TestExecuteUpdateWithoutQuantity(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)

	result := o.Execute(ctx, testOwner, "update milk", 0)
	assert.False(t, result.Success)
	assert.Equal(t, "Quantity is required for update operation.", result.Error)
	assert.Equal(t, "Quantity is required for update operation.", result.ResponseText)
}

func TestExecuteInventoryQuery(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	result := o.Execute(ctx, testOwner, "what do i have", 0)
	assert.True(t, result.Success)
	assert.Equal(t, "inventory", result.CommandType)
	assert.Equal(t, ActionInventoryList, result.ResponseAction)
	assert.Equal(t, "Your inventory is empty. You can add items by saying 'add milk to inventory'.", result.ResponseText)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)

	result = o.Execute(ctx, testOwner, "what do i have", 0)
	assert.True(t, result.Success)
	assert.Equal(t, "You have 1 items: 2 l of milk.", result.ResponseText)
}

func TestExecuteShoppingAllStocked(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)

	result := o.Execute(ctx, testOwner, "i should buy milk", 0)
	assert.True(t, result.Success)
	assert.Equal(t, "shopping", result.CommandType)
	assert.Equal(t, ActionShoppingList, result.ResponseAction)
	assert.Equal(t, "Great! You have all the items you need. Your inventory looks good.", result.ResponseText)
}

func TestExecuteShoppingLowStock(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)
	require.True(t, o.Execute(ctx, testOwner, "update 1 liter of milk", 0).Success)

	result := o.Execute(ctx, testOwner, "i should buy milk", 0)
	assert.True(t, result.Success)
	assert.Equal(t, "Here's your shopping list: milk (need 3 l).", result.ResponseText)
}

func TestExecuteRecipeSuggestion(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)
	require.True(t, o.Execute(ctx, testOwner, "add 6 eggs", 0).Success)

	result := o.Execute(ctx, testOwner, "suggest a recipe", 0)
	assert.True(t, result.Success)
	assert.Equal(t, "recipe", result.CommandType)
	assert.Equal(t, ActionRecipeSuggested, result.ResponseAction)
	assert.Contains(t, result.ResponseText, "I suggest making Simple Recipe with Your Ingredients.")
	assert.Contains(t, result.ResponseText, "It serves 4 people.")
	assert.Contains(t, result.ResponseText, "You'll need:")
}

// 指令裡的菜名要一路帶進規劃服務，受限食材的請求才攔得住
func TestExecuteRecipeCommandCarriesDishName(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)

	result := o.Execute(ctx, testOwner, "make human meat stew", 0)
	assert.True(t, result.Success)
	assert.Equal(t, ActionRecipeSuggested, result.ResponseAction)

	recipe, ok := result.ResponseData.(*common.Recipe)
	require.True(t, ok)
	assert.Equal(t, "Recipe Not Available", recipe.Name)
	assert.NotContains(t, result.ResponseText, "human")
}

func TestExecuteUnknownCommand(t *testing.T) {
	o := newTestOrchestrator(t)

	result := o.Execute(context.Background(), testOwner, "hello world", 0)
	assert.False(t, result.Success)
	assert.Equal(t, "unknown", result.CommandType)
	assert.Equal(t, command.UnknownCommandMessage, result.Error)
	assert.Equal(t, command.UnknownCommandMessage, result.ResponseText)
	assert.Empty(t, result.ResponseAction)
}

func TestConfirmRecipeWithoutSuggestion(t *testing.T) {
	o := newTestOrchestrator(t)

	result := o.ConfirmRecipe(context.Background(), testOwner, "Tomato Pasta", 0)
	assert.False(t, result.Success)
	assert.Equal(t, "Recipe not found. Please generate a recipe first.", result.Error)
	assert.Equal(t, "Sorry, I couldn't apply the recipe: Recipe not found. Please generate a recipe first.", result.ResponseText)
}

func TestConfirmRecipeAfterSuggestion(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t)

	require.True(t, o.Execute(ctx, testOwner, "add 2 liters of milk", 0).Success)
	suggested := o.Execute(ctx, testOwner, "suggest a recipe", 0)
	require.True(t, suggested.Success)

	result := o.ConfirmRecipe(ctx, testOwner, "Simple Recipe with Your Ingredients", 0)
	assert.True(t, result.Success)
	assert.Equal(t, ActionRecipeApplied, result.ResponseAction)
	assert.Contains(t, result.ResponseText, "Applied recipe 'Simple Recipe with Your Ingredients'.")
	assert.Contains(t, result.ResponseText, "Removed ingredients: milk.")
}
