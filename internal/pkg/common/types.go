package common

import (
	"fmt"
	"strings"
)

// InventoryItem 庫存項目
// name 保留首次寫入時的大小寫，身分比對一律使用小寫
type InventoryItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Owner    string  `json:"owner,omitempty"`
}

// ShoppingListEntry 購物清單項目
// QuantityDisplay 為自由格式的顯示字串（例如 "2 lbs"）
type ShoppingListEntry struct {
	Name            string `json:"name"`
	QuantityDisplay string `json:"quantity_display"`
	Checked         bool   `json:"checked"`
	Owner           string `json:"owner,omitempty"`
}

// RecipeIngredient 食譜所需食材
type RecipeIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe 食譜
type Recipe struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Servings     int                `json:"servings"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Instructions []string           `json:"instructions"`
}

// ShoppingSuggestion 補貨建議（由購物清單生成器產生）
type ShoppingSuggestion struct {
	Name              string  `json:"name"`
	CurrentQuantity   float64 `json:"current_quantity"`
	Unit              string  `json:"unit"`
	Threshold         float64 `json:"threshold"`
	SuggestedQuantity float64 `json:"suggested_quantity"`
	Priority          string  `json:"priority"` // "high" 或 "medium"
}

// 購物建議優先級
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// FormatInventory 格式化庫存清單（提供給提示詞使用）
func FormatInventory(items []InventoryItem) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s: %g %s\n", item.Name, item.Quantity, item.Unit))
	}
	return sb.String()
}

// FormatRecipeIngredients 將食材清單轉換為口語化字串
func FormatRecipeIngredients(ingredients []RecipeIngredient) string {
	if len(ingredients) == 0 {
		return ""
	}

	var parts []string
	for _, ing := range ingredients {
		unit := ing.Unit
		if unit == "" {
			unit = "units"
		}
		parts = append(parts, fmt.Sprintf("%g %s of %s", ing.Quantity, unit, ing.Name))
	}
	return strings.Join(parts, ", ")
}
