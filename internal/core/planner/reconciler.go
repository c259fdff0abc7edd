package planner

import (
	"context"
	"fmt"
	"strings"

	"kitchen-assistant/internal/core/inventory"
	"kitchen-assistant/internal/core/shopping"
	"kitchen-assistant/internal/core/unit"
	"kitchen-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// 比對食材名稱前先剝掉的修飾詞
// 食譜寫 "fresh tomatoes"、庫存存 "tomatoes" 是常態
var ingredientQualifiers = []string{
	"fresh", "dried", "chopped", "sliced", "diced", "frozen", "organic",
}

// ConfirmResult 食譜確認結果
type ConfirmResult struct {
	RecipeName string   `json:"recipe_name"`
	Removed    []string `json:"removed_items"`
	Shortfalls []string `json:"shortfall_items"`
	Message    string   `json:"message"`
}

// Reconciler 食譜確認代理
// 把確認下廚的食譜逐項對到庫存並扣帳，找不到或不夠的
// 食材進購物清單；單一食材失敗不會中斷整份食譜
type Reconciler struct {
	planner   *Service
	inventory *inventory.Agent
	shopping  *shopping.Agent
}

// NewReconciler 創建食譜確認代理
func NewReconciler(planner *Service, inventoryAgent *inventory.Agent, shoppingAgent *shopping.Agent) *Reconciler {
	return &Reconciler{
		planner:   planner,
		inventory: inventoryAgent,
		shopping:  shoppingAgent,
	}
}

// Confirm 套用先前生成的食譜
// servings 為零時沿用食譜宣告的份數
func (r *Reconciler) Confirm(ctx context.Context, owner, recipeName string, servings int) (*ConfirmResult, error) {
	recipe, err := r.planner.Cached(ctx, owner, recipeName)
	if err != nil {
		return nil, common.ErrRecipeNotFound.WithMessage(
			"Recipe not found. Please generate a recipe first.")
	}

	factor := 1.0
	if servings > 0 && recipe.Servings > 0 && servings != recipe.Servings {
		factor = float64(servings) / float64(recipe.Servings)
	}

	items, err := r.inventory.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	result := &ConfirmResult{RecipeName: recipe.Name}

	for _, ing := range recipe.Ingredients {
		needed := ing.Quantity * factor
		if needed <= 0 {
			continue
		}

		matched := matchIngredient(items, ing.Name)
		if matched == nil {
			common.LogWarn("庫存中找不到食材",
				zap.String("食材", ing.Name),
			)
			r.addShortfall(ctx, owner, result, ing.Name, needed, ing.Unit)
			continue
		}

		available, deductible := deductibleQuantity(needed, ing.Unit, matched)
		if !deductible {
			common.LogWarn("食材單位無法對齊，整筆需求進購物清單",
				zap.String("食材", ing.Name),
				zap.String("食譜單位", ing.Unit),
				zap.String("庫存單位", matched.Unit),
			)
			r.addShortfall(ctx, owner, result, ing.Name, needed, ing.Unit)
			continue
		}

		if available >= matched.Quantity {
			shortfall := available - matched.Quantity
			if _, err := r.inventory.Remove(ctx, owner, matched.Name, nil, ""); err != nil {
				common.LogWarn("食材扣帳失敗，整筆需求進購物清單",
					zap.String("食材", matched.Name),
					zap.Error(err),
				)
				r.addShortfall(ctx, owner, result, ing.Name, needed, ing.Unit)
				continue
			}
			result.Removed = append(result.Removed, matched.Name)
			if shortfall > 1e-9 {
				r.addShortfall(ctx, owner, result, matched.Name, shortfall, matched.Unit)
			}
			continue
		}

		qty := available
		if _, err := r.inventory.Remove(ctx, owner, matched.Name, &qty, matched.Unit); err != nil {
			common.LogWarn("食材扣帳失敗，整筆需求進購物清單",
				zap.String("食材", matched.Name),
				zap.Error(err),
			)
			r.addShortfall(ctx, owner, result, ing.Name, needed, ing.Unit)
			continue
		}
		result.Removed = append(result.Removed, matched.Name)
	}

	result.Message = confirmMessage(recipe.Name, result)

	common.LogInfo("食譜已確認",
		zap.String("食譜", recipe.Name),
		zap.Int("扣帳食材數", len(result.Removed)),
		zap.Int("缺料數", len(result.Shortfalls)),
	)
	return result, nil
}

// addShortfall 把缺料寫進購物清單，失敗僅記錄
// 通用單位不拼進顯示字串，"1 units" 唸起來不像人話
func (r *Reconciler) addShortfall(ctx context.Context, owner string, result *ConfirmResult, name string, qty float64, unitToken string) {
	display := fmt.Sprintf("%g", qty)
	if canonical := unit.Normalize(unitToken); canonical != unit.GenericUnit {
		display = fmt.Sprintf("%g %s", qty, canonical)
	}
	if _, err := r.shopping.AddEntry(ctx, owner, name, display); err != nil {
		common.LogWarn("缺料寫入購物清單失敗",
			zap.String("食材", name),
			zap.Error(err),
		)
		return
	}
	result.Shortfalls = append(result.Shortfalls, name)
}

// matchIngredient 食材與庫存的比對串
// 依序嘗試：完全一致、子字串、剝修飾詞後一致、剝修飾詞
// 後子字串；全數落空回 nil
func matchIngredient(items []common.InventoryItem, name string) *common.InventoryItem {
	target := common.NormalizeName(name)
	if target == "" {
		return nil
	}

	for i := range items {
		if common.NormalizeName(items[i].Name) == target {
			return &items[i]
		}
	}

	for i := range items {
		stored := common.NormalizeName(items[i].Name)
		if strings.Contains(stored, target) || strings.Contains(target, stored) {
			return &items[i]
		}
	}

	stripped := stripQualifiers(target)
	if stripped == target || stripped == "" {
		return nil
	}

	for i := range items {
		if stripQualifiers(common.NormalizeName(items[i].Name)) == stripped {
			return &items[i]
		}
	}

	for i := range items {
		stored := stripQualifiers(common.NormalizeName(items[i].Name))
		if stored == "" {
			continue
		}
		if strings.Contains(stored, stripped) || strings.Contains(stripped, stored) {
			return &items[i]
		}
	}
	return nil
}

// stripQualifiers 去掉名稱中的修飾詞
func stripQualifiers(name string) string {
	words := strings.Fields(name)
	var kept []string
	for _, word := range words {
		qualifier := false
		for _, q := range ingredientQualifiers {
			if word == q {
				qualifier = true
				break
			}
		}
		if !qualifier {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// deductibleQuantity 把食譜需求量換算成庫存單位
// 換算不了但單位互為別名（或同屬計數單位）時以數字直算；
// 真的對不上就表示不可扣帳
func deductibleQuantity(needed float64, ingUnit string, item *common.InventoryItem) (float64, bool) {
	if converted, ok := unit.Convert(needed, unit.Normalize(ingUnit), item.Unit); ok {
		return converted, true
	}
	if unit.AliasCompatible(ingUnit, item.Unit) {
		return needed, true
	}
	return 0, false
}

// confirmMessage 確認結果的口語回覆
func confirmMessage(recipeName string, result *ConfirmResult) string {
	if len(result.Removed) == 0 && len(result.Shortfalls) == 0 {
		return fmt.Sprintf("Applied recipe '%s'. No inventory changes were needed.", recipeName)
	}

	msg := fmt.Sprintf("Applied recipe '%s'.", recipeName)
	if len(result.Removed) > 0 {
		msg += fmt.Sprintf(" Removed ingredients: %s.", strings.Join(result.Removed, ", "))
	}
	if len(result.Shortfalls) > 0 {
		msg += fmt.Sprintf(" Added to your shopping list: %s.", strings.Join(result.Shortfalls, ", "))
	}
	return msg
}
