package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"kitchen-assistant/internal/core/unit"
	"kitchen-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// 剩餘量低於此值視為歸零，品項直接移除
const quantityEpsilon = 1e-9

// Agent 庫存操作代理
// 模糊比對、單位換算、不足檢查都集中在這一層，
// 持久層只負責讀寫
type Agent struct {
	store Store
}

// NewAgent 創建庫存操作代理
func NewAgent(store Store) *Agent {
	return &Agent{store: store}
}

// List 取回庫存，依名稱排序
func (a *Agent) List(ctx context.Context, owner string) ([]common.InventoryItem, error) {
	items, err := a.store.GetAll(ctx, owner)
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		return common.NormalizeName(items[i].Name) < common.NormalizeName(items[j].Name)
	})
	return items, nil
}

// Find 模糊尋找品項：先找完全一致，再找子字串包含
// 完全一致永遠優先，"milk" 不會在有 "milk" 時配到 "oat milk"
func (a *Agent) Find(ctx context.Context, owner, name string) (*common.InventoryItem, error) {
	items, err := a.store.GetAll(ctx, owner)
	if err != nil {
		return nil, err
	}
	return findItem(items, name), nil
}

func findItem(items []common.InventoryItem, name string) *common.InventoryItem {
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
	return nil
}

// Add 入庫
// 已有品項時換算成既有單位後累加，跨類別換不過去就
// 直接把數字加上去並保留既有單位，寧可不精確也不丟資料
func (a *Agent) Add(ctx context.Context, owner, name string, qty float64, unitToken string) (*common.InventoryItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.ErrInvalidInput.WithMessage("item name is required")
	}
	if qty <= 0 {
		qty = 1.0
	}

	canonical := unit.Normalize(unitToken)

	existing, err := a.Find(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		converted, ok := unit.Convert(qty, canonical, existing.Unit)
		if ok {
			existing.Quantity += converted
		} else {
			common.LogWarn("單位無法換算，直接合併數量",
				zap.String("品項", existing.Name),
				zap.String("既有單位", existing.Unit),
				zap.String("新單位", canonical),
			)
			existing.Quantity += qty
		}
		if err := a.store.Put(ctx, owner, *existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	// 新品項以基準單位入庫，之後的累加就不需要再换算
	storedQty, storedUnit := qty, canonical
	if base := unit.BaseUnit(canonical); base != canonical {
		if converted, ok := unit.Convert(qty, canonical, base); ok {
			storedQty, storedUnit = converted, base
		}
	}

	item := common.InventoryItem{
		Name:     strings.TrimSpace(name),
		Quantity: storedQty,
		Unit:     storedUnit,
		Owner:    owner,
	}
	if err := a.store.Put(ctx, owner, item); err != nil {
		return nil, err
	}

	common.LogInfo("品項已入庫",
		zap.String("品項", item.Name),
		zap.Float64("數量", item.Quantity),
		zap.String("單位", item.Unit),
	)
	return &item, nil
}

// Remove 出庫
// qty 為 nil 時移除整個品項；扣到零（含誤差）也移除品項。
// 庫存不足時不做任何變更
func (a *Agent) Remove(ctx context.Context, owner, name string, qty *float64, unitToken string) (*common.InventoryItem, error) {
	existing, err := a.Find(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, common.ErrItemNotFound.WithMessage(fmt.Sprintf("'%s' is not in your inventory", name))
	}

	if qty == nil {
		if err := a.store.Delete(ctx, owner, existing.Name); err != nil {
			return nil, err
		}
		removed := *existing
		removed.Quantity = 0
		return &removed, nil
	}

	canonical := unit.Normalize(unitToken)
	toRemove, ok := unit.Convert(*qty, canonical, existing.Unit)
	if !ok {
		common.LogWarn("單位無法換算，以數字直接比較",
			zap.String("品項", existing.Name),
			zap.String("既有單位", existing.Unit),
			zap.String("請求單位", canonical),
		)
		toRemove = *qty
	}

	if toRemove > existing.Quantity+quantityEpsilon {
		return nil, common.ErrInsufficientQuantity.WithMessage(fmt.Sprintf(
			"you only have %g %s of %s", existing.Quantity, existing.Unit, existing.Name))
	}

	existing.Quantity -= toRemove
	if existing.Quantity <= quantityEpsilon {
		if err := a.store.Delete(ctx, owner, existing.Name); err != nil {
			return nil, err
		}
		existing.Quantity = 0
		return existing, nil
	}

	if err := a.store.Put(ctx, owner, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Update 以絕對值覆寫數量與單位，不做任何換算
// 冪等 upsert：品項不存在就直接建立
func (a *Agent) Update(ctx context.Context, owner, name string, qty float64, unitToken string) (*common.InventoryItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.ErrInvalidInput.WithMessage("item name is required")
	}
	if qty < 0 {
		return nil, common.ErrInvalidInput.WithMessage("quantity cannot be negative")
	}

	existing, err := a.Find(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		item := common.InventoryItem{
			Name:     strings.TrimSpace(name),
			Quantity: qty,
			Unit:     unit.Normalize(unitToken),
			Owner:    owner,
		}
		if item.Quantity <= quantityEpsilon {
			item.Quantity = 0
			return &item, nil
		}
		if err := a.store.Put(ctx, owner, item); err != nil {
			return nil, err
		}
		common.LogInfo("品項已建立",
			zap.String("品項", item.Name),
			zap.Float64("數量", item.Quantity),
			zap.String("單位", item.Unit),
		)
		return &item, nil
	}

	existing.Quantity = qty
	if strings.TrimSpace(unitToken) != "" {
		existing.Unit = unit.Normalize(unitToken)
	}

	if existing.Quantity <= quantityEpsilon {
		if err := a.store.Delete(ctx, owner, existing.Name); err != nil {
			return nil, err
		}
		existing.Quantity = 0
		return existing, nil
	}

	if err := a.store.Put(ctx, owner, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Clear 清空庫存
func (a *Agent) Clear(ctx context.Context, owner string) error {
	return a.store.Clear(ctx, owner)
}

// Summary 庫存的口語化摘要，最多唸出五項
func (a *Agent) Summary(ctx context.Context, owner string) (string, error) {
	items, err := a.List(ctx, owner)
	if err != nil {
		return "", err
	}

	if len(items) == 0 {
		return "Your inventory is empty.", nil
	}

	const spokenLimit = 5
	var parts []string
	for i, item := range items {
		if i >= spokenLimit {
			break
		}
		parts = append(parts, fmt.Sprintf("%g %s of %s", item.Quantity, item.Unit, item.Name))
	}

	summary := fmt.Sprintf("You have %d items: %s", len(items), strings.Join(parts, ", "))
	if len(items) > spokenLimit {
		summary += fmt.Sprintf(", and %d more", len(items)-spokenLimit)
	}
	return summary + ".", nil
}
