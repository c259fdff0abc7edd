package shopping

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"kitchen-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// 建議補貨量的下限，就算門檻很低也至少買到這個量
const minSuggestedQuantity = 3.0

// Agent 購物清單代理
// 依庫存量與門檻產生補貨建議，並維護使用者的購物清單
type Agent struct {
	store            Store
	defaultThreshold float64
}

// NewAgent 創建購物清單代理
func NewAgent(store Store, defaultThreshold float64) *Agent {
	if defaultThreshold < 0 {
		defaultThreshold = 0
	}
	return &Agent{
		store:            store,
		defaultThreshold: defaultThreshold,
	}
}

// Generate 掃描庫存產生補貨建議
// 數量小於等於門檻即入選；歸零的品項優先級為 high，
// 其餘為 medium；結果依優先級再依名稱排序
func (a *Agent) Generate(ctx context.Context, owner string, items []common.InventoryItem) ([]common.ShoppingSuggestion, error) {
	thresholds, err := a.store.GetThresholds(ctx, owner)
	if err != nil {
		return nil, err
	}

	var suggestions []common.ShoppingSuggestion
	for _, item := range items {
		threshold := a.defaultThreshold
		if custom, ok := thresholds[common.NormalizeName(item.Name)]; ok {
			threshold = custom
		}

		if item.Quantity > threshold {
			continue
		}

		priority := common.PriorityMedium
		if item.Quantity == 0 {
			priority = common.PriorityHigh
		}

		suggested := 2 * threshold
		if suggested < minSuggestedQuantity {
			suggested = minSuggestedQuantity
		}

		suggestions = append(suggestions, common.ShoppingSuggestion{
			Name:              item.Name,
			CurrentQuantity:   item.Quantity,
			Unit:              item.Unit,
			Threshold:         threshold,
			SuggestedQuantity: suggested,
			Priority:          priority,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Priority != suggestions[j].Priority {
			return suggestions[i].Priority == common.PriorityHigh
		}
		return common.NormalizeName(suggestions[i].Name) < common.NormalizeName(suggestions[j].Name)
	})

	common.LogInfo("補貨建議已產生",
		zap.String("使用者", owner),
		zap.Int("建議數", len(suggestions)),
	)
	return suggestions, nil
}

// AddSuggestions 把補貨建議寫入購物清單
// 只覆寫同名的未勾選項目；已勾選的項目不動，另立新的
// 未勾選項目
func (a *Agent) AddSuggestions(ctx context.Context, owner string, suggestions []common.ShoppingSuggestion) error {
	for _, s := range suggestions {
		entry := common.ShoppingListEntry{
			Name:            s.Name,
			QuantityDisplay: fmt.Sprintf("%g %s", s.SuggestedQuantity, s.Unit),
			Checked:         false,
			Owner:           owner,
		}
		if err := a.store.PutEntry(ctx, owner, entry); err != nil {
			return err
		}
	}
	return nil
}

// AddEntry 手動加入購物清單項目
func (a *Agent) AddEntry(ctx context.Context, owner, name, quantityDisplay string) (*common.ShoppingListEntry, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.ErrInvalidInput.WithMessage("item name is required")
	}

	entry := common.ShoppingListEntry{
		Name:            strings.TrimSpace(name),
		QuantityDisplay: strings.TrimSpace(quantityDisplay),
		Checked:         false,
		Owner:           owner,
	}
	if err := a.store.PutEntry(ctx, owner, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List 取回購物清單，未勾選在前、同組依名稱排序
func (a *Agent) List(ctx context.Context, owner string) ([]common.ShoppingListEntry, error) {
	entries, err := a.store.GetEntries(ctx, owner)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Checked != entries[j].Checked {
			return !entries[i].Checked
		}
		return common.NormalizeName(entries[i].Name) < common.NormalizeName(entries[j].Name)
	})
	return entries, nil
}

// SetChecked 勾選或取消勾選購物清單項目
// 同名項目可能同時有已勾選與未勾選兩筆，優先翻轉狀態
// 相反的那筆；翻轉時兩筆合併成一筆
func (a *Agent) SetChecked(ctx context.Context, owner, name string, checked bool) (*common.ShoppingListEntry, error) {
	entries, err := a.store.GetEntries(ctx, owner)
	if err != nil {
		return nil, err
	}

	target := common.NormalizeName(name)
	var sameState *common.ShoppingListEntry
	for i := range entries {
		if common.NormalizeName(entries[i].Name) != target {
			continue
		}
		if entries[i].Checked == checked {
			sameState = &entries[i]
			continue
		}

		entry := entries[i]
		if err := a.store.DeleteEntry(ctx, owner, entry.Name); err != nil {
			return nil, err
		}
		entry.Checked = checked
		if err := a.store.PutEntry(ctx, owner, entry); err != nil {
			return nil, err
		}
		return &entry, nil
	}

	if sameState != nil {
		return sameState, nil
	}
	return nil, common.ErrItemNotFound.WithMessage(fmt.Sprintf("'%s' is not on your shopping list", name))
}

// RemoveEntry 移除購物清單項目
func (a *Agent) RemoveEntry(ctx context.Context, owner, name string) error {
	return a.store.DeleteEntry(ctx, owner, name)
}

// Clear 清空購物清單
func (a *Agent) Clear(ctx context.Context, owner string) error {
	return a.store.ClearEntries(ctx, owner)
}

// SetThreshold 設定品項的補貨門檻
func (a *Agent) SetThreshold(ctx context.Context, owner, name string, value float64) error {
	if strings.TrimSpace(name) == "" {
		return common.ErrInvalidInput.WithMessage("item name is required")
	}
	if value < 0 {
		return common.ErrInvalidInput.WithMessage("threshold cannot be negative")
	}
	return a.store.SetThreshold(ctx, owner, name, value)
}
