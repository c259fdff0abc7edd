package shopping

import (
	"context"

	"kitchen-assistant/internal/pkg/common"
)

// Store 購物清單持久層
// 清單項目與各品項的補貨門檻分開保存，都以使用者分隔
type Store interface {
	GetEntries(ctx context.Context, owner string) ([]common.ShoppingListEntry, error)
	PutEntry(ctx context.Context, owner string, entry common.ShoppingListEntry) error
	DeleteEntry(ctx context.Context, owner, name string) error
	ClearEntries(ctx context.Context, owner string) error

	// GetThresholds 取回使用者自訂的門檻，鍵為正規化品項名稱
	GetThresholds(ctx context.Context, owner string) (map[string]float64, error)
	SetThreshold(ctx context.Context, owner, name string, value float64) error
}

// entryKey 清單項目的保存鍵
// 名稱之外帶上勾選狀態，讓已勾選的舊項目不會被同名的
// 新需求覆寫掉
func entryKey(name string, checked bool) string {
	if checked {
		return common.NormalizeName(name) + "|1"
	}
	return common.NormalizeName(name) + "|0"
}
