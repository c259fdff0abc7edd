package inventory

import (
	"context"

	"kitchen-assistant/internal/pkg/common"
)

// Store 庫存持久層
// 以使用者分隔命名空間，品項鍵為正規化後的名稱
type Store interface {
	// GetAll 取回指定使用者的全部品項
	GetAll(ctx context.Context, owner string) ([]common.InventoryItem, error)
	// Put 新增或覆寫品項
	Put(ctx context.Context, owner string, item common.InventoryItem) error
	// Delete 移除品項，品項不存在視為成功
	Delete(ctx context.Context, owner, name string) error
	// Clear 清空指定使用者的庫存
	Clear(ctx context.Context, owner string) error
}
