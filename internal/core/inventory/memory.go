package inventory

import (
	"context"
	"sync"

	"kitchen-assistant/internal/pkg/common"
)

// MemoryStore 行程內庫存持久層
// 未設定 Redis 時的退路，測試也以此為準
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]common.InventoryItem
}

// NewMemoryStore 創建行程內庫存持久層
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]map[string]common.InventoryItem),
	}
}

// GetAll 取回指定使用者的全部品項
func (s *MemoryStore) GetAll(ctx context.Context, owner string) ([]common.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ownerItems := s.items[owner]
	items := make([]common.InventoryItem, 0, len(ownerItems))
	for _, item := range ownerItems {
		items = append(items, item)
	}
	return items, nil
}

// Put 新增或覆寫品項
func (s *MemoryStore) Put(ctx context.Context, owner string, item common.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items[owner] == nil {
		s.items[owner] = make(map[string]common.InventoryItem)
	}
	s.items[owner][common.NormalizeName(item.Name)] = item
	return nil
}

// Delete 移除品項
func (s *MemoryStore) Delete(ctx context.Context, owner, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items[owner], common.NormalizeName(name))
	return nil
}

// Clear 清空指定使用者的庫存
func (s *MemoryStore) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, owner)
	return nil
}
