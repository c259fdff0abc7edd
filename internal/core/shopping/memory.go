package shopping

import (
	"context"
	"sync"

	"kitchen-assistant/internal/pkg/common"
)

// MemoryStore 行程內購物清單持久層
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]map[string]common.ShoppingListEntry
	thresholds map[string]map[string]float64
}

// NewMemoryStore 創建行程內購物清單持久層
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]map[string]common.ShoppingListEntry),
		thresholds: make(map[string]map[string]float64),
	}
}

// GetEntries 取回購物清單項目
func (s *MemoryStore) GetEntries(ctx context.Context, owner string) ([]common.ShoppingListEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ownerEntries := s.entries[owner]
	entries := make([]common.ShoppingListEntry, 0, len(ownerEntries))
	for _, entry := range ownerEntries {
		entries = append(entries, entry)
	}
	return entries, nil
}

// PutEntry 新增或覆寫購物清單項目
// 鍵包含勾選狀態：已勾選與未勾選的同名項目可以並存，
// 覆寫只發生在同狀態之間
func (s *MemoryStore) PutEntry(ctx context.Context, owner string, entry common.ShoppingListEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries[owner] == nil {
		s.entries[owner] = make(map[string]common.ShoppingListEntry)
	}
	s.entries[owner][entryKey(entry.Name, entry.Checked)] = entry
	return nil
}

// DeleteEntry 移除同名項目的所有狀態
func (s *MemoryStore) DeleteEntry(ctx context.Context, owner, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries[owner], entryKey(name, false))
	delete(s.entries[owner], entryKey(name, true))
	return nil
}

// ClearEntries 清空購物清單
func (s *MemoryStore) ClearEntries(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, owner)
	return nil
}

// GetThresholds 取回使用者自訂的門檻
func (s *MemoryStore) GetThresholds(ctx context.Context, owner string) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	thresholds := make(map[string]float64, len(s.thresholds[owner]))
	for name, value := range s.thresholds[owner] {
		thresholds[name] = value
	}
	return thresholds, nil
}

// SetThreshold 設定品項門檻
func (s *MemoryStore) SetThreshold(ctx context.Context, owner, name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.thresholds[owner] == nil {
		s.thresholds[owner] = make(map[string]float64)
	}
	s.thresholds[owner][common.NormalizeName(name)] = value
	return nil
}
