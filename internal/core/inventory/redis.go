package inventory

import (
	"context"
	"encoding/json"
	"fmt"

	"kitchen-assistant/internal/infrastructure/config"
	"kitchen-assistant/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisStore 以 Redis hash 保存庫存
// 每位使用者一個 hash，field 為正規化後的品項名稱
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 創建 Redis 庫存持久層
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) key(owner string) string {
	return fmt.Sprintf("inventory:%s", owner)
}

// GetAll 取回指定使用者的全部品項
func (s *RedisStore) GetAll(ctx context.Context, owner string) ([]common.InventoryItem, error) {
	fields, err := s.client.HGetAll(ctx, s.key(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	items := make([]common.InventoryItem, 0, len(fields))
	for _, raw := range fields {
		var item common.InventoryItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal inventory item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Put 新增或覆寫品項
func (s *RedisStore) Put(ctx context.Context, owner string, item common.InventoryItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory item: %w", err)
	}

	if err := s.client.HSet(ctx, s.key(owner), common.NormalizeName(item.Name), data).Err(); err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}
	return nil
}

// Delete 移除品項
func (s *RedisStore) Delete(ctx context.Context, owner, name string) error {
	if err := s.client.HDel(ctx, s.key(owner), common.NormalizeName(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}

// Clear 清空指定使用者的庫存
func (s *RedisStore) Clear(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.key(owner)).Err(); err != nil {
		return fmt.Errorf("failed to clear inventory: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
