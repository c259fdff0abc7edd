package shopping

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"kitchen-assistant/internal/infrastructure/config"
	"kitchen-assistant/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisStore 以 Redis hash 保存購物清單與補貨門檻
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 創建 Redis 購物清單持久層
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient 共用既有連線
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) listKey(owner string) string {
	return fmt.Sprintf("shopping:%s", owner)
}

func (s *RedisStore) thresholdKey(owner string) string {
	return fmt.Sprintf("thresholds:%s", owner)
}

// GetEntries 取回購物清單項目
func (s *RedisStore) GetEntries(ctx context.Context, owner string) ([]common.ShoppingListEntry, error) {
	fields, err := s.client.HGetAll(ctx, s.listKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}

	entries := make([]common.ShoppingListEntry, 0, len(fields))
	for _, raw := range fields {
		var entry common.ShoppingListEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shopping entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// PutEntry 新增或覆寫購物清單項目
// hash field 帶勾選狀態，已勾選與未勾選的同名項目並存
func (s *RedisStore) PutEntry(ctx context.Context, owner string, entry common.ShoppingListEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping entry: %w", err)
	}

	if err := s.client.HSet(ctx, s.listKey(owner), entryKey(entry.Name, entry.Checked), data).Err(); err != nil {
		return fmt.Errorf("failed to save shopping entry: %w", err)
	}
	return nil
}

// DeleteEntry 移除同名項目的所有狀態
func (s *RedisStore) DeleteEntry(ctx context.Context, owner, name string) error {
	if err := s.client.HDel(ctx, s.listKey(owner), entryKey(name, false), entryKey(name, true)).Err(); err != nil {
		return fmt.Errorf("failed to delete shopping entry: %w", err)
	}
	return nil
}

// ClearEntries 清空購物清單
func (s *RedisStore) ClearEntries(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.listKey(owner)).Err(); err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}
	return nil
}

// GetThresholds 取回使用者自訂的門檻
func (s *RedisStore) GetThresholds(ctx context.Context, owner string) (map[string]float64, error) {
	fields, err := s.client.HGetAll(ctx, s.thresholdKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load thresholds: %w", err)
	}

	thresholds := make(map[string]float64, len(fields))
	for name, raw := range fields {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse threshold for %s: %w", name, err)
		}
		thresholds[name] = value
	}
	return thresholds, nil
}

// SetThreshold 設定品項門檻
func (s *RedisStore) SetThreshold(ctx context.Context, owner, name string, value float64) error {
	field := common.NormalizeName(name)
	if err := s.client.HSet(ctx, s.thresholdKey(owner), field, strconv.FormatFloat(value, 'g', -1, 64)).Err(); err != nil {
		return fmt.Errorf("failed to save threshold: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
