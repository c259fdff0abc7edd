package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kitchen-assistant/internal/infrastructure/config"
	"kitchen-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// RecipeCache 食譜會話快取
// 以 (使用者, 食譜名稱) 為鍵，容量與存活時間皆有上限，
// 滿了之後先清過期項目再做 LRU 淘汰
type RecipeCache struct {
	config *config.Config
	mu     sync.Mutex
	store  map[string]cacheEntry
	stats  cacheStats
}

// cacheEntry 緩存條目
type cacheEntry struct {
	recipe      *common.Recipe
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewRecipeCache 創建食譜會話快取
func NewRecipeCache(cfg *config.Config) *RecipeCache {
	if !cfg.Cache.Enabled {
		common.LogInfo("食譜快取已停用")
		return nil
	}

	m := &RecipeCache{
		config: cfg,
		store:  make(map[string]cacheEntry),
	}

	// 啟動清理過期緩存的協程
	go m.startCleanup()

	common.LogInfo("食譜快取已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Duration("清理間隔", cfg.Cache.CleanupInterval),
	)

	return m
}

// Get 以使用者與食譜名稱查詢會話快取
func (m *RecipeCache) Get(ctx context.Context, owner, name string) (*common.Recipe, error) {
	if m == nil || !m.config.Cache.Enabled {
		return nil, common.ErrCacheDisabled
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.generateKey(owner, name)

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss("recipe", key)
		return nil, common.ErrRecipeNotFound
	}

	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogInfo("快取已過期",
			zap.String("鍵", key),
		)
		return nil, common.ErrRecipeNotFound
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++

	common.LogCacheHit("recipe", key)
	return entry.recipe, nil
}

// Set 寫入會話快取；同鍵覆寫舊食譜
func (m *RecipeCache) Set(ctx context.Context, owner, name string, recipe *common.Recipe) error {
	if m == nil || !m.config.Cache.Enabled {
		return nil
	}
	if recipe == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.generateKey(owner, name)

	// 覆寫既有鍵不計入容量
	if _, exists := m.store[key]; !exists && len(m.store) >= m.config.Cache.MaxSize {
		evicted := m.cleanup()
		common.LogInfo("快取清理執行",
			zap.Int("清理數量", evicted),
		)

		if len(m.store) >= m.config.Cache.MaxSize {
			m.evictLRU()
		}

		if len(m.store) >= m.config.Cache.MaxSize {
			m.stats.errors++
			common.LogWarn("快取已滿",
				zap.Int("目前容量", len(m.store)),
			)
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	m.store[key] = cacheEntry{
		recipe:     recipe,
		expiresAt:  now.Add(m.config.Cache.TTL),
		createdAt:  now,
		lastAccess: now,
	}

	common.LogDebug("快取已儲存",
		zap.String("鍵", key),
	)

	return nil
}

// Delete 移除指定使用者的指定食譜
func (m *RecipeCache) Delete(ctx context.Context, owner, name string) {
	if m == nil || !m.config.Cache.Enabled {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, m.generateKey(owner, name))
}

// generateKey 生成緩存鍵
// 名稱先正規化，"Tomato Soup" 與 "tomato soup" 視為同一份
func (m *RecipeCache) generateKey(owner, name string) string {
	return fmt.Sprintf("%s:%s", owner, common.NormalizeName(name))
}

// startCleanup 啟動清理過期緩存的協程
func (m *RecipeCache) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		m.cleanup()
		m.mu.Unlock()
	}
}

// cleanup 清理過期的緩存，呼叫方需持有鎖
func (m *RecipeCache) cleanup() int {
	now := time.Now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	return count
}

// evictLRU 淘汰最少使用的項目，呼叫方需持有鎖
func (m *RecipeCache) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogInfo("快取已淘汰(LRU)",
			zap.String("鍵", oldestKey),
		)
	}
}

// GetStats 獲取緩存統計信息
func (m *RecipeCache) GetStats() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{"enabled": false}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.stats.hits + m.stats.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": ratio,
	}
}

// Close 關閉緩存管理器
func (m *RecipeCache) Close() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]cacheEntry)
	common.LogInfo("食譜快取已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)
	return nil
}
