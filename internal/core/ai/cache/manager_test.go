package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"kitchen-assistant/internal/infrastructure/config"
	"kitchen-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "tester"

func newTestCache(t *testing.T, maxSize int, ttl time.Duration) *RecipeCache {
	t.Helper()
	cfg := &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Minute,
		},
	}
	c := NewRecipeCache(cfg)
	require.NotNil(t, c)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testRecipe(name string) *common.Recipe {
	return &common.Recipe{
		Name:         name,
		Servings:     4,
		Ingredients:  []common.RecipeIngredient{{Name: "rice", Quantity: 1, Unit: "cup"}},
		Instructions: []string{"Cook."},
	}
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 16, time.Minute)

	require.NoError(t, c.Set(ctx, testOwner, "Fried Rice", testRecipe("Fried Rice")))

	got, err := c.Get(ctx, testOwner, "Fried Rice")
	require.NoError(t, err)
	assert.Equal(t, "Fried Rice", got.Name)
}

// 鍵名先正規化，大小寫與空白不影響查詢
func TestKeyNormalization(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 16, time.Minute)

	require.NoError(t, c.Set(ctx, testOwner, "Tomato Soup", testRecipe("Tomato Soup")))

	got, err := c.Get(ctx, testOwner, "  tomato soup ")
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", got.Name)
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t, 16, time.Minute)

	_, err := c.Get(context.Background(), testOwner, "never cached")
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))
}

func TestOwnersDoNotShareEntries(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 16, time.Minute)

	require.NoError(t, c.Set(ctx, "alice", "Fried Rice", testRecipe("Fried Rice")))

	_, err := c.Get(ctx, "bob", "Fried Rice")
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))
}

func TestExpiredEntryIsEvicted(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 16, time.Nanosecond)

	require.NoError(t, c.Set(ctx, testOwner, "Fried Rice", testRecipe("Fried Rice")))
	time.Sleep(time.Millisecond)

	_, err := c.Get(ctx, testOwner, "Fried Rice")
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))
}

// 容量滿時淘汰最少使用的項目
func TestEvictLRU(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 2, time.Minute)

	require.NoError(t, c.Set(ctx, testOwner, "first", testRecipe("first")))
	require.NoError(t, c.Set(ctx, testOwner, "second", testRecipe("second")))

	// 拉高 first 的使用次數，second 成為淘汰對象
	_, err := c.Get(ctx, testOwner, "first")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, testOwner, "third", testRecipe("third")))

	_, err = c.Get(ctx, testOwner, "first")
	assert.NoError(t, err)
	_, err = c.Get(ctx, testOwner, "second")
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))
	_, err = c.Get(ctx, testOwner, "third")
	assert.NoError(t, err)
}

// 覆寫既有鍵不受容量上限影響
func TestOverwriteExistingKey(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 1, time.Minute)

	require.NoError(t, c.Set(ctx, testOwner, "Fried Rice", testRecipe("Fried Rice")))

	updated := testRecipe("Fried Rice")
	updated.Servings = 8
	require.NoError(t, c.Set(ctx, testOwner, "Fried Rice", updated))

	got, err := c.Get(ctx, testOwner, "Fried Rice")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Servings)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 16, time.Minute)

	require.NoError(t, c.Set(ctx, testOwner, "Fried Rice", testRecipe("Fried Rice")))
	c.Delete(ctx, testOwner, "Fried Rice")

	_, err := c.Get(ctx, testOwner, "Fried Rice")
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))
}

// 停用的快取以 nil 表示，所有操作都要安全
func TestNilCacheIsSafe(t *testing.T) {
	var c *RecipeCache

	assert.NoError(t, c.Set(context.Background(), testOwner, "Fried Rice", testRecipe("Fried Rice")))
	_, err := c.Get(context.Background(), testOwner, "Fried Rice")
	assert.True(t, errors.Is(err, common.ErrCacheDisabled))
	c.Delete(context.Background(), testOwner, "Fried Rice")
	assert.NoError(t, c.Close())
	assert.Equal(t, map[string]interface{}{"enabled": false}, c.GetStats())
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 16, time.Minute)

	require.NoError(t, c.Set(ctx, testOwner, "Fried Rice", testRecipe("Fried Rice")))
	_, _ = c.Get(ctx, testOwner, "Fried Rice")
	_, _ = c.Get(ctx, testOwner, "missing")

	stats := c.GetStats()
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}
