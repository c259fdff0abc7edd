package inventory

import (
	"context"
	"errors"
	"testing"

	"kitchen-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "tester"

func newTestAgent() *Agent {
	return NewAgent(NewMemoryStore())
}

func qty(v float64) *float64 { return &v }

func TestAddStoresInBaseUnit(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	item, err := agent.Add(ctx, testOwner, "rice", 1, "kg")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, item.Quantity)
	assert.Equal(t, "g", item.Unit)
}

func TestAddMergesWithConversion(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "rice", 1, "kg")
	require.NoError(t, err)

	item, err := agent.Add(ctx, testOwner, "rice", 500, "grams")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, item.Quantity)
	assert.Equal(t, "g", item.Unit)
}

// 跨類別換不過去時直接合併數字，保留既有單位
func TestAddMergesIncompatibleUnits(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "milk", 2, "liters")
	require.NoError(t, err)

	item, err := agent.Add(ctx, testOwner, "milk", 1, "kg")
	require.NoError(t, err)
	assert.Equal(t, 3.0, item.Quantity)
	assert.Equal(t, "l", item.Unit)
}

func TestAddDefaultsQuantity(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	item, err := agent.Add(ctx, testOwner, "eggs", 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, "units", item.Unit)
}

func TestAddRejectsEmptyName(t *testing.T) {
	_, err := newTestAgent().Add(context.Background(), testOwner, "   ", 1, "")
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestRemoveInsufficientQuantity(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "juice", 2, "liters")
	require.NoError(t, err)

	_, err = agent.Remove(ctx, testOwner, "juice", qty(5), "liters")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInsufficientQuantity))

	// 不足時不得動到庫存
	item, err := agent.Find(ctx, testOwner, "juice")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 2.0, item.Quantity)
}

func TestRemoveExactQuantityDeletesItem(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "juice", 2, "liters")
	require.NoError(t, err)

	removed, err := agent.Remove(ctx, testOwner, "juice", qty(2), "liters")
	require.NoError(t, err)
	assert.Equal(t, 0.0, removed.Quantity)

	item, err := agent.Find(ctx, testOwner, "juice")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestRemoveConvertsUnits(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "flour", 1, "kg")
	require.NoError(t, err)

	item, err := agent.Remove(ctx, testOwner, "flour", qty(300), "grams")
	require.NoError(t, err)
	assert.InDelta(t, 700.0, item.Quantity, 1e-9)
	assert.Equal(t, "g", item.Unit)
}

func TestRemoveWholeItem(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "milk", 2, "liters")
	require.NoError(t, err)

	removed, err := agent.Remove(ctx, testOwner, "milk", nil, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, removed.Quantity)

	item, err := agent.Find(ctx, testOwner, "milk")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestRemoveMissingItem(t *testing.T) {
	_, err := newTestAgent().Remove(context.Background(), testOwner, "caviar", nil, "")
	assert.True(t, errors.Is(err, common.ErrItemNotFound))
}

func TestFindFuzzyMatch(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "Organic Avocados", 3, "pieces")
	require.NoError(t, err)

	item, err := agent.Find(ctx, testOwner, "avocados")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Organic Avocados", item.Name)
}

// 完全一致永遠優先於子字串包含
func TestFindExactBeatsSubstring(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	agent := NewAgent(store)

	require.NoError(t, store.Put(ctx, testOwner, common.InventoryItem{Name: "oat milk", Quantity: 1, Unit: "l", Owner: testOwner}))
	require.NoError(t, store.Put(ctx, testOwner, common.InventoryItem{Name: "milk", Quantity: 2, Unit: "l", Owner: testOwner}))

	item, err := agent.Find(ctx, testOwner, "milk")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "milk", item.Name)
}

func TestUpdateOverwritesQuantity(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "milk", 2, "liters")
	require.NoError(t, err)

	item, err := agent.Update(ctx, testOwner, "milk", 5, "liters")
	require.NoError(t, err)
	assert.Equal(t, 5.0, item.Quantity)
	assert.Equal(t, "l", item.Unit)
}

// update 是冪等 upsert，品項不存在就直接建立
func TestUpdateCreatesMissingItem(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	item, err := agent.Update(ctx, testOwner, "rice", 2, "kg")
	require.NoError(t, err)
	assert.Equal(t, "rice", item.Name)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, "kg", item.Unit)

	stored, err := agent.Find(ctx, testOwner, "rice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2.0, stored.Quantity)
	assert.Equal(t, "kg", stored.Unit)
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	_, err := newTestAgent().Update(context.Background(), testOwner, "  ", 5, "liters")
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestUpdateNegativeQuantity(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "milk", 2, "liters")
	require.NoError(t, err)

	_, err = agent.Update(ctx, testOwner, "milk", -1, "liters")
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestUpdateToZeroDeletesItem(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "milk", 2, "liters")
	require.NoError(t, err)

	_, err = agent.Update(ctx, testOwner, "milk", 0, "")
	require.NoError(t, err)

	item, err := agent.Find(ctx, testOwner, "milk")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestListSortedByName(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	for _, name := range []string{"zucchini", "apples", "milk"} {
		_, err := agent.Add(ctx, testOwner, name, 1, "")
		require.NoError(t, err)
	}

	items, err := agent.List(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "apples", items[0].Name)
	assert.Equal(t, "milk", items[1].Name)
	assert.Equal(t, "zucchini", items[2].Name)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	summary, err := agent.Summary(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, "Your inventory is empty.", summary)

	_, err = agent.Add(ctx, testOwner, "milk", 2, "liters")
	require.NoError(t, err)

	summary, err = agent.Summary(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, "You have 1 items: 2 l of milk.", summary)
}

// 摘要最多唸出五項，其餘只報數量
func TestSummarySpokenLimit(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	for _, name := range []string{"apples", "beans", "carrots", "dates", "eggs", "figs", "grapes"} {
		_, err := agent.Add(ctx, testOwner, name, 1, "")
		require.NoError(t, err)
	}

	summary, err := agent.Summary(ctx, testOwner)
	require.NoError(t, err)
	assert.Contains(t, summary, "You have 7 items:")
	assert.Contains(t, summary, ", and 2 more.")
	assert.NotContains(t, summary, "figs")
	assert.NotContains(t, summary, "grapes")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, testOwner, "milk", 2, "liters")
	require.NoError(t, err)
	require.NoError(t, agent.Clear(ctx, testOwner))

	items, err := agent.List(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	agent := newTestAgent()

	_, err := agent.Add(ctx, "alice", "milk", 2, "liters")
	require.NoError(t, err)

	items, err := agent.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, items)

	item, err := agent.Find(ctx, "alice", "milk")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 2.0, item.Quantity)
}
