package mempool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
	"github.com/solechain/core/internal/mempool"
)

func detachedInfo(h byte, size uint32, fee chaintypes.Amount, deadline chaintypes.Timestamp, signer chaintypes.Key) *entity.DetachedTransactionInfo {
	return &entity.DetachedTransactionInfo{
		Transaction: &entity.Transaction{
			Header: entity.TransactionHeader{
				Size:     size,
				MaxFee:   fee,
				Deadline: deadline,
				Signer:   signer,
			},
		},
		EntityHash: chaintypes.Hash256{h},
	}
}

func TestUTCache_AddAndContains(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	info := detachedInfo(1, 100, 10, 1000, chaintypes.Key{1})

	mod := c.Modifier()
	assert.True(t, mod.Add(info))
	mod.Close()

	view := c.View()
	defer view.Close()
	assert.True(t, view.Contains(info.EntityHash))
	assert.Equal(t, 1, view.Size())
}

func TestUTCache_DuplicateAddIsNoOp(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	info := detachedInfo(1, 100, 10, 1000, chaintypes.Key{1})

	mod := c.Modifier()
	assert.True(t, mod.Add(info))
	assert.False(t, mod.Add(info), "re-adding the same EntityHash must be a no-op returning false")
	mod.Close()

	view := c.View()
	defer view.Close()
	assert.Equal(t, 1, view.Size())
}

func TestUTCache_AddFailsOverByteLimit(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 150, MaxCount: 100})
	mod := c.Modifier()
	defer mod.Close()

	assert.True(t, mod.Add(detachedInfo(1, 100, 1, 1, chaintypes.Key{1})))
	assert.False(t, mod.Add(detachedInfo(2, 100, 1, 1, chaintypes.Key{2})), "second add must exceed MaxBytes")
}

func TestUTCache_AddFailsOverCountLimit(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 1})
	mod := c.Modifier()
	defer mod.Close()

	assert.True(t, mod.Add(detachedInfo(1, 10, 1, 1, chaintypes.Key{1})))
	assert.False(t, mod.Add(detachedInfo(2, 10, 1, 1, chaintypes.Key{2})))
}

func TestUTCache_RemoveFreesCapacityWithinSameModifier(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 1})
	mod := c.Modifier()
	defer mod.Close()

	first := detachedInfo(1, 10, 1, 1, chaintypes.Key{1})
	require.True(t, mod.Add(first))

	_, removed := mod.Remove(first.EntityHash)
	require.True(t, removed)

	second := detachedInfo(2, 10, 1, 1, chaintypes.Key{2})
	assert.True(t, mod.Add(second), "capacity freed by remove must be usable within the same modifier session")
}

func TestUTCache_ForEachObservesInsertionOrder(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	mod := c.Modifier()
	for i := byte(1); i <= 3; i++ {
		require.True(t, mod.Add(detachedInfo(i, 10, 1, 1, chaintypes.Key{i})))
	}
	mod.Close()

	view := c.View()
	defer view.Close()

	var seen []chaintypes.Hash256
	view.ForEach(func(info *entity.DetachedTransactionInfo) bool {
		seen = append(seen, info.EntityHash)
		return true
	})
	require.Len(t, seen, 3)
	assert.Equal(t, chaintypes.Hash256{1}, seen[0])
	assert.Equal(t, chaintypes.Hash256{2}, seen[1])
	assert.Equal(t, chaintypes.Hash256{3}, seen[2])
}

func TestUTCache_ForEachStopsOnFalse(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	mod := c.Modifier()
	for i := byte(1); i <= 3; i++ {
		require.True(t, mod.Add(detachedInfo(i, 10, 1, 1, chaintypes.Key{i})))
	}
	mod.Close()

	view := c.View()
	defer view.Close()

	count := 0
	view.ForEach(func(info *entity.DetachedTransactionInfo) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestUTCache_PruneRemovesExpiredDeadlines(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	mod := c.Modifier()
	require.True(t, mod.Add(detachedInfo(1, 10, 1, 100, chaintypes.Key{1})))
	require.True(t, mod.Add(detachedInfo(2, 10, 1, 200, chaintypes.Key{2})))

	removed := mod.Prune(150)
	mod.Close()

	require.Len(t, removed, 1)
	assert.Equal(t, chaintypes.Hash256{1}, removed[0].EntityHash)

	view := c.View()
	defer view.Close()
	assert.Equal(t, 1, view.Size())
}

func TestUTCache_CountTracksSigner(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	signer := chaintypes.Key{9}
	mod := c.Modifier()
	require.True(t, mod.Add(detachedInfo(1, 10, 1, 1000, signer)))
	require.True(t, mod.Add(detachedInfo(2, 10, 1, 1000, signer)))
	assert.Equal(t, 2, mod.Count(signer))

	mod.Remove(chaintypes.Hash256{1})
	assert.Equal(t, 1, mod.Count(signer))
	mod.Close()
}

func TestUTCache_RemoveAllClearsEverything(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	mod := c.Modifier()
	require.True(t, mod.Add(detachedInfo(1, 10, 1, 1000, chaintypes.Key{1})))
	require.True(t, mod.Add(detachedInfo(2, 10, 1, 1000, chaintypes.Key{2})))

	removed := mod.RemoveAll()
	mod.Close()

	assert.Len(t, removed, 2)
	view := c.View()
	defer view.Close()
	assert.Equal(t, 0, view.Size())
}

func TestUTCache_UnknownTransactions_FiltersKnownAndLowFee(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	mod := c.Modifier()
	// fee-per-byte = 10/10 = 1
	require.True(t, mod.Add(detachedInfo(1, 10, 10, 1000, chaintypes.Key{1})))
	// fee-per-byte = 1/10 = 0, below threshold
	require.True(t, mod.Add(detachedInfo(2, 10, 1, 1000, chaintypes.Key{2})))
	mod.Close()

	view := c.View()
	defer view.Close()

	known := map[chaintypes.ShortHash]struct{}{}
	txs := view.UnknownTransactions(1, known, 1<<20)
	require.Len(t, txs, 1)
	assert.Equal(t, uint32(10), txs[0].Header.Size)
}

func TestUTCache_UnknownTransactions_StopsAtByteCap(t *testing.T) {
	c := mempool.NewUTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	mod := c.Modifier()
	require.True(t, mod.Add(detachedInfo(1, 50, 50, 1000, chaintypes.Key{1})))
	require.True(t, mod.Add(detachedInfo(2, 50, 50, 1000, chaintypes.Key{2})))
	mod.Close()

	view := c.View()
	defer view.Close()

	txs := view.UnknownTransactions(0, nil, 60)
	require.Len(t, txs, 1, "second transaction would exceed the 60-byte cap and must be excluded")
}

func TestPTCache_PrunePredicateExtendsDeadline(t *testing.T) {
	c := mempool.NewPTCache(mempool.Limits{MaxBytes: 1 << 20, MaxCount: 100})
	mod := c.Modifier()
	require.True(t, mod.Add(detachedInfo(1, 10, 1, 1000, chaintypes.Key{1})))
	require.True(t, mod.Add(detachedInfo(2, 10, 1, 1000, chaintypes.Key{2})))

	removed := mod.Prune(0, func(info *entity.DetachedTransactionInfo) bool {
		return info.EntityHash == chaintypes.Hash256{2}
	})
	mod.Close()

	require.Len(t, removed, 1)
	assert.Equal(t, chaintypes.Hash256{2}, removed[0].EntityHash)
}
