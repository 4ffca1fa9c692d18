package mempool

import (
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
)

// UTCache is the unconfirmed-transaction mempool cache (§4.6): view()
// and modifier() are gated by a reader-writer lock so a modifier and a
// view never coexist.
type UTCache struct {
	c *cache
}

// NewUTCache builds an empty UTCache bounded by limits.
func NewUTCache(limits Limits) *UTCache {
	return &UTCache{c: newCache(limits)}
}

// UTView is a read-only snapshot handle; it must be closed to release
// the reader guard.
type UTView struct{ c *cache }

// View acquires a reader guard and returns a read-only snapshot handle.
func (u *UTCache) View() *UTView {
	u.c.lock.AcquireReader()
	return &UTView{c: u.c}
}

// Close releases the reader guard.
func (v *UTView) Close() { v.c.lock.ReleaseReader() }

func (v *UTView) Size() int { return v.c.size() }

// Count is a convenience wrapper around View/Size/Close for callers (e.g.
// the status introspection endpoint) that only want a point-in-time size.
func (u *UTCache) Count() int {
	v := u.View()
	defer v.Close()
	return v.Size()
}

func (v *UTView) Contains(h chaintypes.Hash256) bool { return v.c.contains(h) }

// ForEach iterates stored infos in insertion order as observed at the
// moment the view was acquired, stopping early if f returns false.
func (v *UTView) ForEach(f func(*entity.DetachedTransactionInfo) bool) { v.c.forEach(f) }

func (v *UTView) ShortHashes() []chaintypes.ShortHash { return v.c.shortHashes() }

func (v *UTView) UnknownTransactions(minFeeMultiplier uint64, known map[chaintypes.ShortHash]struct{}, maxResponseBytes uint64) []*entity.Transaction {
	return v.c.unknownTransactions(minFeeMultiplier, known, maxResponseBytes)
}

// UTModifier is the exclusive write handle; it must be closed to release
// the writer guard.
type UTModifier struct{ c *cache }

// Modifier acquires the writer guard and returns the write handle.
func (u *UTCache) Modifier() *UTModifier {
	u.c.lock.AcquireWriter()
	return &UTModifier{c: u.c}
}

// Close releases the writer guard.
func (m *UTModifier) Close() { m.c.lock.ReleaseWriter() }

// Add admits info, returning false if it is a duplicate (by EntityHash)
// or would exceed the cache's byte/count limits.
func (m *UTModifier) Add(info *entity.DetachedTransactionInfo) bool { return m.c.add(info) }

func (m *UTModifier) Remove(h chaintypes.Hash256) (*entity.DetachedTransactionInfo, bool) {
	return m.c.remove(h)
}

func (m *UTModifier) RemoveAll() []*entity.DetachedTransactionInfo { return m.c.removeAll() }

// Prune removes every info with Deadline < ts.
func (m *UTModifier) Prune(ts chaintypes.Timestamp) []*entity.DetachedTransactionInfo {
	return m.c.removeIf(func(info *entity.DetachedTransactionInfo) bool {
		return info.Transaction.Header.Deadline < ts
	})
}

func (m *UTModifier) RemoveIf(pred func(*entity.DetachedTransactionInfo) bool) []*entity.DetachedTransactionInfo {
	return m.c.removeIf(pred)
}

// Count returns the number of stored transactions signed by signer,
// incremented on add and decremented on remove.
func (m *UTModifier) Count(signer chaintypes.Key) int { return m.c.count(signer) }

func (m *UTModifier) MemorySize() uint64 { return m.c.memorySize() }
