package mempool

import (
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
)

// PTCache is the partial-transaction (co-signature aggregation) mempool
// cache (§4.6). It shares UTCache's view/modifier/admission machinery but
// prunes by an optional predicate in addition to a deadline, and has no
// per-signer counters or RemoveIf (those are UT-only surface).
type PTCache struct {
	c *cache
}

// NewPTCache builds an empty PTCache bounded by limits.
func NewPTCache(limits Limits) *PTCache {
	return &PTCache{c: newCache(limits)}
}

// PTView is a read-only snapshot handle; it must be closed to release
// the reader guard.
type PTView struct{ c *cache }

func (p *PTCache) View() *PTView {
	p.c.lock.AcquireReader()
	return &PTView{c: p.c}
}

func (v *PTView) Close() { v.c.lock.ReleaseReader() }

func (v *PTView) Size() int { return v.c.size() }

// Count is a convenience wrapper around View/Size/Close for callers that
// only want a point-in-time size.
func (p *PTCache) Count() int {
	v := p.View()
	defer v.Close()
	return v.Size()
}

func (v *PTView) Contains(h chaintypes.Hash256) bool { return v.c.contains(h) }

func (v *PTView) ForEach(f func(*entity.DetachedTransactionInfo) bool) { v.c.forEach(f) }

func (v *PTView) ShortHashes() []chaintypes.ShortHash { return v.c.shortHashes() }

func (v *PTView) UnknownTransactions(minFeeMultiplier uint64, known map[chaintypes.ShortHash]struct{}, maxResponseBytes uint64) []*entity.Transaction {
	return v.c.unknownTransactions(minFeeMultiplier, known, maxResponseBytes)
}

// PTModifier is the exclusive write handle; it must be closed to release
// the writer guard.
type PTModifier struct{ c *cache }

func (p *PTCache) Modifier() *PTModifier {
	p.c.lock.AcquireWriter()
	return &PTModifier{c: p.c}
}

func (m *PTModifier) Close() { m.c.lock.ReleaseWriter() }

func (m *PTModifier) Add(info *entity.DetachedTransactionInfo) bool { return m.c.add(info) }

func (m *PTModifier) Remove(h chaintypes.Hash256) (*entity.DetachedTransactionInfo, bool) {
	return m.c.remove(h)
}

func (m *PTModifier) RemoveAll() []*entity.DetachedTransactionInfo { return m.c.removeAll() }

// Prune removes every info with Deadline < ts, OR (if pred is non-nil)
// for which pred also returns true — the PT variant's predicate-extended
// form of prune (§4.6).
func (m *PTModifier) Prune(ts chaintypes.Timestamp, pred func(*entity.DetachedTransactionInfo) bool) []*entity.DetachedTransactionInfo {
	return m.c.removeIf(func(info *entity.DetachedTransactionInfo) bool {
		if info.Transaction.Header.Deadline < ts {
			return true
		}
		return pred != nil && pred(info)
	})
}

func (m *PTModifier) MemorySize() uint64 { return m.c.memorySize() }

// AttachCosignature attaches cosig to the partial transaction identified
// by parentHash, if one is currently cached (§4.7).
func (m *PTModifier) AttachCosignature(parentHash chaintypes.Hash256, cosig entity.Cosignature) (*entity.DetachedTransactionInfo, bool) {
	return m.c.attachCosignature(parentHash, cosig)
}
