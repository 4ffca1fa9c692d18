// Package mempool implements the unconfirmed- and partial-transaction
// caches (§4.6): a reader-writer-locked, deadline-ordered store with
// signer counters, short-hash filtering, and byte/count admission
// control, plus the change-tracking aggregate wrappers of §4.7.
package mempool

import (
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
	"github.com/solechain/core/internal/syncutil"
)

// Limits bounds a cache by total serialized byte size and by transaction
// count; add() fails when either would be exceeded (§4.6).
type Limits struct {
	MaxBytes uint64
	MaxCount int
}

// cache is the shared storage engine behind UTCache and PTCache: an
// insertion-ordered list of infos, a hash index, per-signer counts, and
// a running byte total, all protected by a spin RWLock (§4.8).
type cache struct {
	lock   *syncutil.RWLock
	limits Limits

	order       []chaintypes.Hash256
	byHash      map[chaintypes.Hash256]*entity.DetachedTransactionInfo
	signerCount map[chaintypes.Key]int
	totalBytes  uint64
}

func newCache(limits Limits) *cache {
	return &cache{
		lock:        syncutil.NewRWLock(),
		limits:      limits,
		byHash:      make(map[chaintypes.Hash256]*entity.DetachedTransactionInfo),
		signerCount: make(map[chaintypes.Key]int),
	}
}

func txSize(info *entity.DetachedTransactionInfo) uint64 {
	return uint64(info.Transaction.Header.Size)
}

// add inserts info at the end of the iteration order. Returns false
// (no-op) if info's EntityHash is already present, or if admitting it
// would exceed either configured limit.
func (c *cache) add(info *entity.DetachedTransactionInfo) bool {
	if _, exists := c.byHash[info.EntityHash]; exists {
		return false
	}
	size := txSize(info)
	if c.totalBytes+size > c.limits.MaxBytes {
		return false
	}
	if len(c.order)+1 > c.limits.MaxCount {
		return false
	}

	c.order = append(c.order, info.EntityHash)
	c.byHash[info.EntityHash] = info
	c.signerCount[info.Transaction.Header.Signer]++
	c.totalBytes += size
	return true
}

// remove deletes the info keyed by h, if present, preserving the
// relative order of the remaining entries.
func (c *cache) remove(h chaintypes.Hash256) (*entity.DetachedTransactionInfo, bool) {
	info, ok := c.byHash[h]
	if !ok {
		return nil, false
	}
	delete(c.byHash, h)
	c.totalBytes -= txSize(info)
	c.signerCount[info.Transaction.Header.Signer]--
	if c.signerCount[info.Transaction.Header.Signer] <= 0 {
		delete(c.signerCount, info.Transaction.Header.Signer)
	}

	for i, oh := range c.order {
		if oh == h {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return info, true
}

// removeAll empties the cache, returning the removed infos in their
// prior iteration order.
func (c *cache) removeAll() []*entity.DetachedTransactionInfo {
	out := make([]*entity.DetachedTransactionInfo, 0, len(c.order))
	for _, h := range c.order {
		out = append(out, c.byHash[h])
	}
	c.order = nil
	c.byHash = make(map[chaintypes.Hash256]*entity.DetachedTransactionInfo)
	c.signerCount = make(map[chaintypes.Key]int)
	c.totalBytes = 0
	return out
}

// removeIf scans the full container (order is not assumed monotonic in
// any pruning-relevant field) and removes every info for which pred
// returns true, returning the removed infos in iteration order.
func (c *cache) removeIf(pred func(*entity.DetachedTransactionInfo) bool) []*entity.DetachedTransactionInfo {
	var removed []*entity.DetachedTransactionInfo
	var kept []chaintypes.Hash256
	for _, h := range c.order {
		info := c.byHash[h]
		if pred(info) {
			removed = append(removed, info)
			delete(c.byHash, h)
			c.totalBytes -= txSize(info)
			c.signerCount[info.Transaction.Header.Signer]--
			if c.signerCount[info.Transaction.Header.Signer] <= 0 {
				delete(c.signerCount, info.Transaction.Header.Signer)
			}
		} else {
			kept = append(kept, h)
		}
	}
	c.order = kept
	return removed
}

func (c *cache) size() int { return len(c.order) }

func (c *cache) contains(h chaintypes.Hash256) bool {
	_, ok := c.byHash[h]
	return ok
}

func (c *cache) forEach(f func(*entity.DetachedTransactionInfo) bool) {
	for _, h := range c.order {
		if !f(c.byHash[h]) {
			return
		}
	}
}

func (c *cache) shortHashes() []chaintypes.ShortHash {
	out := make([]chaintypes.ShortHash, 0, len(c.order))
	for _, h := range c.order {
		out = append(out, chaintypes.ToShortHash(h))
	}
	return out
}

// unknownTransactions returns transactions in insertion order whose
// short hash is absent from known, whose fee-per-byte is at least
// minFeeMultiplier, and whose cumulative serialized size (starting
// fresh at 0 for this call) does not exceed maxResponseBytes. The first
// transaction that would exceed the cap stops the scan; it and any
// later transaction are excluded (§4.6).
func (c *cache) unknownTransactions(minFeeMultiplier uint64, known map[chaintypes.ShortHash]struct{}, maxResponseBytes uint64) []*entity.Transaction {
	var out []*entity.Transaction
	var cumulative uint64
	for _, h := range c.order {
		info := c.byHash[h]
		if _, seen := known[chaintypes.ToShortHash(h)]; seen {
			continue
		}
		size := txSize(info)
		if size == 0 {
			continue
		}
		feePerByte := uint64(info.Transaction.Header.MaxFee) / size
		if feePerByte < minFeeMultiplier {
			continue
		}
		if cumulative+size > maxResponseBytes {
			break
		}
		cumulative += size
		out = append(out, info.Transaction)
	}
	return out
}

func (c *cache) memorySize() uint64 { return c.totalBytes }

// attachCosignature appends cosig to the cached parent transaction
// identified by parentHash, if one is present, and returns the (mutated)
// parent info. Returns (nil, false) if parentHash is not cached — the PT
// cache never buffers a cosignature for a parent it has not yet seen.
func (c *cache) attachCosignature(parentHash chaintypes.Hash256, cosig entity.Cosignature) (*entity.DetachedTransactionInfo, bool) {
	info, ok := c.byHash[parentHash]
	if !ok {
		return nil, false
	}
	info.Cosignatures = append(info.Cosignatures, cosig)
	return info, true
}

func (c *cache) count(signer chaintypes.Key) int { return c.signerCount[signer] }
