package mempool

import (
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
)

// TransactionChangeTracker accumulates net add/remove state for a single
// modifier session (§4.7): re-introducing a transaction cancels an
// earlier removal in the same session, and vice versa, so only the net
// delta is ever published.
type TransactionChangeTracker struct {
	added   map[chaintypes.Hash256]*entryRecord
	removed map[chaintypes.Hash256]*entryRecord
}

type entryRecord struct {
	hash chaintypes.Hash256
	info interface{}
}

// NewTransactionChangeTracker returns an empty tracker.
func NewTransactionChangeTracker() *TransactionChangeTracker {
	return &TransactionChangeTracker{
		added:   make(map[chaintypes.Hash256]*entryRecord),
		removed: make(map[chaintypes.Hash256]*entryRecord),
	}
}

// Add records an add for h. If h is currently in the removed set, the
// removal is cancelled (net: unchanged); otherwise h is recorded added.
func (t *TransactionChangeTracker) Add(h chaintypes.Hash256, info interface{}) {
	if _, wasRemoved := t.removed[h]; wasRemoved {
		delete(t.removed, h)
		return
	}
	t.added[h] = &entryRecord{hash: h, info: info}
}

// Remove records a removal for h, symmetric to Add.
func (t *TransactionChangeTracker) Remove(h chaintypes.Hash256, info interface{}) {
	if _, wasAdded := t.added[h]; wasAdded {
		delete(t.added, h)
		return
	}
	t.removed[h] = &entryRecord{hash: h, info: info}
}

// Added returns the net set of added infos, in no particular order.
func (t *TransactionChangeTracker) Added() []interface{} {
	out := make([]interface{}, 0, len(t.added))
	for _, r := range t.added {
		out = append(out, r.info)
	}
	return out
}

// Removed returns the net set of removed infos.
func (t *TransactionChangeTracker) Removed() []interface{} {
	out := make([]interface{}, 0, len(t.removed))
	for _, r := range t.removed {
		out = append(out, r.info)
	}
	return out
}

// Reset clears both sets.
func (t *TransactionChangeTracker) Reset() {
	t.added = make(map[chaintypes.Hash256]*entryRecord)
	t.removed = make(map[chaintypes.Hash256]*entryRecord)
}

// ChangeSubscriber is notified of the net adds/removes a modifier session
// produced, plus an eager (unbatched) cosignature notification for the
// PT variant (§4.7).
type ChangeSubscriber interface {
	NotifyAdds(added []interface{})
	NotifyRemoves(removed []interface{})
	Flush()
}

// PtChangeSubscriber extends ChangeSubscriber with the PT-only eager
// cosignature callback.
type PtChangeSubscriber interface {
	ChangeSubscriber
	NotifyAddCosignature(parentInfo interface{}, cosig interface{})
}

// AggregateModifier wraps a real add/remove pair and a ChangeSubscriber:
// every call is forwarded to the inner functions AND recorded in a
// TransactionChangeTracker. On Close, the tracker flushes in order —
// removes, then adds, then subscriber.Flush(), then reset (§4.7). A
// subscriber panic during flush is not recovered: it is fatal by design
// (§7 propagation policy).
type AggregateModifier struct {
	innerAdd    func(h chaintypes.Hash256, info interface{}) bool
	innerRemove func(h chaintypes.Hash256) (interface{}, bool)
	subscriber  ChangeSubscriber
	tracker     *TransactionChangeTracker
}

// NewAggregateModifier builds an AggregateModifier over the given inner
// add/remove operations and subscriber.
func NewAggregateModifier(
	innerAdd func(h chaintypes.Hash256, info interface{}) bool,
	innerRemove func(h chaintypes.Hash256) (interface{}, bool),
	subscriber ChangeSubscriber,
) *AggregateModifier {
	return &AggregateModifier{
		innerAdd:    innerAdd,
		innerRemove: innerRemove,
		subscriber:  subscriber,
		tracker:     NewTransactionChangeTracker(),
	}
}

// Add forwards to the inner add and, if it succeeded, records the change.
func (m *AggregateModifier) Add(h chaintypes.Hash256, info interface{}) bool {
	ok := m.innerAdd(h, info)
	if ok {
		m.tracker.Add(h, info)
	}
	return ok
}

// Remove forwards to the inner remove and, if it succeeded, records the
// change.
func (m *AggregateModifier) Remove(h chaintypes.Hash256) (interface{}, bool) {
	info, ok := m.innerRemove(h)
	if ok {
		m.tracker.Remove(h, info)
	}
	return info, ok
}

// Close flushes the tracked net changes to the subscriber and resets the
// tracker: removes first, then adds, then Flush, matching the downstream
// "net state, not churn" ordering guarantee (§5).
func (m *AggregateModifier) Close() {
	removed := m.tracker.Removed()
	if len(removed) > 0 {
		m.subscriber.NotifyRemoves(removed)
	}
	added := m.tracker.Added()
	if len(added) > 0 {
		m.subscriber.NotifyAdds(added)
	}
	m.subscriber.Flush()
	m.tracker.Reset()
}

// AggregatePtModifier wraps an AggregateModifier with the PT-only
// cosignature-attach path (§4.7): BasicAggregateTransactionsCacheModifier
// in the original only batches add/remove through the change tracker, but
// its PT specialization overrides add(parentHash, cosignature) to call
// straight through to the inner cache and notify the subscriber eagerly,
// bypassing the tracker entirely. AttachCosignature mirrors that override;
// Add/Remove/Close still flow through the embedded AggregateModifier.
type AggregatePtModifier struct {
	*AggregateModifier
	inner      *PTModifier
	subscriber PtChangeSubscriber
}

// NewAggregatePtModifier builds an AggregatePtModifier over inner (the
// real PT cache modifier) and subscriber. innerAdd/innerRemove are the
// same net-add/net-remove hooks AggregateModifier takes; subscriber
// additionally receives eager NotifyAddCosignature calls that never pass
// through the tracker.
func NewAggregatePtModifier(
	inner *PTModifier,
	innerAdd func(h chaintypes.Hash256, info interface{}) bool,
	innerRemove func(h chaintypes.Hash256) (interface{}, bool),
	subscriber PtChangeSubscriber,
) *AggregatePtModifier {
	return &AggregatePtModifier{
		AggregateModifier: NewAggregateModifier(innerAdd, innerRemove, subscriber),
		inner:             inner,
		subscriber:        subscriber,
	}
}

// AttachCosignature forwards to the inner PT cache and, if a parent was
// found to attach to, notifies the subscriber immediately — never
// batched, and never reset by Close (§4.7).
func (m *AggregatePtModifier) AttachCosignature(parentHash chaintypes.Hash256, cosig entity.Cosignature) (*entity.DetachedTransactionInfo, bool) {
	parentInfo, ok := m.inner.AttachCosignature(parentHash, cosig)
	if ok {
		m.subscriber.NotifyAddCosignature(parentInfo, cosig)
	}
	return parentInfo, ok
}
