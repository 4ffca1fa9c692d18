// Package subscribers implements the fan-out aggregate wrappers (§4.12)
// and the one-shot subscription manager that assembles them from a set
// of individually registered subscribers.
package subscribers

import "github.com/solechain/core/internal/chaintypes"

// BlockChangeSubscriber is notified as blocks commit or are rolled back.
type BlockChangeSubscriber interface {
	NotifyBlock(height chaintypes.Height, hash chaintypes.Hash256)
	NotifyDropBlocksAfter(height chaintypes.Height)
}

// TransactionStatusSubscriber is notified of a transaction's terminal
// outcome, surfacing rejected transactions with a non-zero status (§7).
type TransactionStatusSubscriber interface {
	NotifyStatus(hash chaintypes.Hash256, status uint32)
}

// StateChangeSubscriber is notified of chain-score / state changes.
type StateChangeSubscriber interface {
	NotifyScoreChange(scoreHigh, scoreLow uint64)
}

// NodeSubscriber is notified as peers connect to or disconnect from the
// node's network layer.
type NodeSubscriber interface {
	NotifyNode(identity string)
}

// ChangeSubscriber mirrors mempool.ChangeSubscriber without importing
// the mempool package (avoiding an import cycle, since mempool does not
// need to know about the subscription manager): it is notified of the
// net adds/removes a ut/pt cache modifier session produced.
type ChangeSubscriber interface {
	NotifyAdds(added []interface{})
	NotifyRemoves(removed []interface{})
	Flush()
}

// PtChangeSubscriber mirrors mempool.PtChangeSubscriber, adding the
// PT-only eager cosignature callback to ChangeSubscriber (§4.7, §4.12).
type PtChangeSubscriber interface {
	ChangeSubscriber
	NotifyAddCosignature(parentInfo interface{}, cosig interface{})
}

// FinalizationSubscriber is notified as blocks are finalized (§4.12);
// this is the multi-subscriber fan-out counterpart to the single,
// error-returning finalization.Subscriber the proof storage layer uses
// to decide whether a proof actually persisted.
type FinalizationSubscriber interface {
	NotifyFinalizedBlock(round chaintypes.FinalizationRound, height chaintypes.Height, hash chaintypes.Hash256)
}

// BlockChangeAggregate fans a single notification out to every
// registered BlockChangeSubscriber, in registration order.
type BlockChangeAggregate struct {
	subscribers []BlockChangeSubscriber
}

func (a *BlockChangeAggregate) NotifyBlock(height chaintypes.Height, hash chaintypes.Hash256) {
	for _, s := range a.subscribers {
		s.NotifyBlock(height, hash)
	}
}

func (a *BlockChangeAggregate) NotifyDropBlocksAfter(height chaintypes.Height) {
	for _, s := range a.subscribers {
		s.NotifyDropBlocksAfter(height)
	}
}

// TransactionStatusAggregate fans NotifyStatus out to every registered
// subscriber.
type TransactionStatusAggregate struct {
	subscribers []TransactionStatusSubscriber
}

func (a *TransactionStatusAggregate) NotifyStatus(hash chaintypes.Hash256, status uint32) {
	for _, s := range a.subscribers {
		s.NotifyStatus(hash, status)
	}
}

// StateChangeAggregate fans NotifyScoreChange out to every registered
// subscriber.
type StateChangeAggregate struct {
	subscribers []StateChangeSubscriber
}

func (a *StateChangeAggregate) NotifyScoreChange(scoreHigh, scoreLow uint64) {
	for _, s := range a.subscribers {
		s.NotifyScoreChange(scoreHigh, scoreLow)
	}
}

// NodeAggregate fans NotifyNode out to every registered subscriber.
type NodeAggregate struct {
	subscribers []NodeSubscriber
}

func (a *NodeAggregate) NotifyNode(identity string) {
	for _, s := range a.subscribers {
		s.NotifyNode(identity)
	}
}

// ChangeAggregate fans a ut/pt cache's net-change notifications out to
// every registered ChangeSubscriber, in order. A subscriber panic during
// Flush is not recovered: it is fatal by design (§7).
type ChangeAggregate struct {
	subscribers []ChangeSubscriber
}

func (a *ChangeAggregate) NotifyAdds(added []interface{}) {
	for _, s := range a.subscribers {
		s.NotifyAdds(added)
	}
}

func (a *ChangeAggregate) NotifyRemoves(removed []interface{}) {
	for _, s := range a.subscribers {
		s.NotifyRemoves(removed)
	}
}

func (a *ChangeAggregate) Flush() {
	for _, s := range a.subscribers {
		s.Flush()
	}
}

// PtChangeAggregate fans a PT cache's net-change notifications, plus the
// PT-only eager cosignature notification, out to every registered
// PtChangeSubscriber, in order.
type PtChangeAggregate struct {
	subscribers []PtChangeSubscriber
}

func (a *PtChangeAggregate) NotifyAdds(added []interface{}) {
	for _, s := range a.subscribers {
		s.NotifyAdds(added)
	}
}

func (a *PtChangeAggregate) NotifyRemoves(removed []interface{}) {
	for _, s := range a.subscribers {
		s.NotifyRemoves(removed)
	}
}

func (a *PtChangeAggregate) Flush() {
	for _, s := range a.subscribers {
		s.Flush()
	}
}

// NotifyAddCosignature fans out eagerly, the same as the inner
// mempool.AggregatePtModifier call that triggers it: never batched,
// never waiting for Flush.
func (a *PtChangeAggregate) NotifyAddCosignature(parentInfo interface{}, cosig interface{}) {
	for _, s := range a.subscribers {
		s.NotifyAddCosignature(parentInfo, cosig)
	}
}

// FinalizationAggregate fans NotifyFinalizedBlock out to every
// registered FinalizationSubscriber, in order (§4.12).
type FinalizationAggregate struct {
	subscribers []FinalizationSubscriber
}

func (a *FinalizationAggregate) NotifyFinalizedBlock(round chaintypes.FinalizationRound, height chaintypes.Height, hash chaintypes.Hash256) {
	for _, s := range a.subscribers {
		s.NotifyFinalizedBlock(round, height, hash)
	}
}
