package finalization

import (
	"go.uber.org/zap"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
)

// ProofStore is the opaque, externally-owned proof persistence collaborator
// (§1, §4.5): append-only, with a running notion of the current
// finalization round.
type ProofStore interface {
	Save(proof *entity.FinalizationProof) error
	CurrentRound() chaintypes.FinalizationRound
}

// Subscriber is notified once a proof has been durably saved.
type Subscriber interface {
	NotifyFinalizedBlock(round chaintypes.FinalizationRound, height chaintypes.Height, hash chaintypes.Hash256) error
}

// AggregateProofStorage wraps a ProofStore and a Subscriber so that
// save_proof is either store-then-notify or dropped entirely — there is
// no notify-without-store (§5).
type AggregateProofStorage struct {
	inner      ProofStore
	subscriber Subscriber
	logger     *zap.Logger
}

// NewAggregateProofStorage builds an AggregateProofStorage over inner and
// subscriber, logging dropped saves with logger.
func NewAggregateProofStorage(inner ProofStore, subscriber Subscriber, logger *zap.Logger) *AggregateProofStorage {
	return &AggregateProofStorage{inner: inner, subscriber: subscriber, logger: logger}
}

// SaveProof drops the proof (log-only, no error) if it is older than the
// store's current round; otherwise it writes the proof and notifies the
// subscriber with (round, height, hash) (§4.5).
func (a *AggregateProofStorage) SaveProof(proof *entity.FinalizationProof) error {
	current := a.inner.CurrentRound()
	if current.Compare(proof.Round) > 0 {
		a.logger.Warn("dropping stale finalization proof",
			zap.Any("proofRound", proof.Round),
			zap.Any("currentRound", current))
		return nil
	}
	if current.Compare(proof.Round) == 0 {
		a.logger.Info("re-saving finalization proof for the current round",
			zap.Any("round", proof.Round))
	}

	if err := a.inner.Save(proof); err != nil {
		return err
	}

	return a.subscriber.NotifyFinalizedBlock(proof.Round, proof.Height, proof.Hash)
}
