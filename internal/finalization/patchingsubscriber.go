package finalization

import "github.com/solechain/core/internal/chaintypes"

// BlockStorageView is the read-only view the patching subscriber consults
// to decide whether its local chain already agrees with a finalized
// block (§4.5). HashAt returns ok=false on a storage miss for height,
// which the algorithm treats identically to "the hash differs".
type BlockStorageView interface {
	HashAt(height chaintypes.Height) (hash chaintypes.Hash256, ok bool)
}

// PrevoteChainBackupStore is the backed-up prevote-chain collaborator: it
// knows whether it holds a backup for a given (round, height, hash), can
// load the backed-up chain up to and including a height, and can discard
// a round's backup once it is no longer needed.
type PrevoteChainBackupStore interface {
	Contains(round chaintypes.FinalizationRound, height chaintypes.Height, hash chaintypes.Hash256) bool
	LoadChain(round chaintypes.FinalizationRound, uptoHeight chaintypes.Height) ([]BlockRangeEntry, error)
	RemoveBackup(round chaintypes.FinalizationRound)
}

// BlockRangeEntry is one element of a backed-up chain handed to the
// block-range consumer; this subsystem treats its payload as opaque.
type BlockRangeEntry struct {
	Height chaintypes.Height
	Hash   chaintypes.Hash256
	Data   []byte
}

// BlockRangeConsumer accepts a contiguous run of backed-up blocks to
// patch a node's local chain.
type BlockRangeConsumer interface {
	ConsumeBlockRange(blocks []BlockRangeEntry) error
}

// PatchingSubscriber implements notify_finalized_block against a block
// storage view and a prevote-chain backup store (§4.5).
type PatchingSubscriber struct {
	storage  BlockStorageView
	backups  PrevoteChainBackupStore
	consumer BlockRangeConsumer
}

// NewPatchingSubscriber builds a PatchingSubscriber over the given
// collaborators.
func NewPatchingSubscriber(storage BlockStorageView, backups PrevoteChainBackupStore, consumer BlockRangeConsumer) *PatchingSubscriber {
	return &PatchingSubscriber{storage: storage, backups: backups, consumer: consumer}
}

// NotifyFinalizedBlock is the algorithm of §4.5: if the locally stored
// hash at height differs from hash (including on a storage miss) AND the
// backup store holds (height, hash) under round, the entire backed-up
// chain up to and including height is loaded and handed to the
// block-range consumer. The round's backup is removed in every case,
// regardless of outcome.
func (p *PatchingSubscriber) NotifyFinalizedBlock(round chaintypes.FinalizationRound, height chaintypes.Height, hash chaintypes.Hash256) error {
	defer p.backups.RemoveBackup(round)

	storedHash, ok := p.storage.HashAt(height)
	differs := !ok || storedHash != hash
	if !differs {
		return nil
	}

	if !p.backups.Contains(round, height, hash) {
		return nil
	}

	chain, err := p.backups.LoadChain(round, height)
	if err != nil {
		return err
	}

	return p.consumer.ConsumeBlockRange(chain)
}
