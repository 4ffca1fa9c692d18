package main

import (
	"go.uber.org/zap"

	"github.com/solechain/core/internal/blockext"
	"github.com/solechain/core/internal/chainsync"
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
	"github.com/solechain/core/internal/finalization"
	"github.com/solechain/core/internal/mempool"
	"github.com/solechain/core/internal/storage"
)

// blockIngestor applies a pushed or backed-up block to the block store
// after the same full-block verification chainintegrity re-runs offline
// (§4.3 I4): header signature, recomputed transactions hash, every
// transaction's own signature. It satisfies both
// chainsync.PushedBlockConsumer (network-pushed blocks) and
// finalization.BlockRangeConsumer (prevote-chain patching, §4.5).
type blockIngestor struct {
	store          *storage.BlockStore
	extensions     *blockext.Extensions
	generationHash chaintypes.Hash256
	tree           *finalization.Tree
	logger         *zap.Logger
}

func (b *blockIngestor) ConsumeBlock(peer chainsync.PeerIdentity, blockType uint32, blockData []byte) error {
	block, err := storage.DecodeBlock(blockData)
	if err != nil {
		return err
	}
	return b.appendVerified(blockData, block)
}

func (b *blockIngestor) ConsumeBlockRange(blocks []finalization.BlockRangeEntry) error {
	for _, entry := range blocks {
		block, err := storage.DecodeBlock(entry.Data)
		if err != nil {
			return err
		}
		if err := b.appendVerified(entry.Data, block); err != nil {
			return err
		}
	}
	return nil
}

func (b *blockIngestor) appendVerified(raw []byte, block *entity.Block) error {
	if result := b.extensions.VerifyFullBlock(block); result != blockext.Success {
		b.logger.Warn("rejecting block that failed verification",
			zap.Uint64("height", uint64(block.Header.Height)), zap.Stringer("result", result))
		return nil
	}

	element := b.extensions.ConvertBlockToBlockElement(block, b.generationHash)
	if err := b.store.Append(storage.StoredBlock{
		Height: block.Header.Height,
		Hash:   element.EntityHash,
		Data:   raw,
	}); err != nil {
		return err
	}

	b.tree.AddBranch(block.Header.Height, []chaintypes.Hash256{element.EntityHash})
	return nil
}

// txIngestor decodes a pushed transaction range and admits each
// transaction into the unconfirmed-transaction cache, hashing it with
// the same entity hasher the rest of the node uses (§4.2, §4.6).
type txIngestor struct {
	utCache        *mempool.UTCache
	hasher         *entity.Hasher
	generationHash chaintypes.Hash256
	logger         *zap.Logger
}

func (t *txIngestor) ConsumeTransactions(peer chainsync.PeerIdentity, txType uint32, txData []byte) error {
	txs, err := storage.DecodeTransactions(txData)
	if err != nil {
		return err
	}

	w := t.utCache.Modifier()
	defer w.Close()
	for _, tx := range txs {
		hash := t.hasher.HashTransaction(tx, t.generationHash)
		if !w.Add(&entity.DetachedTransactionInfo{Transaction: tx, EntityHash: hash}) {
			t.logger.Debug("unconfirmed-transaction cache rejected pushed transaction",
				zap.String("peer", string(peer)))
		}
	}
	return nil
}
