// Package storage adapts the external collaborators the core subsystem
// assumes (§1: persistent block storage, proof storage, prevote-chain
// backups) onto github.com/dgraph-io/badger/v3, in the same
// open-options-then-Update/View idiom the teacher repository's
// blockchain.go uses for its own badger-backed chain store.
package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/errs"
)

var (
	tipKey = []byte("tip-height")
)

func blockKey(height chaintypes.Height) []byte {
	key := make([]byte, 1+8)
	key[0] = 'b'
	binary.BigEndian.PutUint64(key[1:], uint64(height))
	return key
}

// BadgerOptions mirrors the teacher repository's getBadgerOptions
// tuning: small in-process memtable/cache sizes appropriate for a single
// validator node rather than a high-throughput server.
func BadgerOptions(path string) badger.Options {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.ValueLogFileSize = 16 << 20
	opts.MemTableSize = 8 << 20
	opts.BlockCacheSize = 1 << 20
	opts.NumVersionsToKeep = 1
	opts.VerifyValueChecksum = true
	opts.DetectConflicts = true
	return opts
}

// StoredBlock is the gob-serialized unit written per height: the raw
// block body and its entity hash, enough to satisfy both ChainView and
// BlockStorageView.
type StoredBlock struct {
	Height chaintypes.Height
	Hash   chaintypes.Hash256
	Data   []byte
}

// BlockStore is a badger-backed append-and-load block store (§1): the
// only invariant callers may rely on is a monotonic non-decreasing
// ChainHeight and an idempotent BlockAt for any committed height.
type BlockStore struct {
	db     *badger.DB
	logger *zap.Logger
}

// OpenBlockStore opens (or creates) a badger block store at path.
func OpenBlockStore(path string, logger *zap.Logger) (*BlockStore, error) {
	db, err := badger.Open(BadgerOptions(path))
	if err != nil {
		return nil, errs.Wrap(err, errs.WriteError, "storage: failed to open block store")
	}
	return &BlockStore{db: db, logger: logger}, nil
}

// Close releases the underlying badger handle.
func (s *BlockStore) Close() error {
	return s.db.Close()
}

// Append writes block at its height and advances the stored chain tip
// if block.Height is the new maximum.
func (s *BlockStore) Append(block StoredBlock) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(block); err != nil {
		return errs.Wrap(err, errs.WriteError, "storage: failed to encode block")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(blockKey(block.Height), buf.Bytes()); err != nil {
			return errs.Wrap(err, errs.WriteError, "storage: failed to write block")
		}

		current, err := s.chainHeightTxn(txn)
		if err != nil {
			return err
		}
		if block.Height > current {
			tip := make([]byte, 8)
			binary.BigEndian.PutUint64(tip, uint64(block.Height))
			if err := txn.Set(tipKey, tip); err != nil {
				return errs.Wrap(err, errs.WriteError, "storage: failed to advance chain tip")
			}
		}
		return nil
	})
}

func (s *BlockStore) chainHeightTxn(txn *badger.Txn) (chaintypes.Height, error) {
	item, err := txn.Get(tipKey)
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, errs.Wrap(err, errs.ReadError, "storage: failed to read chain tip")
	}
	var height chaintypes.Height
	err = item.Value(func(val []byte) error {
		height = chaintypes.Height(binary.BigEndian.Uint64(val))
		return nil
	})
	return height, err
}

// ChainHeight returns the highest height ever Appended, or 0 if empty.
func (s *BlockStore) ChainHeight() chaintypes.Height {
	var height chaintypes.Height
	_ = s.db.View(func(txn *badger.Txn) error {
		h, err := s.chainHeightTxn(txn)
		if err != nil {
			return err
		}
		height = h
		return nil
	})
	return height
}

// FinalizedHeight is a placeholder until a finalization orchestrator
// wires a real value in; this store only tracks raw chain height.
func (s *BlockStore) FinalizedHeight() chaintypes.Height {
	return 0
}

// Score reports a zero chain score: fork-choice scoring is explicitly
// out of scope (§1 Non-goals).
func (s *BlockStore) Score() (uint64, uint64) {
	return 0, 0
}

// BlockAt loads the stored block body at height, if present.
func (s *BlockStore) BlockAt(height chaintypes.Height) ([]byte, bool) {
	stored, ok := s.loadHeight(height)
	if !ok {
		return nil, false
	}
	return stored.Data, true
}

// HashAt loads the stored block's hash at height, if present.
func (s *BlockStore) HashAt(height chaintypes.Height) (chaintypes.Hash256, bool) {
	stored, ok := s.loadHeight(height)
	if !ok {
		return chaintypes.Hash256{}, false
	}
	return stored.Hash, true
}

// SubCacheMerkleRoots is not persisted by this storage stand-in; it
// always reports no sub-cache roots (§4.11: "empty response if none are
// present").
func (s *BlockStore) SubCacheMerkleRoots(height chaintypes.Height) []chaintypes.Hash256 {
	return nil
}

func (s *BlockStore) loadHeight(height chaintypes.Height) (StoredBlock, bool) {
	var stored StoredBlock
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blockKey(height))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if decodeErr := gob.NewDecoder(bytes.NewReader(val)).Decode(&stored); decodeErr != nil {
				return decodeErr
			}
			found = true
			return nil
		})
	})
	if err != nil {
		s.logger.Warn("storage: block lookup failed", zap.Uint64("height", uint64(height)), zap.Error(err))
		return StoredBlock{}, false
	}
	return stored, found
}
