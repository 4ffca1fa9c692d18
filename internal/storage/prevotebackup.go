package storage

import (
	"sync"

	"github.com/google/uuid"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/finalization"
)

// prevoteBackup is the chain of blocks a validator stashed before voting
// on it, kept around so a later finalization notification that picks a
// different branch can still patch a node whose local chain diverged.
type prevoteBackup struct {
	handle uuid.UUID
	round  chaintypes.FinalizationRound
	chain  []finalization.BlockRangeEntry
}

// PrevoteChainBackupStore is an in-memory implementation of
// finalization.PrevoteChainBackupStore (§4.5). Each backup is tagged
// with a uuid handle purely for diagnostic naming (e.g. surfaced in
// logs); round remains the store's actual lookup key.
type PrevoteChainBackupStore struct {
	mu      sync.Mutex
	backups map[chaintypes.FinalizationRound]*prevoteBackup
}

// NewPrevoteChainBackupStore returns an empty backup store.
func NewPrevoteChainBackupStore() *PrevoteChainBackupStore {
	return &PrevoteChainBackupStore{backups: make(map[chaintypes.FinalizationRound]*prevoteBackup)}
}

// StashChain records chain as the prevote backup for round, returning the
// diagnostic handle it was stashed under.
func (s *PrevoteChainBackupStore) StashChain(round chaintypes.FinalizationRound, chain []finalization.BlockRangeEntry) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := uuid.New()
	s.backups[round] = &prevoteBackup{handle: handle, round: round, chain: chain}
	return handle
}

// Contains reports whether round's backup covers (height, hash) — i.e.
// the backup's chain reaches at least height with a matching hash there.
func (s *PrevoteChainBackupStore) Contains(round chaintypes.FinalizationRound, height chaintypes.Height, hash chaintypes.Hash256) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup, ok := s.backups[round]
	if !ok {
		return false
	}
	for _, entry := range backup.chain {
		if entry.Height == height && entry.Hash == hash {
			return true
		}
	}
	return false
}

// LoadChain returns the backed-up entries for round up to and including
// uptoHeight.
func (s *PrevoteChainBackupStore) LoadChain(round chaintypes.FinalizationRound, uptoHeight chaintypes.Height) ([]finalization.BlockRangeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup, ok := s.backups[round]
	if !ok {
		return nil, nil
	}
	out := make([]finalization.BlockRangeEntry, 0, len(backup.chain))
	for _, entry := range backup.chain {
		if entry.Height <= uptoHeight {
			out = append(out, entry)
		}
	}
	return out, nil
}

// RemoveBackup discards round's backup, if any.
func (s *PrevoteChainBackupStore) RemoveBackup(round chaintypes.FinalizationRound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.backups, round)
}
