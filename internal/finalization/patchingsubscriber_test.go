package finalization_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/finalization"
)

type fakeStorageView struct {
	hashes map[chaintypes.Height]chaintypes.Hash256
}

func (f *fakeStorageView) HashAt(height chaintypes.Height) (chaintypes.Hash256, bool) {
	h, ok := f.hashes[height]
	return h, ok
}

type fakeBackupStore struct {
	hasBackup    bool
	loadErr      error
	loaded       []finalization.BlockRangeEntry
	removedRound *chaintypes.FinalizationRound
}

func (f *fakeBackupStore) Contains(round chaintypes.FinalizationRound, height chaintypes.Height, hash chaintypes.Hash256) bool {
	return f.hasBackup
}

func (f *fakeBackupStore) LoadChain(round chaintypes.FinalizationRound, uptoHeight chaintypes.Height) ([]finalization.BlockRangeEntry, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.loaded, nil
}

func (f *fakeBackupStore) RemoveBackup(round chaintypes.FinalizationRound) {
	r := round
	f.removedRound = &r
}

type fakeConsumer struct {
	consumed []finalization.BlockRangeEntry
}

func (f *fakeConsumer) ConsumeBlockRange(blocks []finalization.BlockRangeEntry) error {
	f.consumed = blocks
	return nil
}

func TestPatchingSubscriber_NoOpWhenHashesMatch(t *testing.T) {
	height := chaintypes.Height(10)
	hash := chaintypes.Hash256{1}

	storage := &fakeStorageView{hashes: map[chaintypes.Height]chaintypes.Hash256{height: hash}}
	backups := &fakeBackupStore{hasBackup: true}
	consumer := &fakeConsumer{}

	sub := finalization.NewPatchingSubscriber(storage, backups, consumer)
	round := chaintypes.FinalizationRound{Epoch: 1, Point: 1}
	require.NoError(t, sub.NotifyFinalizedBlock(round, height, hash))

	assert.Nil(t, consumer.consumed)
	require.NotNil(t, backups.removedRound, "the round's backup must always be removed")
	assert.Equal(t, round, *backups.removedRound)
}

func TestPatchingSubscriber_StorageMissTreatedAsDiffers(t *testing.T) {
	height := chaintypes.Height(10)
	hash := chaintypes.Hash256{1}

	storage := &fakeStorageView{hashes: map[chaintypes.Height]chaintypes.Hash256{}}
	backups := &fakeBackupStore{hasBackup: true, loaded: []finalization.BlockRangeEntry{{Height: height, Hash: hash}}}
	consumer := &fakeConsumer{}

	sub := finalization.NewPatchingSubscriber(storage, backups, consumer)
	round := chaintypes.FinalizationRound{Epoch: 1, Point: 1}
	require.NoError(t, sub.NotifyFinalizedBlock(round, height, hash))

	require.Len(t, consumer.consumed, 1)
}

func TestPatchingSubscriber_NoBackupMeansNoPatch(t *testing.T) {
	height := chaintypes.Height(10)
	hash := chaintypes.Hash256{1}

	storage := &fakeStorageView{hashes: map[chaintypes.Height]chaintypes.Hash256{height: {2}}}
	backups := &fakeBackupStore{hasBackup: false}
	consumer := &fakeConsumer{}

	sub := finalization.NewPatchingSubscriber(storage, backups, consumer)
	round := chaintypes.FinalizationRound{Epoch: 1, Point: 1}
	require.NoError(t, sub.NotifyFinalizedBlock(round, height, hash))

	assert.Nil(t, consumer.consumed)
}

func TestPatchingSubscriber_LoadFailureSurfacesAsError(t *testing.T) {
	height := chaintypes.Height(10)
	hash := chaintypes.Hash256{1}

	storage := &fakeStorageView{hashes: map[chaintypes.Height]chaintypes.Hash256{height: {2}}}
	backups := &fakeBackupStore{hasBackup: true, loadErr: errors.New("backup corrupt")}
	consumer := &fakeConsumer{}

	sub := finalization.NewPatchingSubscriber(storage, backups, consumer)
	round := chaintypes.FinalizationRound{Epoch: 1, Point: 1}
	err := sub.NotifyFinalizedBlock(round, height, hash)

	assert.Error(t, err)
	require.NotNil(t, backups.removedRound, "backup removal happens regardless of outcome")
}
