package finalization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
	"github.com/solechain/core/internal/finalization"
)

type fakeProofStore struct {
	round chaintypes.FinalizationRound
	saved []*entity.FinalizationProof
}

func (f *fakeProofStore) Save(proof *entity.FinalizationProof) error {
	f.saved = append(f.saved, proof)
	return nil
}

func (f *fakeProofStore) CurrentRound() chaintypes.FinalizationRound { return f.round }

type fakeSubscriber struct {
	notified bool
	round    chaintypes.FinalizationRound
	height   chaintypes.Height
	hash     chaintypes.Hash256
}

func (f *fakeSubscriber) NotifyFinalizedBlock(round chaintypes.FinalizationRound, height chaintypes.Height, hash chaintypes.Hash256) error {
	f.notified = true
	f.round, f.height, f.hash = round, height, hash
	return nil
}

func TestAggregateProofStorage_SavesAndNotifiesWhenRoundIsCurrentOrNewer(t *testing.T) {
	store := &fakeProofStore{round: chaintypes.FinalizationRound{Epoch: 1, Point: 1}}
	sub := &fakeSubscriber{}
	agg := finalization.NewAggregateProofStorage(store, sub, zap.NewNop())

	proof := &entity.FinalizationProof{
		Round:  chaintypes.FinalizationRound{Epoch: 1, Point: 2},
		Height: 100,
		Hash:   chaintypes.Hash256{5},
	}

	require.NoError(t, agg.SaveProof(proof))
	assert.Len(t, store.saved, 1)
	assert.True(t, sub.notified)
	assert.Equal(t, proof.Round, sub.round)
}

func TestAggregateProofStorage_DropsStaleProof(t *testing.T) {
	store := &fakeProofStore{round: chaintypes.FinalizationRound{Epoch: 5, Point: 0}}
	sub := &fakeSubscriber{}
	agg := finalization.NewAggregateProofStorage(store, sub, zap.NewNop())

	staleProof := &entity.FinalizationProof{
		Round:  chaintypes.FinalizationRound{Epoch: 1, Point: 0},
		Height: 10,
		Hash:   chaintypes.Hash256{1},
	}

	require.NoError(t, agg.SaveProof(staleProof))
	assert.Empty(t, store.saved, "a proof older than the current round must not be saved")
	assert.False(t, sub.notified, "a dropped save must not notify")
}
