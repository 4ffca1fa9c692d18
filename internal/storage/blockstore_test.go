package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/storage"
)

func TestBlockStore_AppendAndLoad(t *testing.T) {
	store, err := storage.OpenBlockStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	block := storage.StoredBlock{Height: 1, Hash: chaintypes.Hash256{1}, Data: []byte("block-1")}
	require.NoError(t, store.Append(block))

	data, ok := store.BlockAt(1)
	require.True(t, ok)
	assert.Equal(t, []byte("block-1"), data)

	hash, ok := store.HashAt(1)
	require.True(t, ok)
	assert.Equal(t, chaintypes.Hash256{1}, hash)
}

func TestBlockStore_ChainHeightTracksMaximum(t *testing.T) {
	store, err := storage.OpenBlockStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, chaintypes.Height(0), store.ChainHeight())

	require.NoError(t, store.Append(storage.StoredBlock{Height: 5, Data: []byte("x")}))
	assert.Equal(t, chaintypes.Height(5), store.ChainHeight())

	require.NoError(t, store.Append(storage.StoredBlock{Height: 3, Data: []byte("y")}))
	assert.Equal(t, chaintypes.Height(5), store.ChainHeight(), "appending a lower height must not move the tip backward")
}

func TestBlockStore_BlockAtMissingHeight(t *testing.T) {
	store, err := storage.OpenBlockStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.BlockAt(42)
	assert.False(t, ok)
}
