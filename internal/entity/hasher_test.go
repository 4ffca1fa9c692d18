package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
)

func newRegistry() *entity.PluginRegistry {
	r := entity.NewPluginRegistry()
	r.Register(entity.TransferTypeTag, entity.NewTransferTypeHandler())
	return r
}

func sampleTransaction() *entity.Transaction {
	payload := entity.EncodeTransferPayload(entity.TransferPayload{
		Recipient: chaintypes.Key{0xAA},
		Amount:    1_000,
	})
	return &entity.Transaction{
		Header: entity.TransactionHeader{
			Type:     entity.TransferTypeTag,
			Version:  1,
			Network:  0x90,
			MaxFee:   10,
			Deadline: 123456,
		},
		Payload: payload,
	}
}

func TestHasher_HashTransaction_Deterministic(t *testing.T) {
	h := entity.NewHasher(newRegistry())
	tx := sampleTransaction()
	gen := chaintypes.Hash256{1, 2, 3}

	h1 := h.HashTransaction(tx, gen)
	h2 := h.HashTransaction(tx, gen)
	assert.Equal(t, h1, h2, "hashing the same transaction twice must be deterministic")
}

func TestHasher_HashTransaction_GenerationHashParticipates(t *testing.T) {
	h := entity.NewHasher(newRegistry())
	tx := sampleTransaction()

	h1 := h.HashTransaction(tx, chaintypes.Hash256{1})
	h2 := h.HashTransaction(tx, chaintypes.Hash256{2})
	assert.NotEqual(t, h1, h2, "generation hash must participate in a transaction's entity hash (I1)")
}

func TestHasher_HashBlock_ExcludesGenerationHash(t *testing.T) {
	h := entity.NewHasher(newRegistry())
	b := &entity.Block{Header: entity.BlockHeader{
		Height:            1,
		Timestamp:         10,
		Difficulty:        100,
		PreviousBlockHash: chaintypes.Hash256{9},
	}}

	// A block's entity hash has no generation-hash input at all (I1), so it
	// must be stable across repeated computation from the same header.
	h1 := h.HashBlock(b)
	h2 := h.HashBlock(b)
	assert.Equal(t, h1, h2)
}

func TestHasher_MerkleComponentHash_DefaultsToEntityHash(t *testing.T) {
	h := entity.NewHasher(newRegistry())
	tx := sampleTransaction()
	entityHash := h.HashTransaction(tx, chaintypes.Hash256{})

	// TransferPayload has no merkle-supplementary buffers, so I2's default
	// branch applies: MerkleComponentHash == EntityHash.
	assert.Equal(t, entityHash, h.MerkleComponentHash(tx, entityHash))
}

type supplementingHandler struct{ buf []byte }

func (s supplementingHandler) DataBuffer(tx *entity.Transaction) []byte { return tx.BodyForHash() }
func (s supplementingHandler) MerkleSupplementaryBuffers(tx *entity.Transaction) [][]byte {
	return [][]byte{s.buf}
}

func TestHasher_MerkleComponentHash_WithSupplementaryBuffer(t *testing.T) {
	const supplementingTag uint32 = 0x5350

	registry := entity.NewPluginRegistry()
	registry.Register(supplementingTag, supplementingHandler{buf: []byte("cosignatures")})

	h := entity.NewHasher(registry)
	tx := sampleTransaction()
	tx.Header.Type = supplementingTag

	entityHash := h.HashTransaction(tx, chaintypes.Hash256{})
	componentHash := h.MerkleComponentHash(tx, entityHash)

	assert.NotEqual(t, entityHash, componentHash, "a plugin contributing supplementary buffers must change the merkle component hash (I2)")
}

func TestPluginRegistry_Find_PanicsOnUnknownType(t *testing.T) {
	registry := entity.NewPluginRegistry()
	require.Panics(t, func() {
		registry.Find(0xDEAD)
	}, "lookup of an unregistered transaction type must be fatal (§4.2)")
}

func TestTransferPayload_RoundTrip(t *testing.T) {
	want := entity.TransferPayload{Recipient: chaintypes.Key{1, 2, 3}, Amount: 42}
	encoded := entity.EncodeTransferPayload(want)

	got, ok := entity.DecodeTransferPayload(encoded)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestTransferPayload_DecodeRejectsWrongLength(t *testing.T) {
	_, ok := entity.DecodeTransferPayload([]byte{1, 2, 3})
	assert.False(t, ok)
}
