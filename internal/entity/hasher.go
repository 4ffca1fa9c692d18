package entity

import (
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/hashing"
)

// Hasher computes block and transaction entity hashes and merkle component
// hashes using a plugin registry oracle (§4.2, GLOSSARY "Entity hash").
type Hasher struct {
	registry *PluginRegistry
}

// NewHasher builds an entity Hasher backed by the given plugin registry.
func NewHasher(registry *PluginRegistry) *Hasher {
	return &Hasher{registry: registry}
}

// HashBlock computes a block's entity hash: H(R || Signer || body), with no
// generation hash (I1: excluded for blocks).
func (h *Hasher) HashBlock(b *Block) chaintypes.Hash256 {
	hdr := &b.Header
	return hashing.Sum256(hdr.RRange(), hdr.SignerRange(), hdr.BodyForHash())
}

// HashTransaction computes a transaction's entity hash using the registry's
// data buffer for its type: H(R || Signer || generationHash || dataBuffer).
func (h *Hasher) HashTransaction(tx *Transaction, generationHash chaintypes.Hash256) chaintypes.Hash256 {
	buf := h.registry.Find(tx.Header.Type).DataBuffer(tx)
	return h.HashTransactionWithBuffer(tx, generationHash, buf)
}

// HashTransactionWithBuffer is the explicit-buffer variant of
// HashTransaction, letting a caller (e.g. a signature verifier) supply the
// exact same byte range the registry would have produced, per §4.2's
// requirement that hashing and signature verification use the same range.
func (h *Hasher) HashTransactionWithBuffer(tx *Transaction, generationHash chaintypes.Hash256, buf []byte) chaintypes.Hash256 {
	hdr := &tx.Header
	return hashing.Sum256(hdr.RRange(), hdr.SignerRange(), generationHash[:], buf)
}

// MerkleComponentHash computes the per-transaction hash fed to the merkle
// builder (I2): equal to the entity hash when the plugin contributes no
// supplementary buffers, otherwise H(entityHash || buf_1 || buf_2 || …) in
// plugin-declared order.
func (h *Hasher) MerkleComponentHash(tx *Transaction, entityHash chaintypes.Hash256) chaintypes.Hash256 {
	buffers := h.registry.Find(tx.Header.Type).MerkleSupplementaryBuffers(tx)
	if len(buffers) == 0 {
		return entityHash
	}
	chunks := make([][]byte, 0, len(buffers)+1)
	chunks = append(chunks, entityHash[:])
	chunks = append(chunks, buffers...)
	return hashing.Sum256(chunks...)
}
