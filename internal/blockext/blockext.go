// Package blockext implements the BLOCK-EXTENSIONS component (§4.3): the
// transactions-hash maintenance, full-block signing and verification, and
// the raw-block-to-BlockElement conversion that sits on top of the entity
// hasher.
//
// Signatures are crypto/ed25519 (stdlib) rather than a third-party
// implementation: the spec's fixed Signature(64B)/Key(32B) sizes are
// ed25519's native sizes, and no example in the retrieval pack ships a
// third-party Ed25519 implementation distinct from the standard library's
// (see DESIGN.md).
package blockext

import (
	"crypto/ed25519"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
	"github.com/solechain/core/internal/hashing"
)

// VerifyResult is the outcome of verifying a full block (§4.3).
type VerifyResult int

const (
	Success VerifyResult = iota
	InvalidBlockSignature
	InvalidBlockTransactionsHash
	InvalidTransactionSignature
)

func (r VerifyResult) String() string {
	switch r {
	case Success:
		return "Success"
	case InvalidBlockSignature:
		return "InvalidBlockSignature"
	case InvalidBlockTransactionsHash:
		return "InvalidBlockTransactionsHash"
	case InvalidTransactionSignature:
		return "InvalidTransactionSignature"
	default:
		return "Unknown"
	}
}

// Extensions bundles an entity hasher and the generation hash (network
// replay-protection seed) that block/transaction hashing requires.
type Extensions struct {
	hasher         *entity.Hasher
	generationHash chaintypes.Hash256
}

// New builds block Extensions over the given entity hasher and generation
// hash seed.
func New(hasher *entity.Hasher, generationHash chaintypes.Hash256) *Extensions {
	return &Extensions{hasher: hasher, generationHash: generationHash}
}

// CalculateTransactionsHash computes the merkle root over the
// MerkleComponentHash of each transaction in b, in order (I3), without
// mutating b.
func (x *Extensions) CalculateTransactionsHash(b *entity.Block) chaintypes.Hash256 {
	leaves := make([]chaintypes.Hash256, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		entityHash := x.hasher.HashTransaction(tx, x.generationHash)
		leaves = append(leaves, x.hasher.MerkleComponentHash(tx, entityHash))
	}
	return hashing.MerkleRoot(leaves)
}

// UpdateTransactionsHash computes the transactions hash and writes it into
// b.Header.TransactionsHash.
func (x *Extensions) UpdateTransactionsHash(b *entity.Block) {
	b.Header.TransactionsHash = x.CalculateTransactionsHash(b)
}

// SignFullBlock updates the transactions hash, then signs the block's
// canonical signable range (Height/Timestamp/Difficulty/PreviousBlockHash/
// TransactionsHash — excluding the footer, §4.3) with the validator's
// private key, writing the result into the header's Signature and
// SignerPublicKey fields.
func (x *Extensions) SignFullBlock(signer ed25519.PrivateKey, b *entity.Block) {
	x.UpdateTransactionsHash(b)

	sig := ed25519.Sign(signer, b.Header.SignableFields())
	copy(b.Header.Signature[:], sig)

	pub := signer.Public().(ed25519.PublicKey)
	copy(b.Header.SignerPublicKey[:], pub)
}

// VerifyFullBlock performs the three checks of I4 in order, short-circuiting
// on the first failure: header signature, recomputed transactions hash,
// then every transaction's own signature.
func (x *Extensions) VerifyFullBlock(b *entity.Block) VerifyResult {
	if !ed25519.Verify(b.Header.SignerPublicKey[:], b.Header.SignableFields(), b.Header.Signature[:]) {
		return InvalidBlockSignature
	}

	if x.CalculateTransactionsHash(b) != b.Header.TransactionsHash {
		return InvalidBlockTransactionsHash
	}

	for _, tx := range b.Transactions {
		if !x.verifyTransactionSignature(tx) {
			return InvalidTransactionSignature
		}
	}

	return Success
}

func (x *Extensions) verifyTransactionSignature(tx *entity.Transaction) bool {
	return ed25519.Verify(tx.Header.Signer[:], tx.SignableFields(), tx.Header.Signature[:])
}

// SignTransaction signs tx's canonical signable range (MaxFee+Deadline+
// Payload) with signer, writing Signature and Signer.
func SignTransaction(signer ed25519.PrivateKey, tx *entity.Transaction) {
	sig := ed25519.Sign(signer, tx.SignableFields())
	copy(tx.Header.Signature[:], sig)
	pub := signer.Public().(ed25519.PublicKey)
	copy(tx.Header.Signer[:], pub)
}

// ConvertBlockToBlockElement populates a BlockElement from a raw block: its
// EntityHash, the given generation hash, and per-transaction EntityHash /
// MerkleComponentHash (§4.3).
func (x *Extensions) ConvertBlockToBlockElement(b *entity.Block, generationHash chaintypes.Hash256) *entity.BlockElement {
	elements := make([]entity.TransactionElement, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		txEntityHash := x.hasher.HashTransaction(tx, generationHash)
		elements = append(elements, entity.TransactionElement{
			Transaction:         tx,
			EntityHash:          txEntityHash,
			MerkleComponentHash: x.hasher.MerkleComponentHash(tx, txEntityHash),
		})
	}

	return &entity.BlockElement{
		Block:          b,
		EntityHash:     x.hasher.HashBlock(b),
		GenerationHash: generationHash,
		Transactions:   elements,
	}
}
