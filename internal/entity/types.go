// Package entity holds the chain-link data model (spec §3): blocks,
// transactions, their hash-annotated element wrappers, and finalization
// proofs, plus the entity hasher and plugin registry that compute and
// verify their canonical hashes (spec §4.2).
package entity

import "github.com/solechain/core/internal/chaintypes"

// BlockHeader is the fixed-size record preceding a block's transactions
// (§3). Footer is trailing type-specific bytes (e.g. PoS committee
// metadata); it participates in the entity hash but not in the signature
// (§4.3).
type BlockHeader struct {
	Size              uint32
	Type              uint32
	Version           uint8
	Network           uint8
	SignerPublicKey   chaintypes.Key
	Signature         chaintypes.Signature
	Height            chaintypes.Height
	Timestamp         chaintypes.Timestamp
	Difficulty        chaintypes.Difficulty
	PreviousBlockHash chaintypes.Hash256
	TransactionsHash  chaintypes.Hash256
	Footer            []byte
}

// Block is a header plus its ordered transactions.
type Block struct {
	Header       BlockHeader
	Transactions []*Transaction
}

// TransactionHeader is the fixed-size prefix of every transaction (§3),
// followed by a plugin-defined payload.
type TransactionHeader struct {
	Size      uint32
	Type      uint32
	Version   uint8
	Network   uint8
	Signer    chaintypes.Key
	Signature chaintypes.Signature
	MaxFee    chaintypes.Amount
	Deadline  chaintypes.Timestamp
}

// Transaction is a TransactionHeader plus its plugin-defined payload bytes.
type Transaction struct {
	Header  TransactionHeader
	Payload []byte
}

// TransactionInfo pairs a transaction with its derived hashes and, when
// available, pre-extracted participant addresses (§3). A
// DetachedTransactionInfo is the same shape without MerkleComponentHash —
// used while a transaction is still outside of any block.
type TransactionInfo struct {
	Transaction        *Transaction
	EntityHash         chaintypes.Hash256
	MerkleComponentHash chaintypes.Hash256
	Addresses          [][]byte // optional, nil unless pre-extracted
}

// DetachedTransactionInfo lacks MerkleComponentHash (§3); it is what the
// mempool caches store before a transaction is ever included in a block.
// Cosignatures accumulates as co-signers attach to a partial (aggregate)
// transaction while it sits in the PT cache (§4.7); it is always empty for
// UT-cached infos.
type DetachedTransactionInfo struct {
	Transaction  *Transaction
	EntityHash   chaintypes.Hash256
	Addresses    [][]byte
	Cosignatures []Cosignature
}

// Cosignature pairs a co-signer's public key with its signature over a
// parent aggregate transaction's hash (§4.7).
type Cosignature struct {
	SignerPublicKey chaintypes.Key
	Signature       chaintypes.Signature
}

// TransactionElement is a transaction paired with its hashes, the unit a
// BlockElement carries per transaction (§3).
type TransactionElement struct {
	Transaction         *Transaction
	EntityHash          chaintypes.Hash256
	MerkleComponentHash chaintypes.Hash256
}

// BlockElement is a block paired with its entity hash, generation hash, and
// one TransactionElement per transaction, in order (§3, GLOSSARY).
type BlockElement struct {
	Block          *Block
	EntityHash     chaintypes.Hash256
	GenerationHash chaintypes.Hash256
	Transactions   []TransactionElement
}

// FinalizationProof is the quorum artifact that promotes a block to
// irrevocable status (§3). Witness is the plugin-defined quorum evidence
// (e.g. a BLS multi-signature or a set of voter signatures); this subsystem
// treats it as opaque bytes.
type FinalizationProof struct {
	Size    uint32
	Round   chaintypes.FinalizationRound
	Height  chaintypes.Height
	Hash    chaintypes.Hash256
	Witness []byte
}

// SignerRange returns the bytes of the block header consumed as hash input
// (b) — the signer public key alone.
func (h *BlockHeader) SignerRange() []byte {
	return h.SignerPublicKey[:]
}

// RRange returns the first half of the signature, R (hash input (a)).
func (h *BlockHeader) RRange() []byte {
	return h.Signature[:chaintypes.SignatureSize/2]
}

// BodyForHash returns the block header's body: everything the entity hash
// covers beyond the signer (Height through Footer). Generation hash is
// excluded for blocks (I1).
func (h *BlockHeader) BodyForHash() []byte {
	return append(h.SignableFields(), h.Footer...)
}

// SignableFields returns Height/Timestamp/Difficulty/PreviousBlockHash/
// TransactionsHash concatenated in canonical order — the range actually
// signed (§4.3: the footer is excluded from the signature, though included
// in the entity hash via BodyForHash).
func (h *BlockHeader) SignableFields() []byte {
	out := make([]byte, 0, 8+8+8+chaintypes.HashSize+chaintypes.HashSize)
	out = appendUint64(out, uint64(h.Height))
	out = appendUint64(out, uint64(h.Timestamp))
	out = appendUint64(out, uint64(h.Difficulty))
	out = append(out, h.PreviousBlockHash[:]...)
	out = append(out, h.TransactionsHash[:]...)
	return out
}

// SignerRange and RRange for transactions, symmetric to the block helpers.
func (h *TransactionHeader) SignerRange() []byte { return h.Signer[:] }
func (h *TransactionHeader) RRange() []byte      { return h.Signature[:chaintypes.SignatureSize/2] }

// BodyForHash for a transaction is MaxFee+Deadline+Payload — the plugin
// registry's data_buffer(T) is exactly this range (§4.2).
func (t *Transaction) BodyForHash() []byte {
	out := make([]byte, 0, 16+len(t.Payload))
	out = appendUint64(out, uint64(t.Header.MaxFee))
	out = appendUint64(out, uint64(t.Header.Deadline))
	out = append(out, t.Payload...)
	return out
}

// SignableFields for a transaction is the same range as BodyForHash: there
// is no transaction-level footer to exclude.
func (t *Transaction) SignableFields() []byte { return t.BodyForHash() }

func appendUint64(dst []byte, v uint64) []byte {
	return append(dst,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}
