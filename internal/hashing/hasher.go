// Package hashing implements the two leaf components of the chain-link
// subsystem: the incremental SHA3-256 builder (HASHER, spec §2) and the
// balanced-duplication merkle-hash builder (MERKLE, spec §4.1).
//
// SHA3-256 is golang.org/x/crypto/sha3, the same module the teacher already
// depends on (for ripemd160); grounded further on
// other_examples/9035cd7f_ethereum-go-ethereum__consensus-clique-clique.go.go,
// which hashes block headers with the sibling sha3.NewLegacyKeccak256.
package hashing

import (
	"hash"

	"golang.org/x/crypto/sha3"

	"github.com/solechain/core/internal/chaintypes"
)

// Builder is an incremental SHA3-256 digest builder.
type Builder struct {
	state hash.Hash
}

// NewHasher returns a fresh incremental SHA3-256 builder.
func NewHasher() *Builder {
	return &Builder{state: sha3.New256()}
}

// Write feeds raw bytes into the running digest.
func (b *Builder) Write(p []byte) *Builder {
	_, _ = b.state.Write(p)
	return b
}

// Sum finalizes the digest into a Hash256 without resetting the builder's
// running state, mirroring hash.Hash.Sum's append-and-return contract.
func (b *Builder) Sum() chaintypes.Hash256 {
	var out chaintypes.Hash256
	copy(out[:], b.state.Sum(nil))
	return out
}

// Reset clears the builder so it can be reused for a new digest.
func (b *Builder) Reset() {
	b.state.Reset()
}

// Sum256 is the one-shot convenience form: raw bytes straight to a digest.
func Sum256(chunks ...[]byte) chaintypes.Hash256 {
	b := NewHasher()
	for _, c := range chunks {
		b.Write(c)
	}
	return b.Sum()
}
