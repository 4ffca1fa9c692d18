// Package chaintypes holds the fundamental wire-level value types shared
// across the chain-link, finalization, mempool, and sync-protocol packages
// (spec §3). It has no dependencies on the rest of the module so every other
// internal package can import it without risk of a cycle.
package chaintypes

import (
	"encoding/binary"
	"encoding/hex"
)

// HashSize is the width in bytes of a Hash256 digest.
const HashSize = 32

// Hash256 is an opaque 32-byte digest.
type Hash256 [HashSize]byte

// String renders the digest as lowercase hex, the way the teacher's CLI
// prints block and transaction hashes.
func (h Hash256) String() string { return hex.EncodeToString(h[:]) }

// IsZero reports whether h is the all-zero digest (the documented merkle
// root of zero leaves, and the sentinel "no previous block" hash).
func (h Hash256) IsZero() bool { return h == Hash256{} }

// ShortHash is the first 4 bytes of a Hash256, reinterpreted as a
// little-endian u32; a probabilistic filter key (§3, §I7: may collide,
// callers must tolerate false positives but never false negatives).
type ShortHash uint32

// ToShortHash derives the ShortHash of a Hash256.
func ToShortHash(h Hash256) ShortHash {
	return ShortHash(binary.LittleEndian.Uint32(h[:4]))
}

// Height is an unsigned block height. Real blocks start at 1; 0 is reserved
// as the "chain tip" request sentinel and is never a real block height.
type Height uint64

// HeightTipSentinel is the reserved zero height meaning "normalize to the
// current chain tip" (§4.11).
const HeightTipSentinel Height = 0

// Timestamp is a Unix-second wall-clock value.
type Timestamp int64

// Difficulty is an opaque PoW/PoS difficulty scalar.
type Difficulty uint64

// Amount is a native-token quantity in the chain's smallest unit.
type Amount uint64

// SignatureSize is the width in bytes of a Signature (ed25519 native size;
// see DESIGN.md for why ed25519 rather than the teacher's P256 ECDSA).
const SignatureSize = 64

// Signature is a fixed-size 64-byte entity signature.
type Signature [SignatureSize]byte

// KeySize is the width in bytes of a Key (ed25519 public key native size).
const KeySize = 32

// Key is a fixed-size 32-byte public key.
type Key [KeySize]byte

// FinalizationEpoch is the coarse-grained finalization era counter.
type FinalizationEpoch uint32

// FinalizationPoint is the fine-grained counter within a FinalizationEpoch.
type FinalizationPoint uint32

// FinalizationRound is (Epoch, Point), ordered lexicographically by Epoch
// then Point.
type FinalizationRound struct {
	Epoch FinalizationEpoch
	Point FinalizationPoint
}

// Less reports whether r sorts strictly before other.
func (r FinalizationRound) Less(other FinalizationRound) bool {
	if r.Epoch != other.Epoch {
		return r.Epoch < other.Epoch
	}
	return r.Point < other.Point
}

// Compare returns -1, 0, or 1 as r is less than, equal to, or greater than
// other, matching the lexicographic order the finalization overlay requires.
func (r FinalizationRound) Compare(other FinalizationRound) int {
	switch {
	case r.Less(other):
		return -1
	case other.Less(r):
		return 1
	default:
		return 0
	}
}

// HeightHashPair is the unique identity of a block within the finalization
// forest (§3); equality and hashing are over both fields.
type HeightHashPair struct {
	Height Height
	Hash   Hash256
}
