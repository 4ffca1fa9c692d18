package hashing

import "github.com/solechain/core/internal/chaintypes"

// Tree is a merkle builder over a sequence of 32-byte leaves (§4.1, §I6).
//
// update appends a leaf; final balances the last layer by duplicating the
// final hash until the count is even, then repeatedly hashes sibling pairs
// into the next layer until one root remains. The zero value is an empty
// tree (ready to accept leaves via Update).
type Tree struct {
	leaves []chaintypes.Hash256
}

// NewTree builds a Tree pre-seeded with the given leaves, in order.
func NewTree(leaves []chaintypes.Hash256) *Tree {
	t := &Tree{leaves: make([]chaintypes.Hash256, len(leaves))}
	copy(t.leaves, leaves)
	return t
}

// Update appends a leaf hash to the tree.
func (t *Tree) Update(h chaintypes.Hash256) {
	t.leaves = append(t.leaves, h)
}

// Root computes the merkle root. The root of zero leaves is the all-zero
// hash; the root of a single leaf is that leaf, unchanged.
func (t *Tree) Root() chaintypes.Hash256 {
	layers := t.layers()
	if len(layers) == 0 {
		return chaintypes.Hash256{}
	}
	last := layers[len(layers)-1]
	return last[0]
}

// FinalTree returns the full layered tree, leaves first, then each reduced
// layer in order, ending with a final layer of exactly one element (the
// root) — unless the tree has zero leaves, in which case it returns nil.
func (t *Tree) FinalTree() [][]chaintypes.Hash256 {
	return t.layers()
}

// layers performs the balanced-duplication reduction and returns every
// layer produced, including the single-leaf layer itself.
func (t *Tree) layers() [][]chaintypes.Hash256 {
	if len(t.leaves) == 0 {
		return nil
	}

	current := make([]chaintypes.Hash256, len(t.leaves))
	copy(current, t.leaves)
	layers := [][]chaintypes.Hash256{current}

	for len(current) > 1 {
		if len(current)%2 != 0 {
			current = append(current, current[len(current)-1])
		}
		next := make([]chaintypes.Hash256, 0, len(current)/2)
		for i := 0; i < len(current); i += 2 {
			next = append(next, Sum256(current[i][:], current[i+1][:]))
		}
		layers = append(layers, next)
		current = next
	}

	return layers
}

// MerkleRoot is the one-shot convenience form of building a Tree and taking
// its root, used wherever only the root (not the full tree) is needed.
func MerkleRoot(leaves []chaintypes.Hash256) chaintypes.Hash256 {
	return NewTree(leaves).Root()
}
