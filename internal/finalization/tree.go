// Package finalization implements the finalization overlay (§4.4, §4.5):
// an in-memory hash tree of (height, hash) nodes, the aggregate proof
// storage that filters stale saves, and the patching subscriber that
// repairs a node's local chain from a backed-up prevote chain.
package finalization

import "github.com/solechain/core/internal/chaintypes"

// Key is a node's unique identity in the tree: a (height, hash) pair
// (§3 HeightHashPair).
type Key = chaintypes.HeightHashPair

type node struct {
	key    Key
	parent *Key
}

// Tree is an arena-indexed forest of nodes keyed by (height, hash), each
// with a parent back-link. It is not internally synchronized (§5): the
// finalization orchestrator is the sole writer.
type Tree struct {
	nodes map[Key]*node
}

// NewTree returns an empty finalization tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[Key]*node)}
}

// AddBranch inserts nodes for heights start, start+1, …, start+len(hashes)-1,
// one per entry of hashes. Each node's parent is the node previously
// inserted for the predecessor (height-1, previous hash) pair. If a key
// is already present, its parent is left untouched: the first-seen
// parent wins, preserving the earliest branch through that node (§4.4).
func (t *Tree) AddBranch(start chaintypes.Height, hashes []chaintypes.Hash256) {
	var prevKey *Key
	for i, h := range hashes {
		key := Key{Height: start + chaintypes.Height(i), Hash: h}
		if existing, ok := t.nodes[key]; ok {
			prevKey = &existing.key
			continue
		}
		n := &node{key: key, parent: prevKey}
		t.nodes[key] = n
		keyCopy := key
		prevKey = &keyCopy
	}
}

// Contains reports whether k has been inserted.
func (t *Tree) Contains(k Key) bool {
	_, ok := t.nodes[k]
	return ok
}

// FindAncestors returns the inclusive chain of k and its ancestors,
// leaf-to-root order. Returns nil if k is not in the tree.
func (t *Tree) FindAncestors(k Key) []Key {
	n, ok := t.nodes[k]
	if !ok {
		return nil
	}
	var out []Key
	for n != nil {
		out = append(out, n.key)
		if n.parent == nil {
			break
		}
		next, ok := t.nodes[*n.parent]
		if !ok {
			break
		}
		n = next
	}
	return out
}

// IsDescendant reports whether walking parent links from childKey
// reaches parentKey (inclusive: a node is its own ancestor and its own
// descendant, I5). If childKey is not in the tree, returns false even
// when parentKey == childKey.
func (t *Tree) IsDescendant(parentKey, childKey Key) bool {
	n, ok := t.nodes[childKey]
	if !ok {
		return false
	}
	for {
		if n.key == parentKey {
			return true
		}
		if n.parent == nil {
			return false
		}
		next, ok := t.nodes[*n.parent]
		if !ok {
			return false
		}
		n = next
	}
}
