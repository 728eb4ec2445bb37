package blockindex

import (
	"sync"

	"github.com/libsv/go-bt/v2/chainhash"
)

// Tree is the global map of every known header (bitcoin-abc's
// BlockMap). Nodes are never evicted once inserted (§5): they are
// referenced by descendants and by whichever chain.Chain projections
// hold them in their height-indexed slice.
type Tree struct {
	mu    sync.RWMutex
	nodes map[chainhash.Hash]*Node
	seq   int64
}

func NewTree() *Tree {
	return &Tree{nodes: make(map[chainhash.Hash]*Node)}
}

// Insert registers a node, builds its skip pointer (Prev must already
// be set and itself registered), and assigns the next sequence id used
// to break ties among equal-work candidates.
func (t *Tree) Insert(n *Node) *Node {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	n.SequenceID = t.seq

	if n.Prev != nil {
		n.ChainWork = n.Prev.ChainWork.Add(blockProofOf(n))
		n.TimeMax = maxUint32(n.Prev.TimeMax, n.Time)
	} else {
		n.ChainWork = blockProofOf(n)
		n.TimeMax = n.Time
	}

	n.BuildSkip()

	t.nodes[n.Hash] = n

	return n
}

func (t *Tree) Get(hash chainhash.Hash) *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[hash]
}

func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

func maxUint32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
