// Package chain projects one linear active chain out of the block
// index DAG: a height-indexed view over whichever tip currently has
// the most cumulative work. Grounded on original_source/src/chain.h
// (CChain).
package chain

import (
	"github.com/bitcoin-sv/teranode-consensus/blockindex"
	"github.com/libsv/go-bt/v2/chainhash"
)

// Chain is a height-indexed sequence of block index nodes; the last
// element is the tip.
type Chain struct {
	nodes []*blockindex.Node
}

func New() *Chain {
	return &Chain{}
}

func (c *Chain) Genesis() *blockindex.Node {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[0]
}

func (c *Chain) Tip() *blockindex.Node {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[len(c.nodes)-1]
}

// Height is the tip's height, or -1 when the chain is empty.
func (c *Chain) Height() int32 {
	if len(c.nodes) == 0 {
		return -1
	}
	return int32(len(c.nodes) - 1)
}

// At returns the node at height, or nil if out of range.
func (c *Chain) At(height int32) *blockindex.Node {
	if height < 0 || height >= int32(len(c.nodes)) {
		return nil
	}
	return c.nodes[height]
}

// Contains is O(1): n is on this chain iff the slot at n's height
// holds exactly n (identity, not content equality - §9 design notes).
func (c *Chain) Contains(n *blockindex.Node) bool {
	if n == nil {
		return false
	}
	return c.At(n.Height) == n
}

// Next returns the chain's node immediately after n, or nil if n is
// the tip or not on this chain.
func (c *Chain) Next(n *blockindex.Node) *blockindex.Node {
	if !c.Contains(n) {
		return nil
	}
	return c.At(n.Height + 1)
}

// SetTip resizes the projection to n.Height+1 and walks Prev back,
// overwriting slots until a slot already matches - a cheap reorg
// update that only rewrites the divergent suffix.
func (c *Chain) SetTip(n *blockindex.Node) {
	if n == nil {
		c.nodes = nil
		return
	}

	newSize := int(n.Height) + 1
	if cap(c.nodes) < newSize {
		grown := make([]*blockindex.Node, newSize)
		copy(grown, c.nodes)
		c.nodes = grown
	} else {
		oldSize := len(c.nodes)
		c.nodes = c.nodes[:newSize]
		for i := oldSize; i < newSize; i++ {
			c.nodes[i] = nil
		}
	}

	walk := n
	for walk != nil && c.nodes[walk.Height] != walk {
		c.nodes[walk.Height] = walk
		walk = walk.Prev
	}
}

// GetLocator builds a sparse back-walk list (§4.D): starting at n (or
// the tip if nil), step back doubling the stride after the first 10
// entries, always including genesis. Uses O(1) chain indexing when n
// is on this chain, otherwise the skip-list walk via GetAncestor.
func (c *Chain) GetLocator(n *blockindex.Node) []chainhash.Hash {
	if n == nil {
		n = c.Tip()
	}

	var locator []chainhash.Hash

	step := int32(1)
	height := int32(-1)
	if n != nil {
		height = n.Height
	}

	onChain := c.Contains(n)

	for {
		var cur *blockindex.Node
		if n == nil {
			break
		}

		if onChain {
			cur = c.At(height)
		} else {
			cur = n.GetAncestor(height)
		}

		if cur == nil {
			break
		}

		locator = append(locator, cur.Hash)

		if cur.Height == 0 {
			break
		}

		if len(locator) > 10 {
			step *= 2
		}

		height -= step
		if height < 0 {
			height = 0
		}
	}

	return locator
}

// FindFork climbs n down to this chain's height, then walks Prev
// until reaching a node this chain contains.
func (c *Chain) FindFork(n *blockindex.Node) *blockindex.Node {
	if n == nil {
		return nil
	}

	if n.Height > c.Height() {
		n = n.GetAncestor(c.Height())
	}

	for n != nil && !c.Contains(n) {
		n = n.Prev
	}

	return n
}

// FindEarliestAtLeast binary searches this chain by time_max, which is
// monotonically non-decreasing along the chain, returning the first
// node whose time_max >= t.
func (c *Chain) FindEarliestAtLeast(t uint32) *blockindex.Node {
	lo, hi := 0, len(c.nodes)

	for lo < hi {
		mid := (lo + hi) / 2
		if c.nodes[mid].BlockTimeMax() >= t {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	if lo == len(c.nodes) {
		return nil
	}

	return c.nodes[lo]
}
