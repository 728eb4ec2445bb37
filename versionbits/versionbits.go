// Package versionbits implements the BIP9-style soft-fork threshold
// state machine (§4.G): per-deployment DEFINED/STARTED/LOCKED_IN/
// ACTIVE/FAILED states computed on period boundaries, with per-boundary
// memoization, caching computed boundary states via ttlcache. Grounded
// on original_source's versionbits state walk.
package versionbits

import (
	"github.com/bitcoin-sv/teranode-consensus/blockindex"
	"github.com/bitcoin-sv/teranode-consensus/settings"
	"github.com/jellydator/ttlcache/v3"
)

type State int

const (
	Defined State = iota
	Started
	LockedIn
	Active
	Failed
)

func (s State) String() string {
	switch s {
	case Defined:
		return "DEFINED"
	case Started:
		return "STARTED"
	case LockedIn:
		return "LOCKED_IN"
	case Active:
		return "ACTIVE"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// topMask/topBits: the top 3 bits of version must equal
// 0b001 for bit signaling to count (§6 versionbits wire).
const (
	topMask = 0xE0000000
	topBits = 0x20000000
)

// Cache memoizes the state computed at every visited period boundary
// for one deployment, keyed by the boundary node itself (pointer
// identity), so repeated
// state_for calls over a long chain don't re-walk from genesis. No
// expiry: a computed boundary state is permanent consensus history.
type Cache struct {
	cache *ttlcache.Cache[*blockindex.Node, State]
}

func NewCache() *Cache {
	return &Cache{cache: ttlcache.New[*blockindex.Node, State]()}
}

func (c *Cache) get(n *blockindex.Node) (State, bool) {
	item := c.cache.Get(n)
	if item == nil {
		return Defined, false
	}
	return item.Value(), true
}

func (c *Cache) set(n *blockindex.Node, s State) {
	c.cache.Set(n, s, ttlcache.NoTTL)
}

func condition(n *blockindex.Node, dep settings.Deployment) bool {
	v := n.Version
	return v&topMask == topBits && v&(1<<dep.Bit) != 0
}

// periodStart normalizes height to the last block of the previous
// period (the boundary whose state this call resolves).
func periodStart(height int32, period int32) int32 {
	return height - ((height + 1) % period)
}

// StateFor implements §4.G's algorithm: normalize, walk back by period
// pushing onto a worklist until a cached node, a DEFINED floor
// (median_time_past < start_time), or genesis is reached, then unwind
// applying transitions.
func (c *Cache) StateFor(prev *blockindex.Node, dep settings.Deployment, period int32, threshold uint32) State {
	if prev == nil {
		return Defined
	}

	startHeight := periodStart(prev.Height, period)

	var worklist []*blockindex.Node

	cur := prev.GetAncestor(startHeight)

	var state State

	for {
		if cur == nil {
			state = Defined
			break
		}

		if s, ok := c.get(cur); ok {
			state = s
			break
		}

		if cur.MedianTimePast() < dep.StartTime {
			state = Defined
			c.set(cur, state)
			break
		}

		worklist = append(worklist, cur)

		if cur.Height < period {
			state = Defined
			break
		}

		cur = cur.GetAncestor(cur.Height - period)
	}

	for i := len(worklist) - 1; i >= 0; i-- {
		node := worklist[i]

		switch state {
		case Defined:
			if node.MedianTimePast() >= dep.Timeout {
				state = Failed
			} else if node.MedianTimePast() >= dep.StartTime {
				state = Started
			}

		case Started:
			if node.MedianTimePast() >= dep.Timeout {
				state = Failed
				break
			}

			count := uint32(0)
			walk := node
			for j := int32(0); j < period && walk != nil; j++ {
				if condition(walk, dep) {
					count++
				}
				walk = walk.Prev
			}

			if count >= threshold {
				state = LockedIn
			}

		case LockedIn:
			state = Active

		case Active, Failed:
			// terminal; state unchanged
		}

		c.set(node, state)
	}

	return state
}

// StateSinceHeightFor climbs by period while the predecessor boundary
// shares this call's final state, returning the height at which that
// state first took effect.
func (c *Cache) StateSinceHeightFor(prev *blockindex.Node, dep settings.Deployment, period int32, threshold uint32) int32 {
	final := c.StateFor(prev, dep, period, threshold)

	node := prev

	for node != nil {
		prevPeriod := node.GetAncestor(node.Height - period)

		if prevPeriod == nil {
			break
		}

		if c.StateFor(prevPeriod, dep, period, threshold) != final {
			break
		}

		node = prevPeriod
	}

	if node == nil {
		return 0
	}

	return periodStart(node.Height, period) + 1
}
