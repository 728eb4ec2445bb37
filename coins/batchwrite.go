package coins

import (
	"github.com/bitcoin-sv/teranode-consensus/model"
	"github.com/libsv/go-bt/v2/chainhash"
)

// BatchWrite implements §4.E's merge protocol on behalf of a Cache
// acting as a parent (base) to some child cache's accumulated delta.
// Non-dirty child entries are skipped outright - they already match
// the grandparent and need not propagate. The five remaining cases
// are the exhaustive match over (parent present, parent fresh, child
// fresh, child spent) the design notes (§9) call for, rather than
// bitwise arithmetic over the flags.
func (c *Cache) BatchWrite(childMap map[model.Outpoint]*Entry, childBest chainhash.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for op, child := range childMap {
		if !child.Flags.IsDirty() {
			continue
		}

		parent, present := c.cache[op]

		switch {
		case !present && child.Flags.IsFresh() && child.Coin.IsSpent():
			// absent + FRESH + spent: nothing to record.
			continue

		case !present:
			// absent, anything else: create, inheriting child's FRESH bit.
			flags := Dirty
			if child.Flags.IsFresh() {
				flags |= Fresh
			}
			c.insert(op, &Entry{Coin: child.Coin, Flags: flags})

		case !parent.Coin.IsSpent() && child.Flags.IsFresh():
			// present, parent not spent, child FRESH: FRESH was
			// misapplied - the base already knows this outpoint.
			panic("coins: FRESH flag misapplied to a live parent entry for " + op.String())

		case parent.Flags.IsFresh() && child.Coin.IsSpent():
			// present, parent FRESH, child spent: a pure create+delete,
			// drop it from the parent entirely.
			c.remove(op)

		default:
			// present, otherwise: overwrite the coin, add DIRTY,
			// preserve the parent's own FRESH bit.
			c.memoryUsage -= parent.Coin.EstimateSize()
			parent.Coin = child.Coin
			parent.Flags |= Dirty
			c.memoryUsage += parent.Coin.EstimateSize()
		}
	}

	c.bestBlock = childBest

	return true
}
