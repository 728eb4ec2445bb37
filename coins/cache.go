package coins

import (
	"sync"

	"github.com/bitcoin-sv/teranode-consensus/errors"
	"github.com/bitcoin-sv/teranode-consensus/model"
	"github.com/libsv/go-bt/v2/chainhash"
)

// Cache is one write-back layer of the coins-view stack: a local
// outpoint->entry map over a backing View, plus a cached best-block
// hash and a running memory-usage tally (§4.E, §5 resource policy).
// Guarded by a single mutex over the whole map.
type Cache struct {
	mu sync.Mutex

	base  View
	cache map[model.Outpoint]*Entry

	bestBlock chainhash.Hash

	memoryUsage int
}

func NewCache(base View) *Cache {
	return &Cache{
		base:      base,
		cache:     make(map[model.Outpoint]*Entry),
		bestBlock: base.GetBestBlock(),
	}
}

const perEntryOverhead = 32 // map bucket + outpoint + flags, flat like model.Coin.EstimateSize's own overhead constant

// fetch implements §4.E's read path: local map first, else ask the
// base; a hit that is itself spent is marked FRESH (the base only
// holds a tombstone, so this layer may freely drop it). Returns nil
// when the coin is not present anywhere.
func (c *Cache) fetch(op model.Outpoint) *Entry {
	if e, ok := c.cache[op]; ok {
		return e
	}

	baseCoin, ok := c.base.GetCoin(op)
	if !ok {
		return nil
	}

	flags := Clean
	if baseCoin.IsSpent() {
		flags = Fresh
	}

	e := &Entry{Coin: baseCoin, Flags: flags}
	c.insert(op, e)

	return e
}

func (c *Cache) insert(op model.Outpoint, e *Entry) {
	c.cache[op] = e
	c.memoryUsage += perEntryOverhead + e.Coin.EstimateSize()
}

func (c *Cache) remove(op model.Outpoint) {
	if e, ok := c.cache[op]; ok {
		c.memoryUsage -= perEntryOverhead + e.Coin.EstimateSize()
		delete(c.cache, op)
	}
}

// GetCoin returns the unspent coin at op, if any.
func (c *Cache) GetCoin(op model.Outpoint) (model.Coin, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.fetch(op)
	if e == nil || e.Coin.IsSpent() {
		return model.Coin{}, false
	}

	return e.Coin, true
}

// HaveCoin reports whether op has an unspent entry (§4.E).
func (c *Cache) HaveCoin(op model.Outpoint) bool {
	_, ok := c.GetCoin(op)
	return ok
}

// AccessCoin returns the coin at op, or the empty spent sentinel if
// absent - the fetch-without-presence-check convenience §4.E names.
func (c *Cache) AccessCoin(op model.Outpoint) model.Coin {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.fetch(op)
	if e == nil {
		return model.Spent()
	}

	return e.Coin
}

func (c *Cache) GetBestBlock() chainhash.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bestBlock
}

func (c *Cache) SetBestBlock(h chainhash.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bestBlock = h
}

// AddCoin implements §4.E's create path. Rejects spent coins and
// unspendable (empty) scripts outright. If an entry already exists
// and maybeOverwrite is false, the existing entry must already be
// spent - anything else is a caller bug ("replacing non-pruned
// entry"). The new entry is DIRTY, and FRESH iff maybeOverwrite is
// false and the preexisting entry was not DIRTY (meaning the base had
// no real entry to begin with).
func (c *Cache) AddCoin(op model.Outpoint, coin model.Coin, maybeOverwrite bool) error {
	if coin.IsSpent() {
		return errors.NewInvalidArgumentError("coins: refusing to add a spent coin for %s", op.String())
	}

	if len(coin.Script) == 0 {
		return errors.NewInvalidArgumentError("coins: refusing to add a coin with an unspendable script for %s", op.String())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing := c.fetch(op)

	fresh := false

	if !maybeOverwrite && existing != nil && !existing.Coin.IsSpent() {
		return errors.NewProcessingError("coins: replacing non-pruned entry for %s", op.String())
	}

	if existing == nil {
		fresh = !maybeOverwrite
	} else {
		fresh = !maybeOverwrite && !existing.Flags.IsDirty()
	}

	c.remove(op)

	flags := Dirty
	if fresh {
		flags |= Fresh
	}

	c.insert(op, &Entry{Coin: coin, Flags: flags})

	return nil
}

// SpendCoin implements §4.E: fetch, and if present, either erase it
// outright (FRESH: the base never knew about it) or mark it DIRTY
// with an empty sentinel (the base must be told to drop it). Returns
// the spent coin when found and removed.
func (c *Cache) SpendCoin(op model.Outpoint) (model.Coin, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.fetch(op)
	if e == nil || e.Coin.IsSpent() {
		return model.Coin{}, false
	}

	out := e.Coin

	if e.Flags.IsFresh() {
		c.remove(op)
	} else {
		c.memoryUsage -= e.Coin.EstimateSize()
		e.Coin = model.Spent()
		e.Flags |= Dirty
		c.memoryUsage += e.Coin.EstimateSize()
	}

	return out, true
}

// Uncache drops a clean entry (flags == Clean, matching the base
// exactly) to shed memory without losing information.
func (c *Cache) Uncache(op model.Outpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.cache[op]; ok && e.Flags == Clean {
		c.remove(op)
	}
}

// EstimateSize reports this layer's dynamic memory usage tally.
func (c *Cache) EstimateSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memoryUsage
}

// Flush writes every entry back to the base in one BatchWrite call
// and clears local state; per §5 this is atomic at the interface
// level - either the whole delta lands, or BatchWrite reports false
// and the caller must treat the attempt as failed.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok := c.base.BatchWrite(c.cache, c.bestBlock)

	c.cache = make(map[model.Outpoint]*Entry)
	c.memoryUsage = 0

	if !ok {
		return errors.NewStorageError("coins: batch_write failed, flush aborted")
	}

	return nil
}

// Cursor iterates this layer's full observable set: local entries
// shadow the base, and non-local base entries pass through unless
// spent. Intended for diagnostics, not the consensus hot path.
func (c *Cache) Cursor() Cursor {
	c.mu.Lock()
	local := make(map[model.Outpoint]*Entry, len(c.cache))
	for op, e := range c.cache {
		local[op] = e
	}
	c.mu.Unlock()

	snapshot := make(map[model.Outpoint]model.Coin, len(local))

	base := c.base.Cursor()
	if base != nil {
		for {
			op, coin, ok := base.Next()
			if !ok {
				break
			}

			if _, shadowed := local[op]; shadowed {
				continue
			}

			if !coin.IsSpent() {
				snapshot[op] = coin
			}
		}
	}

	for op, e := range local {
		if e.Coin.IsSpent() {
			delete(snapshot, op)
			continue
		}

		snapshot[op] = e.Coin
	}

	return &mapCursor{entries: snapshot}
}

type mapCursor struct {
	entries map[model.Outpoint]model.Coin
	keys    []model.Outpoint
	built   bool
	pos     int
}

func (m *mapCursor) Next() (model.Outpoint, model.Coin, bool) {
	if !m.built {
		m.keys = make([]model.Outpoint, 0, len(m.entries))
		for k := range m.entries {
			m.keys = append(m.keys, k)
		}
		m.built = true
	}

	if m.pos >= len(m.keys) {
		return model.Outpoint{}, model.Coin{}, false
	}

	k := m.keys[m.pos]
	m.pos++

	return k, m.entries[k], true
}
