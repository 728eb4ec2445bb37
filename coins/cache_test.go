package coins

import (
	"testing"

	"github.com/bitcoin-sv/teranode-consensus/model"
	"github.com/libsv/go-bt/v2/chainhash"
)

// fakeView is a trivial in-memory View for testing cache layers in
// isolation.
type fakeView struct {
	coins     map[model.Outpoint]model.Coin
	bestBlock chainhash.Hash
}

func newFakeView() *fakeView {
	return &fakeView{coins: make(map[model.Outpoint]model.Coin)}
}

func (f *fakeView) GetCoin(op model.Outpoint) (model.Coin, bool) {
	c, ok := f.coins[op]
	if !ok || c.IsSpent() {
		return model.Coin{}, false
	}
	return c, true
}

func (f *fakeView) HaveCoin(op model.Outpoint) bool {
	_, ok := f.GetCoin(op)
	return ok
}

func (f *fakeView) GetBestBlock() chainhash.Hash { return f.bestBlock }

func (f *fakeView) BatchWrite(entries map[model.Outpoint]*Entry, best chainhash.Hash) bool {
	for op, e := range entries {
		if !e.Flags.IsDirty() {
			continue
		}
		if e.Coin.IsSpent() {
			delete(f.coins, op)
		} else {
			f.coins[op] = e.Coin
		}
	}
	f.bestBlock = best
	return true
}

func (f *fakeView) Cursor() Cursor {
	entries := make(map[model.Outpoint]model.Coin, len(f.coins))
	for op, c := range f.coins {
		if !c.IsSpent() {
			entries[op] = c
		}
	}
	return &mapCursor{entries: entries}
}

func (f *fakeView) EstimateSize() int { return len(f.coins) * 64 }

func testOutpoint(b byte) model.Outpoint {
	var h chainhash.Hash
	h[0] = b
	return model.Outpoint{TxID: h, Index: 0}
}

func TestAddCoinThenGetCoin(t *testing.T) {
	base := newFakeView()
	cache := NewCache(base)

	op := testOutpoint(1)
	coin := model.Coin{Value: 100, Script: []byte{0x51}, Height: 10}

	if err := cache.AddCoin(op, coin, true); err != nil {
		t.Fatalf("add coin: %v", err)
	}

	got, ok := cache.GetCoin(op)
	if !ok {
		t.Fatalf("expected coin present")
	}
	if got.Value != 100 {
		t.Fatalf("value = %d, want 100", got.Value)
	}
}

// S6 — add-coin overwrite.
func TestAddCoinOverwriteRules(t *testing.T) {
	base := newFakeView()
	cache := NewCache(base)

	op := testOutpoint(2)

	if err := cache.AddCoin(op, model.Coin{Value: 200, Script: []byte{0x51}}, true); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := cache.AddCoin(op, model.Coin{Value: 300, Script: []byte{0x51}, Height: 1}, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, _ := cache.GetCoin(op)
	if got.Value != 300 {
		t.Fatalf("value = %d, want 300", got.Value)
	}

	entry := cache.cache[op]
	if !entry.Flags.IsDirty() {
		t.Fatalf("expected DIRTY flag")
	}

	if err := cache.AddCoin(op, model.Coin{Value: 400, Script: []byte{0x51}}, false); err == nil {
		t.Fatalf("expected replace-non-pruned error")
	}
}

func TestSpendCoinFreshIsRemovedDirtyIsTombstoned(t *testing.T) {
	base := newFakeView()
	cache := NewCache(base)

	op := testOutpoint(3)
	_ = cache.AddCoin(op, model.Coin{Value: 100, Script: []byte{0x51}}, false)

	coin, ok := cache.SpendCoin(op)
	if !ok || coin.Value != 100 {
		t.Fatalf("expected to spend the coin we just added")
	}

	if _, present := cache.cache[op]; present {
		t.Fatalf("FRESH entry should be dropped outright on spend")
	}

	baseOp := testOutpoint(12)
	base.coins[baseOp] = model.Coin{Value: 5, Script: []byte{0x51}}

	if _, ok := cache.SpendCoin(baseOp); !ok {
		t.Fatalf("expected to spend base-backed coin")
	}

	e, present := cache.cache[baseOp]
	if !present || !e.Coin.IsSpent() || !e.Flags.IsDirty() {
		t.Fatalf("non-FRESH entry should be kept as a DIRTY spent tombstone")
	}
}

// S7 — write-back matrix (excerpt): parent(value=100,flags=FRESH),
// child(value=PRUNED,flags=DIRTY) -> parent entry absent.
func TestBatchWritePureCreateDeleteDrops(t *testing.T) {
	base := newFakeView()

	op := testOutpoint(4)
	base.coins[op] = model.Coin{Value: 100, Script: []byte{0x51}}

	parent := NewCache(base)
	// Prime parent's local entry as FRESH by simulating a just-created,
	// not-yet-flushed coin.
	parent.cache[op] = &Entry{Coin: model.Coin{Value: 100, Script: []byte{0x51}}, Flags: Fresh}

	child := map[model.Outpoint]*Entry{
		op: {Coin: model.Spent(), Flags: Dirty},
	}

	if !parent.BatchWrite(child, chainhash.Hash{}) {
		t.Fatalf("batch write failed")
	}

	if _, present := parent.cache[op]; present {
		t.Fatalf("expected parent entry to be dropped")
	}
}

func TestBatchWriteCreateFromAbsent(t *testing.T) {
	base := newFakeView()
	parent := NewCache(base)

	op := testOutpoint(5)

	child := map[model.Outpoint]*Entry{
		op: {Coin: model.Coin{Value: 50, Script: []byte{0x51}}, Flags: Dirty | Fresh},
	}

	if !parent.BatchWrite(child, chainhash.Hash{}) {
		t.Fatalf("batch write failed")
	}

	e, ok := parent.cache[op]
	if !ok {
		t.Fatalf("expected created entry")
	}
	if !e.Flags.IsFresh() || !e.Flags.IsDirty() {
		t.Fatalf("expected DIRTY|FRESH, got %v", e.Flags)
	}
}

func TestUncacheOnlyDropsCleanEntries(t *testing.T) {
	base := newFakeView()
	op := testOutpoint(6)
	base.coins[op] = model.Coin{Value: 10, Script: []byte{0x51}}

	cache := NewCache(base)
	_, _ = cache.GetCoin(op) // pulls a Clean entry into the cache

	cache.Uncache(op)

	if _, present := cache.cache[op]; present {
		t.Fatalf("expected clean entry to be uncached")
	}

	dirty := testOutpoint(11)
	_ = cache.AddCoin(dirty, model.Coin{Value: 11, Script: []byte{0x51}}, true)

	cache.Uncache(dirty)

	if _, present := cache.cache[dirty]; !present {
		t.Fatalf("expected dirty entry to stay cached")
	}
}

func TestFlushPropagatesToBase(t *testing.T) {
	base := newFakeView()
	cache := NewCache(base)

	op := testOutpoint(7)
	_ = cache.AddCoin(op, model.Coin{Value: 77, Script: []byte{0x51}}, true)

	if err := cache.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, ok := base.GetCoin(op)
	if !ok || got.Value != 77 {
		t.Fatalf("expected base to observe the flushed coin")
	}

	if len(cache.cache) != 0 {
		t.Fatalf("expected cache cleared after flush")
	}
}

// Cursor must merge local entries with pass-through base entries: a
// fresh cache with nothing loaded still sees the whole base UTXO set,
// a locally spent entry hides its base counterpart, and a locally
// added entry with no base counterpart still shows up.
func TestCursorMergesLocalAndBaseEntries(t *testing.T) {
	base := newFakeView()

	untouched := testOutpoint(8)
	base.coins[untouched] = model.Coin{Value: 1, Script: []byte{0x51}}

	shadowedSpent := testOutpoint(9)
	base.coins[shadowedSpent] = model.Coin{Value: 2, Script: []byte{0x51}}

	cache := NewCache(base)

	// Spend one base entry locally without flushing.
	_, ok := cache.SpendCoin(shadowedSpent)
	if !ok {
		t.Fatalf("expected to spend base-backed coin")
	}

	added := testOutpoint(10)
	if err := cache.AddCoin(added, model.Coin{Value: 3, Script: []byte{0x51}}, true); err != nil {
		t.Fatalf("add coin: %v", err)
	}

	seen := make(map[model.Outpoint]model.Coin)
	cur := cache.Cursor()
	for {
		op, coin, ok := cur.Next()
		if !ok {
			break
		}
		seen[op] = coin
	}

	if _, present := seen[shadowedSpent]; present {
		t.Fatalf("expected locally spent base entry to be hidden")
	}

	if got, present := seen[untouched]; !present || got.Value != 1 {
		t.Fatalf("expected untouched base entry to pass through, got %+v present=%v", got, present)
	}

	if got, present := seen[added]; !present || got.Value != 3 {
		t.Fatalf("expected locally added entry to appear, got %+v present=%v", got, present)
	}
}
