// Package coins implements the layered UTXO cache: a stack of
// write-back caches over an opaque backing view, each holding
// per-entry DIRTY/FRESH flags and a precise merge-on-flush protocol
// (§4.E). Grounded on original_source/src/coins.cpp (CCoinsViewCache /
// CCoinsMap / CCoinsCacheEntry), following the mutex-guarded
// map-backed store shape used elsewhere in this codebase's stores.
package coins

import (
	"github.com/bitcoin-sv/teranode-consensus/model"
	"github.com/libsv/go-bt/v2/chainhash"
)

// View is the minimal interface any backing coins store must satisfy;
// a Cache's base may itself be another Cache, or a leaf that actually
// touches persistent storage (out of this module's scope - §1).
type View interface {
	GetCoin(op model.Outpoint) (model.Coin, bool)
	HaveCoin(op model.Outpoint) bool
	GetBestBlock() chainhash.Hash
	BatchWrite(entries map[model.Outpoint]*Entry, bestBlock chainhash.Hash) bool
	Cursor() Cursor
	EstimateSize() int
}

// Cursor iterates a view's (outpoint, coin) pairs; used only by the
// backing leaf store to build the next cache layer or rebuild
// indexes, never by consensus logic itself.
type Cursor interface {
	Next() (model.Outpoint, model.Coin, bool)
}
