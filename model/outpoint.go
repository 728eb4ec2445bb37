// Package model holds the consensus core's plain data types: the
// outpoint/coin pair that the UTXO cache operates over, and the block
// header fields a block-index node wraps.
package model

import (
	"bytes"
	"strconv"

	"github.com/libsv/go-bt/v2/chainhash"
)

// Outpoint identifies a transaction output: the transaction id and the
// output index within it. Total ordering is by (TxID, Index), matching
// the std::map<COutPoint, Coin> ordering bitcoin-abc relies on for
// deterministic iteration (original_source/src/coins.cpp).
type Outpoint struct {
	TxID  chainhash.Hash
	Index uint32
}

// Less reports whether o sorts before other under the (TxID, Index)
// total order.
func (o Outpoint) Less(other Outpoint) bool {
	if c := bytes.Compare(o.TxID[:], other.TxID[:]); c != 0 {
		return c < 0
	}
	return o.Index < other.Index
}

func (o Outpoint) String() string {
	return o.TxID.String() + ":" + strconv.FormatUint(uint64(o.Index), 10)
}
