package coins

import (
	"github.com/bitcoin-sv/teranode-consensus/model"
	"github.com/libsv/go-bt/v2"
	"github.com/libsv/go-bt/v2/chainhash"
)

// GetValueIn sums the value of every input's referenced coin (§4.E);
// coinbase transactions have no real inputs to sum, so it returns 0.
func (c *Cache) GetValueIn(tx *bt.Tx) int64 {
	if tx.IsCoinbase() {
		return 0
	}

	var total int64

	for _, in := range tx.Inputs {
		op := model.Outpoint{TxID: *in.PreviousTxIDChainHash(), Index: in.PreviousTxOutIndex}

		coin, ok := c.GetCoin(op)
		if ok {
			total += coin.Value
		}
	}

	return total
}

// HaveInputs reports whether every input of tx has a present, unspent
// coin; coinbase transactions trivially satisfy this.
func (c *Cache) HaveInputs(tx *bt.Tx) bool {
	if tx.IsCoinbase() {
		return true
	}

	for _, in := range tx.Inputs {
		op := model.Outpoint{TxID: *in.PreviousTxIDChainHash(), Index: in.PreviousTxOutIndex}

		if !c.HaveCoin(op) {
			return false
		}
	}

	return true
}

// GetPriority computes the weighted age of a transaction's inputs at
// a given height - the sum of (input value * age in blocks) divided by
// the transaction's serialized size, matching bitcoin-abc's legacy
// priority metric.
// chainInputValue accumulates the raw input value sum as a side
// channel the way the C++ signature's output parameter does.
func (c *Cache) GetPriority(tx *bt.Tx, height uint32, chainInputValue *int64) float64 {
	if tx.IsCoinbase() {
		return 0
	}

	var weighted float64

	for _, in := range tx.Inputs {
		op := model.Outpoint{TxID: *in.PreviousTxIDChainHash(), Index: in.PreviousTxOutIndex}

		coin, ok := c.GetCoin(op)
		if !ok {
			continue
		}

		if coin.Height <= height {
			age := height - coin.Height
			weighted += float64(coin.Value) * float64(age)
		}

		if chainInputValue != nil {
			*chainInputValue += coin.Value
		}
	}

	size := tx.Size()
	if size == 0 {
		return 0
	}

	return weighted / float64(size)
}

// AccessByTxID finds the first unspent output of txid by linearly
// scanning index 0..MaxOutputsPerTx - used when only a txid is known,
// not a full outpoint (§4.E).
func (c *Cache) AccessByTxID(txid chainhash.Hash) (model.Outpoint, model.Coin, bool) {
	for i := uint32(0); i < model.MaxOutputsPerTx; i++ {
		op := model.Outpoint{TxID: txid, Index: i}

		coin, ok := c.GetCoin(op)
		if ok {
			return op, coin, true
		}
	}

	return model.Outpoint{}, model.Coin{}, false
}
