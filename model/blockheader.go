package model

import (
	"github.com/bitcoin-sv/teranode-consensus/chainwork"
	"github.com/libsv/go-bt/v2/chainhash"
)

// BlockHeader is the fixed-size part of a block that a block index node
// wraps: the 80-byte P2P header fields, kept as a plain struct rather
// than a wire-serialized blob so the rest of the module can read Bits/
// Timestamp/PrevBlock without re-parsing bytes on every access.
type BlockHeader struct {
	Version        uint32
	HashPrevBlock  *chainhash.Hash
	HashMerkleRoot *chainhash.Hash
	Timestamp      uint32
	Bits           chainwork.Compact
	Nonce          uint32
}

// String renders the header by its previous-block hash. The header
// does not compute its own id: double-SHA256 of the header fields is
// consensus-critical but orthogonal to this module's scope (§1 of the
// expanded spec scopes out transaction/script validation); callers
// that need the real block hash obtain it from wherever the header was
// parsed and carry it alongside the BlockIndex node.
func (h *BlockHeader) String() string {
	if h == nil {
		return "<nil>"
	}
	return h.HashPrevBlock.String()
}
