package difficulty

import (
	"github.com/bitcoin-sv/teranode-consensus/chainwork"
	"github.com/libsv/go-bt/v2/chainhash"
)

// CheckProofOfWork implements §4.F's final gate: bits must decode to
// a positive, non-overflowing target no greater than powLimit, and
// the hash's little-endian 256-bit interpretation must not exceed it.
func CheckProofOfWork(hash chainhash.Hash, bits chainwork.Compact, powLimitBits uint32) bool {
	target, negative, overflow := bits.Decode()
	if negative || overflow || target.IsZero() {
		return false
	}

	powLimit, _, _ := chainwork.Compact(powLimitBits).Decode()
	if target.Cmp(powLimit) > 0 {
		return false
	}

	hashValue := chainwork.SetBytes32LE(hash[:])

	return hashValue.Cmp(target) <= 0
}
