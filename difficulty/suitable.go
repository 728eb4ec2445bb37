package difficulty

import "github.com/bitcoin-sv/teranode-consensus/blockindex"

// SuitableBlock picks the median-by-time of x, x.Prev, x.Prev.Prev -
// a three-element compare-swap network used by the weighted-target
// DAA to resist single-block timestamp manipulation. Grounded on the
// teacher's stores/blockchain/sql/GetSuitableBlock.go, which gathers
// the same three-candidate window and sorts it before taking the
// middle element.
func SuitableBlock(x *blockindex.Node) *blockindex.Node {
	b1, b2, b3 := x.Prev.Prev, x.Prev, x

	if b1.Time > b3.Time {
		b1, b3 = b3, b1
	}

	if b1.Time > b2.Time {
		b1, b2 = b2, b1
	}

	if b2.Time > b3.Time {
		b2, b3 = b3, b2
	}

	return b2
}
