package coins

import "github.com/bitcoin-sv/teranode-consensus/model"

// Flags is a bitset of two orthogonal booleans on a cache entry
// (FRESH, DIRTY); its four combinations are Clean, Fresh, Dirty and
// DirtyFresh, and IsFresh/IsDirty test the individual bits.
type Flags uint8

const (
	Clean Flags = 0
	Fresh Flags = 1 << 0
	Dirty Flags = 1 << 1
)

const DirtyFresh = Dirty | Fresh

func (f Flags) IsDirty() bool { return f&Dirty != 0 }
func (f Flags) IsFresh() bool { return f&Fresh != 0 }

// Entry pairs a coin with its cache flags (§3's coins-cache entry).
type Entry struct {
	Coin  model.Coin
	Flags Flags
}
