// Package blockindex holds the in-memory block index: one node per
// known header, its derived chain metadata, and the skip-list that
// lets any node answer "who is my ancestor at height H" in O(log n).
// Grounded on original_source/src/chain.h (CBlockIndex) and the
// model.BlockHeader framing it wraps.
package blockindex

// Status is the persisted per-node status bitset (§6).
type Status uint32

const (
	ValidUnknown      Status = 0
	ValidHeader       Status = 1
	ValidTree         Status = 2
	ValidTransactions Status = 3
	ValidChain        Status = 4
	ValidScripts      Status = 5

	validityMask Status = 0x07

	HaveData Status = 8
	HaveUndo Status = 16

	FailedValid Status = 32
	FailedChild Status = 64

	FailedMask Status = FailedValid | FailedChild
)

// Validity extracts the validity nibble (§3's totally ordered
// HEADER ≤ TREE ≤ TRANSACTIONS ≤ CHAIN ≤ SCRIPTS levels).
func (s Status) Validity() Status {
	return s & validityMask
}

func (s Status) HasData() bool { return s&HaveData != 0 }
func (s Status) HasUndo() bool { return s&HaveUndo != 0 }
func (s Status) Failed() bool  { return s&FailedMask != 0 }
