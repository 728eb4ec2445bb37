package blockindex

import (
	"sort"

	"github.com/bitcoin-sv/teranode-consensus/chainwork"
	"github.com/bitcoin-sv/teranode-consensus/errors"
	"github.com/bitcoin-sv/teranode-consensus/model"
	"github.com/libsv/go-bt/v2/chainhash"
)

// DiskPosition is a (file, offset) locator for persisted block/undo
// data; the null sentinel is FileNumber == -1 (§6).
type DiskPosition struct {
	FileNumber int32
	Offset     uint32
}

// NullDiskPosition is the "not set" sentinel.
var NullDiskPosition = DiskPosition{FileNumber: -1}

func (p DiskPosition) IsNull() bool { return p.FileNumber == -1 }

// Node is one entry of the in-memory block index: a header plus the
// derived chain metadata described in §3. Nodes form a DAG through
// Prev; they live for the process lifetime once registered in a
// Tree's node map (§5 resource policy), so fields here are plain
// pointers rather than arena indices.
type Node struct {
	Hash   chainhash.Hash
	Prev   *Node
	Skip   *Node
	Height int32

	// PrevHash is populated when a record is reconstructed from disk,
	// before the full index is loaded and Prev can be linked; callers
	// doing a fresh in-memory build via Tree.Insert leave it zero and
	// rely on Prev directly.
	PrevHash chainhash.Hash

	File       int32
	DataOffset uint32
	UndoOffset uint32

	ChainWork chainwork.Uint256
	NTx       uint32
	ChainTx   uint64

	Status Status

	Version    uint32
	MerkleRoot chainhash.Hash
	Time       uint32
	Bits       chainwork.Compact
	Nonce      uint32

	SequenceID int64
	TimeMax    uint32
}

// Header rebuilds the wire header view of this node (§4.B header()).
func (n *Node) Header() *model.BlockHeader {
	var prevHash *chainhash.Hash
	if n.Prev != nil {
		h := n.Prev.Hash
		prevHash = &h
	} else {
		h := n.PrevHash
		prevHash = &h
	}

	merkle := n.MerkleRoot

	return &model.BlockHeader{
		Version:        n.Version,
		HashPrevBlock:  prevHash,
		HashMerkleRoot: &merkle,
		Timestamp:      n.Time,
		Bits:           n.Bits,
		Nonce:          n.Nonce,
	}
}

func (n *Node) BlockPos() DiskPosition {
	if !n.Status.HasData() {
		return NullDiskPosition
	}
	return DiskPosition{FileNumber: n.File, Offset: n.DataOffset}
}

func (n *Node) UndoPos() DiskPosition {
	if !n.Status.HasUndo() {
		return NullDiskPosition
	}
	return DiskPosition{FileNumber: n.File, Offset: n.UndoOffset}
}

func (n *Node) BlockHash() chainhash.Hash { return n.Hash }
func (n *Node) BlockTime() uint32         { return n.Time }
func (n *Node) BlockTimeMax() uint32      { return n.TimeMax }

// MedianTimePast implements §4.B: sort the time values of the most
// recent 11 nodes walking Prev (fewer if the chain is shorter) and
// return the literal middle element after sorting - not an average.
func (n *Node) MedianTimePast() uint32 {
	const window = 11

	times := make([]uint32, 0, window)
	cur := n
	for i := 0; i < window && cur != nil; i++ {
		times = append(times, cur.Time)
		cur = cur.Prev
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	return times[len(times)/2]
}

func (n *Node) IsValid(level Status) bool {
	if n.Status.Failed() {
		return false
	}
	return n.Status.Validity() >= level
}

// RaiseValidity implements §4.B's raise_validity: refuses on FAILED_MASK,
// otherwise raises the validity nibble monotonically and reports whether
// it changed anything.
func (n *Node) RaiseValidity(level Status) bool {
	if n.Status.Failed() {
		return false
	}

	if n.Status.Validity() >= level {
		return false
	}

	n.Status = (n.Status &^ validityMask) | (level & validityMask)

	return true
}

// skipHeight implements §4.C's bit-exact formula. Changing it breaks
// every previously built Skip pointer, so it must never be tuned.
func skipHeight(h int32) int32 {
	if h < 2 {
		return 0
	}

	if h&1 == 0 {
		return invertLowestOne(h)
	}

	return invertLowestOne(h-1) + 1
}

func invertLowestOne(n int32) int32 {
	return n & (n - 1)
}

// BuildSkip must be called once a node's Prev is finalized.
func (n *Node) BuildSkip() {
	if n.Prev == nil {
		return
	}
	n.Skip = n.Prev.GetAncestor(skipHeight(n.Height))
}

// GetAncestor implements §4.C's skip-list walk: at each step prefer
// the skip edge when it lands exactly on target, or overshoots it
// while the walk from Prev would not do strictly better. Bounded at
// ~110 steps for any realistic chain.
func (n *Node) GetAncestor(target int32) *Node {
	if target < 0 || target > n.Height {
		return nil
	}

	walk := n

	heightWalk := n.Height

	for heightWalk > target {
		skipHeightWalk := skipHeight(heightWalk)
		prevHeightWalk := skipHeight(heightWalk - 1)

		useSkip := walk.Skip != nil &&
			(skipHeightWalk == target ||
				(skipHeightWalk > target &&
					!(prevHeightWalk < skipHeightWalk-2 && prevHeightWalk >= target)))

		if useSkip {
			walk = walk.Skip
			heightWalk = skipHeightWalk
		} else {
			if walk.Prev == nil {
				return nil
			}
			walk = walk.Prev
			heightWalk--
		}
	}

	return walk
}

// ReceivedTransactions marks this node VALID_TRANSACTIONS and extends
// chain_tx from the parent, matching §3's invariant that chain_tx is
// only meaningful when the whole path to genesis carries the flag.
func (n *Node) ReceivedTransactions(nTx uint32) {
	n.NTx = nTx
	n.Status |= HaveData
	n.RaiseValidity(ValidTransactions)

	if n.Prev == nil {
		n.ChainTx = uint64(nTx)
		return
	}

	if n.Prev.Status.Validity() >= ValidTransactions && n.Prev.ChainTx > 0 {
		n.ChainTx = n.Prev.ChainTx + uint64(nTx)
	}
}

// validate guards the status invariants from §3 before a caller
// flips status bits directly (e.g. when marking data/undo present).
func (n *Node) validate() error {
	if n.Status.HasUndo() && !n.Status.HasData() {
		return errors.NewInvalidArgumentError("blockindex: HAVE_UNDO without HAVE_DATA on %s", n.Hash.String())
	}
	return nil
}
