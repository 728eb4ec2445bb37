package blockindex

import (
	"testing"

	"github.com/bitcoin-sv/teranode-consensus/chainwork"
)

func buildChain(t *testing.T, length int) []*Node {
	t.Helper()

	tree := NewTree()

	nodes := make([]*Node, length)

	var prev *Node

	for h := 0; h < length; h++ {
		n := &Node{
			Height: int32(h),
			Prev:   prev,
			Time:   uint32(1231006505 + h*600),
			Bits:   chainwork.Compact(0x1d00ffff),
		}
		n.Hash[0] = byte(h)
		n.Hash[1] = byte(h >> 8)

		tree.Insert(n)

		nodes[h] = n
		prev = n
	}

	return nodes
}

// S8 — skip-list correctness.
func TestGetAncestorMatchesLinearWalk(t *testing.T) {
	const length = 2000

	nodes := buildChain(t, length)
	tip := nodes[length-1]

	for h := 0; h <= int(tip.Height); h += 37 {
		got := tip.GetAncestor(int32(h))
		if got == nil {
			t.Fatalf("GetAncestor(%d) returned nil", h)
		}
		if got.Height != int32(h) {
			t.Fatalf("GetAncestor(%d).Height = %d", h, got.Height)
		}

		want := tip
		for want.Height > int32(h) {
			want = want.Prev
		}

		if want != got {
			t.Fatalf("GetAncestor(%d) did not match linear walk", h)
		}
	}
}

func TestGetAncestorOutOfRange(t *testing.T) {
	nodes := buildChain(t, 10)
	tip := nodes[len(nodes)-1]

	if tip.GetAncestor(-1) != nil {
		t.Fatalf("expected nil for negative height")
	}

	if tip.GetAncestor(tip.Height+1) != nil {
		t.Fatalf("expected nil for height beyond tip")
	}
}

func TestMedianTimePastWindowOfEleven(t *testing.T) {
	nodes := buildChain(t, 20)
	tip := nodes[len(nodes)-1]

	mtp := tip.MedianTimePast()

	// Times are strictly increasing by 600s, so MTP over the last 11
	// nodes is the 6th-from-tip value (sorted median of a monotonic
	// window is its middle element).
	expected := nodes[len(nodes)-1-5].Time

	if mtp != expected {
		t.Fatalf("median time past = %d, want %d", mtp, expected)
	}
}

func TestRaiseValidityMonotonicAndRefusesAfterFailure(t *testing.T) {
	n := &Node{}

	if !n.RaiseValidity(ValidTree) {
		t.Fatalf("expected raise from UNKNOWN to TREE to succeed")
	}

	if n.RaiseValidity(ValidHeader) {
		t.Fatalf("expected raise to a lower level to be a no-op")
	}

	n.Status |= FailedValid

	if n.RaiseValidity(ValidChain) {
		t.Fatalf("expected raise to refuse once FAILED_VALID is set")
	}
}
