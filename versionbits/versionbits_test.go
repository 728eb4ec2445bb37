package versionbits

import (
	"testing"
	"time"

	"github.com/bitcoin-sv/teranode-consensus/blockindex"
	"github.com/bitcoin-sv/teranode-consensus/chainwork"
	"github.com/bitcoin-sv/teranode-consensus/settings"
	"github.com/stretchr/testify/assert"
)

const (
	period    = int32(144)
	threshold = uint32(108)
)

func buildVBChain(length int, versionAt func(h int) uint32, timeAt func(h int) uint32) []*blockindex.Node {
	tree := blockindex.NewTree()
	nodes := make([]*blockindex.Node, length)

	var prev *blockindex.Node

	for h := 0; h < length; h++ {
		n := &blockindex.Node{
			Height:  int32(h),
			Prev:    prev,
			Time:    timeAt(h),
			Bits:    chainwork.Compact(0x1d00ffff),
			Version: versionAt(h),
		}
		n.Hash[0] = byte(h)
		n.Hash[1] = byte(h >> 8)
		tree.Insert(n)
		nodes[h] = n
		prev = n
	}

	return nodes
}

const signalingVersion = 0x20000000 | (1 << 1)
const nonSignalingVersion = 0x20000000

// S10a — start_time far beyond the chain's median_time_past -> DEFINED.
func TestDefinedBeforeStartTime(t *testing.T) {
	dep := settings.Deployment{Bit: 1, StartTime: 10_000_000, Timeout: 20_000_000}

	nodes := buildVBChain(int(period)*2, func(h int) uint32 { return nonSignalingVersion }, func(h int) uint32 {
		return uint32(h * 100)
	})

	tip := nodes[len(nodes)-1]

	c := NewCache()
	state := c.StateFor(tip, dep, period, threshold)

	assert.Equal(t, Defined, state)
}

// S10b — sufficient signaling after start_time -> STARTED -> LOCKED_IN -> ACTIVE.
func TestLifecycleToActive(t *testing.T) {
	dep := settings.Deployment{Bit: 1, StartTime: 0, Timeout: 1_000_000}

	// Every block signals; MTP will clear start_time immediately since
	// StartTime is 0. Three periods is enough to reach ACTIVE:
	// period0 boundary -> STARTED, period1 boundary counts votes over
	// period1 (all signal) -> LOCKED_IN, period2 boundary -> ACTIVE.
	length := int(period)*3 + 1

	nodes := buildVBChain(length, func(h int) uint32 { return signalingVersion }, func(h int) uint32 {
		return uint32(h * 600)
	})

	tip := nodes[len(nodes)-1]

	c := NewCache()
	state := c.StateFor(tip, dep, period, threshold)

	assert.Equal(t, Active, state)
}

// S10c — insufficient signaling and MTP past timeout -> FAILED.
func TestFailsAfterTimeoutWithoutEnoughSignaling(t *testing.T) {
	dep := settings.Deployment{Bit: 1, StartTime: 0, Timeout: 50_000}

	length := int(period)*3 + 1

	nodes := buildVBChain(length, func(h int) uint32 { return nonSignalingVersion }, func(h int) uint32 {
		return uint32(h * 600)
	})

	tip := nodes[len(nodes)-1]

	c := NewCache()
	state := c.StateFor(tip, dep, period, threshold)

	assert.Equal(t, Failed, state)
}

// StateSinceHeightFor must terminate and report the boundary height at
// which the final state first took hold, walking back one period at a
// time rather than re-deriving the same boundary forever.
func TestStateSinceHeightForTerminatesAndReportsBoundary(t *testing.T) {
	dep := settings.Deployment{Bit: 1, StartTime: 0, Timeout: 1_000_000}

	length := int(period)*3 + 1

	nodes := buildVBChain(length, func(h int) uint32 { return signalingVersion }, func(h int) uint32 {
		return uint32(h * 600)
	})

	tip := nodes[len(nodes)-1]

	c := NewCache()
	since := c.StateSinceHeightFor(tip, dep, period, threshold)

	// LOCKED_IN is reached at the period1 boundary (height 287) and
	// ACTIVE one period later at the period2 boundary (height 431), so
	// ACTIVE first takes effect at height 432, which is this chain's tip.
	assert.Equal(t, tip.Height, since)
}

// Calling StateSinceHeightFor on a tip that is itself already a period
// boundary must not loop forever (the bug being regression-tested here:
// re-deriving the same boundary height never makes progress).
func TestStateSinceHeightForOnBoundaryNodeDoesNotLoop(t *testing.T) {
	dep := settings.Deployment{Bit: 1, StartTime: 0, Timeout: 1_000_000}

	length := int(period) * 2

	nodes := buildVBChain(length, func(h int) uint32 { return nonSignalingVersion }, func(h int) uint32 {
		return uint32(h * 600)
	})

	tip := nodes[len(nodes)-1]

	c := NewCache()

	done := make(chan int32, 1)
	go func() {
		done <- c.StateSinceHeightFor(tip, dep, period, threshold)
	}()

	select {
	case since := <-done:
		assert.LessOrEqual(t, since, tip.Height)
	case <-time.After(2 * time.Second):
		t.Fatal("StateSinceHeightFor did not terminate")
	}
}
