package difficulty

import (
	"testing"
	"time"

	"github.com/bitcoin-sv/teranode-consensus/blockindex"
	"github.com/bitcoin-sv/teranode-consensus/chainwork"
	"github.com/bitcoin-sv/teranode-consensus/settings"
	"github.com/libsv/go-bt/v2/chainhash"
)

func mainnetParams() *settings.ChainParams {
	return &settings.ChainParams{
		PowLimitBits:      0x1d00ffff,
		PowTargetSpacing:  600 * time.Second,
		PowTargetTimespan: 1209600 * time.Second,
		// Push the cash hard fork far into the future so legacy/EDA
		// tests exercise those regimes, not the DAA dispatch branch.
		CashHardForkActivationTime: 4_000_000_000,
	}
}

func testnetParams() *settings.ChainParams {
	p := mainnetParams()
	p.PowAllowMinDifficultyBlocks = true
	return p
}

func buildChain(length int, spacing uint32, bits chainwork.Compact) []*blockindex.Node {
	tree := blockindex.NewTree()
	nodes := make([]*blockindex.Node, length)

	var prev *blockindex.Node

	for h := 0; h < length; h++ {
		n := &blockindex.Node{
			Height: int32(h),
			Prev:   prev,
			Time:   uint32(h) * spacing,
			Bits:   bits,
		}
		n.Hash[0] = byte(h)
		n.Hash[1] = byte(h >> 8)
		tree.Insert(n)
		nodes[h] = n
		prev = n
	}

	return nodes
}

func TestLegacyOffIntervalInheritsBits(t *testing.T) {
	params := mainnetParams()
	nodes := buildChain(10, 600, chainwork.Compact(0x1c00ffff))
	tip := nodes[len(nodes)-1]

	got := LegacyNextWorkRequired(tip, tip.Time+600, params)
	if got != tip.Bits {
		t.Fatalf("off-interval block should inherit tip bits, got %x want %x", uint32(got), uint32(tip.Bits))
	}
}

func TestLegacyIntervalRetargetNearStableSpacingStaysNearPowLimit(t *testing.T) {
	params := mainnetParams()

	interval := int(params.DifficultyAdjustmentInterval())
	nodes := buildChain(interval, 600, chainwork.Compact(0x1d00ffff))
	tip := nodes[len(nodes)-1]

	got := LegacyNextWorkRequired(tip, tip.Time+600, params)

	oldTarget, _, _ := tip.Bits.Decode()
	newTarget, negative, overflow := got.Decode()

	if negative || overflow {
		t.Fatalf("retarget produced an invalid target")
	}

	// The genesis-relative off-by-one in the windowed timespan makes
	// the measured span a touch shorter than the nominal target
	// timespan, so a chain spaced exactly at the target rate retargets
	// to a slightly smaller (harder) target than powLimit, never larger.
	if newTarget.Cmp(oldTarget) > 0 {
		t.Fatalf("expected retarget to not exceed powLimit")
	}
}

func TestEDACutsDifficultyAfterTwelveHourGap(t *testing.T) {
	params := mainnetParams()

	nodes := buildChain(20, 600, chainwork.Compact(0x1c00ffff))

	// Stretch the most recent 6 blocks out by 13 hours total to trigger
	// the EDA's MTP-gap condition.
	tip := nodes[len(nodes)-1]
	for i := len(nodes) - 6; i < len(nodes); i++ {
		nodes[i].Time += 13 * 3600
	}

	got := EDANextWorkRequired(tip, tip.Time+600, params)

	oldTarget, _, _ := tip.Bits.Decode()
	newTarget, _, _ := got.Decode()

	if newTarget.Cmp(oldTarget) <= 0 {
		t.Fatalf("expected EDA to relax the target (larger value = easier)")
	}
}

// A testnet-configured chain that is off-interval and pre-DAA must
// honor the min-difficulty exception even though NextWorkRequired
// routes it to EDANextWorkRequired, not LegacyNextWorkRequired.
func TestTestnetMinDifficultyAppliesThroughEDADispatch(t *testing.T) {
	params := testnetParams()

	nodes := buildChain(20, 600, chainwork.Compact(0x1c00ffff))
	tip := nodes[len(nodes)-1]

	spacing := uint32(params.PowTargetSpacing.Seconds())
	newBlockTime := tip.Time + 2*spacing + 1

	got := NextWorkRequired(tip, newBlockTime, params)

	powLimitCompact := chainwork.Compact(params.PowLimitBits)
	if got != powLimitCompact {
		t.Fatalf("expected the testnet min-difficulty exception to return powLimit, got %x", uint32(got))
	}

	// EDANextWorkRequired must apply the same rule directly, since it
	// is the function NextWorkRequired actually dispatches to here.
	direct := EDANextWorkRequired(tip, newBlockTime, params)
	if direct != powLimitCompact {
		t.Fatalf("EDANextWorkRequired did not honor the testnet min-difficulty exception, got %x", uint32(direct))
	}
}

// Within 2*spacing of the tip, the testnet exception walks back to the
// most recent non-min-difficulty block instead of relaxing further.
func TestTestnetMinDifficultyWalksBackWithinSpacingWindow(t *testing.T) {
	params := testnetParams()

	nodes := buildChain(20, 600, chainwork.Compact(0x1c00ffff))
	tip := nodes[len(nodes)-1]

	got := EDANextWorkRequired(tip, tip.Time+600, params)

	if got != tip.Bits {
		t.Fatalf("expected walk-back to return the tip's own non-min-difficulty bits, got %x want %x", uint32(got), uint32(tip.Bits))
	}
}

func TestCheckProofOfWorkAcceptsExactTarget(t *testing.T) {
	bits := chainwork.Compact(0x1d00ffff)
	target, _, _ := bits.Decode()

	hashBytes := target.Bytes32()

	var hash chainhash.Hash
	copy(hash[:], hashBytes[:])

	if !CheckProofOfWork(hash, bits, 0x1d00ffff) {
		t.Fatalf("expected hash == target to satisfy PoW")
	}
}

func TestCheckProofOfWorkRejectsAboveTarget(t *testing.T) {
	bits := chainwork.Compact(0x1d00ffff)

	var hash chainhash.Hash
	for i := range hash {
		hash[i] = 0xff
	}

	if CheckProofOfWork(hash, bits, 0x1d00ffff) {
		t.Fatalf("expected an all-0xff hash to fail PoW")
	}
}
