package difficulty

import (
	"github.com/bitcoin-sv/teranode-consensus/blockindex"
	"github.com/bitcoin-sv/teranode-consensus/chainwork"
	"github.com/bitcoin-sv/teranode-consensus/settings"
)

const twelveHoursSeconds = 12 * 60 * 60

// EDANextWorkRequired implements §4.F.2: if the 6-block median-time-past
// difference exceeds 12 hours, cut difficulty by 25% (new = old + old>>2),
// clamped to powLimit. Applied only between the legacy interval regime
// and DAA activation. The testnet min-difficulty exception takes
// priority over the EDA cut, matching original_source's GetNextWorkRequired
// ordering: off-interval testnet blocks never reach the EDA branch at all.
func EDANextWorkRequired(tip *blockindex.Node, newBlockTime uint32, params *settings.ChainParams) chainwork.Compact {
	interval := params.DifficultyAdjustmentInterval()
	if (int64(tip.Height)+1)%interval == 0 {
		return LegacyNextWorkRequired(tip, tip.Time, params)
	}

	if params.PowNoRetargeting {
		return chainwork.Compact(tip.Bits)
	}

	powLimitCompact := chainwork.Compact(params.PowLimitBits)

	if params.PowAllowMinDifficultyBlocks {
		return testnetMinDifficulty(tip, newBlockTime, interval, powLimitCompact, params)
	}

	if tip.Bits == powLimitCompact {
		return powLimitCompact
	}

	sixBlocksAgo := tip.GetAncestor(tip.Height - 6)
	if sixBlocksAgo == nil {
		return chainwork.Compact(tip.Bits)
	}

	mtpDiff := int64(tip.MedianTimePast()) - int64(sixBlocksAgo.MedianTimePast())
	if mtpDiff < twelveHoursSeconds {
		return chainwork.Compact(tip.Bits)
	}

	target, _, _ := chainwork.Compact(tip.Bits).Decode()
	target = target.Add(target.Rsh(2))

	powLimit, _, _ := powLimitCompact.Decode()
	if target.Cmp(powLimit) > 0 {
		target = powLimit
	}

	return chainwork.EncodeCompact(target)
}

// testnetMinDifficulty implements §4.F.1's testnet exception: if more
// than 2*spacing has elapsed since the tip, allow the easiest target;
// otherwise return the bits of the most recent block that was not
// itself a min-difficulty block (walking back within the interval).
// Shared by the legacy and EDA off-interval branches since the
// exception takes priority over both.
func testnetMinDifficulty(tip *blockindex.Node, newBlockTime uint32, interval int64, powLimitCompact chainwork.Compact, params *settings.ChainParams) chainwork.Compact {
	spacing := int64(params.PowTargetSpacing.Seconds())
	if int64(newBlockTime) > int64(tip.Time)+2*spacing {
		return powLimitCompact
	}

	walk := tip
	for walk.Prev != nil && walk.Height%int32(interval) != 0 &&
		chainwork.Compact(walk.Bits) == powLimitCompact {
		walk = walk.Prev
	}

	return chainwork.Compact(walk.Bits)
}
