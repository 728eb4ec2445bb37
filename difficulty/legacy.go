package difficulty

import (
	"github.com/bitcoin-sv/teranode-consensus/blockindex"
	"github.com/bitcoin-sv/teranode-consensus/chainwork"
	"github.com/bitcoin-sv/teranode-consensus/settings"
)

// LegacyNextWorkRequired implements §4.F.1: on interval boundaries,
// retarget against the actual timespan of the last interval, clamped
// to [timespan/4, timespan*4] and to powLimit; off-interval blocks
// inherit the tip's bits. The testnet min-difficulty exception walks
// back to the last "real" block before returning its bits.
func LegacyNextWorkRequired(tip *blockindex.Node, newBlockTime uint32, params *settings.ChainParams) chainwork.Compact {
	powLimitCompact := chainwork.Compact(params.PowLimitBits)

	if params.PowNoRetargeting {
		return chainwork.Compact(tip.Bits)
	}

	interval := params.DifficultyAdjustmentInterval()

	if (int64(tip.Height)+1)%interval != 0 {
		if params.PowAllowMinDifficultyBlocks {
			return testnetMinDifficulty(tip, newBlockTime, interval, powLimitCompact, params)
		}

		return chainwork.Compact(tip.Bits)
	}

	heightFirst := tip.Height - int32(interval) + 1

	first := tip.GetAncestor(heightFirst)
	if first == nil {
		return chainwork.Compact(tip.Bits)
	}

	actualTimespan := int64(tip.Time) - int64(first.Time)

	targetTimespan := int64(params.PowTargetTimespan.Seconds())

	minSpan := targetTimespan / 4
	maxSpan := targetTimespan * 4

	if actualTimespan < minSpan {
		actualTimespan = minSpan
	}
	if actualTimespan > maxSpan {
		actualTimespan = maxSpan
	}

	oldTarget, _, _ := chainwork.Compact(tip.Bits).Decode()

	newTarget := oldTarget.Mul(chainwork.NewUint256(uint64(actualTimespan)))
	newTarget = newTarget.Div(chainwork.NewUint256(uint64(targetTimespan)))

	powLimit, _, _ := powLimitCompact.Decode()
	if newTarget.Cmp(powLimit) > 0 {
		newTarget = powLimit
	}

	return chainwork.EncodeCompact(newTarget)
}
