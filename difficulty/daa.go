package difficulty

import (
	"github.com/bitcoin-sv/teranode-consensus/blockindex"
	"github.com/bitcoin-sv/teranode-consensus/chainwork"
	"github.com/bitcoin-sv/teranode-consensus/settings"
)

// DAANextWorkRequired implements §4.F.3, the cash hard fork's
// weighted-target retarget: compare the suitable-block-filtered chain
// work accumulated over the last 144 blocks against the elapsed time
// (clamped to [72,288]*spacing) to derive a new target directly,
// rather than scaling the previous target.
func DAANextWorkRequired(tip *blockindex.Node, params *settings.ChainParams) chainwork.Compact {
	powLimitCompact := chainwork.Compact(params.PowLimitBits)

	if params.PowNoRetargeting {
		return chainwork.Compact(tip.Bits)
	}

	last := difficultySuitableOrNil(tip)
	if last == nil {
		return powLimitCompact
	}

	firstCandidate := tip.GetAncestor(tip.Height - 144)
	if firstCandidate == nil {
		return powLimitCompact
	}

	first := difficultySuitableOrNil(firstCandidate)
	if first == nil {
		return powLimitCompact
	}

	spacing := int64(params.PowTargetSpacing.Seconds())

	workDelta := last.ChainWork.Sub(first.ChainWork)

	deltaTime := int64(last.Time) - int64(first.Time)

	minTime := 72 * spacing
	maxTime := 288 * spacing

	if deltaTime < minTime {
		deltaTime = minTime
	}
	if deltaTime > maxTime {
		deltaTime = maxTime
	}

	work := workDelta.Mul(chainwork.NewUint256(uint64(spacing)))
	work = work.Div(chainwork.NewUint256(uint64(deltaTime)))

	if work.IsZero() {
		return powLimitCompact
	}

	// next target = (2^256 - work) / work, computed as (0 - work) / work
	// in wrapping 256-bit arithmetic.
	target := chainwork.Zero().Sub(work).Div(work)

	powLimit, _, _ := powLimitCompact.Decode()
	if target.Cmp(powLimit) > 0 {
		target = powLimit
	}

	return chainwork.EncodeCompact(target)
}

// difficultySuitableOrNil wraps SuitableBlock, returning nil if fewer
// than three ancestors are available for the compare-swap window.
func difficultySuitableOrNil(n *blockindex.Node) *blockindex.Node {
	if n == nil || n.Prev == nil || n.Prev.Prev == nil {
		return nil
	}
	return SuitableBlock(n)
}

// NextWorkRequired dispatches to the DAA, EDA, or legacy regime
// depending on the tip's median-time-past relative to the cash hard
// fork activation (§4.F).
func NextWorkRequired(tip *blockindex.Node, newBlockTime uint32, params *settings.ChainParams) chainwork.Compact {
	if tip.MedianTimePast() >= params.CashHardForkActivationTime {
		return DAANextWorkRequired(tip, params)
	}

	interval := params.DifficultyAdjustmentInterval()
	if (int64(tip.Height)+1)%interval != 0 {
		return EDANextWorkRequired(tip, newBlockTime, params)
	}

	return LegacyNextWorkRequired(tip, newBlockTime, params)
}
