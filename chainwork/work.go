package chainwork

import "math"

// BlockProof returns the expected number of hashes needed to satisfy
// the target encoded by bits, per §4.A: floor(2^256 / (target+1)),
// computed as ~target/(target+1) + 1 to avoid needing a 257th bit.
// Zero targets (which would otherwise divide by a too-small modulus)
// return Zero.
func BlockProof(bits Compact) Uint256 {
	target, negative, overflow := bits.Decode()
	if negative || overflow || target.IsZero() {
		return Zero()
	}

	return target.Complement().Div(target.Add(NewUint256(1))).Add(NewUint256(1))
}

// BlockProofEquivalentTime estimates how long, at tip's difficulty,
// it would have taken to produce the work difference between to and
// from — sign(to.work-from.work) * |Δwork| * spacing / BlockProof(tip),
// saturating to ±max int64 seconds on overflow, per §4.A.
func BlockProofEquivalentTime(toWork, fromWork Uint256, tipProof Uint256, spacingSeconds int64) int64 {
	if tipProof.IsZero() {
		return 0
	}

	cmp := toWork.Cmp(fromWork)
	if cmp == 0 {
		return 0
	}

	var delta Uint256
	if cmp > 0 {
		delta = toWork.Sub(fromWork)
	} else {
		delta = fromWork.Sub(toWork)
	}

	numerator := delta.Mul(NewUint256(uint64(spacingSeconds)))
	quotient := numerator.Div(tipProof)

	if quotient.big().BitLen() > 63 {
		if cmp > 0 {
			return math.MaxInt64
		}
		return -math.MaxInt64
	}

	result := quotient.big().Int64()
	if cmp < 0 {
		result = -result
	}

	return result
}
