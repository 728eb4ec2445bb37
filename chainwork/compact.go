package chainwork

// Compact is the 32-bit packed target encoding used as a block
// header's "bits" field: 1 exponent byte (MSB) + 3 mantissa bytes,
// with the mantissa's top bit reserved as a sign flag, matching
// bitcoin-abc's arith_uint256::SetCompact / GetCompact
// (original_source/src/pow.cpp). Carried as a distinct named type
// rather than a bare uint32 so callers can't confuse it with a raw
// target or a block height.
type Compact uint32

// Decode expands a Compact target into a Uint256, reporting whether
// the sign bit was set and whether the mantissa/exponent combination
// overflows 256 bits. Callers that only need a usable target should
// treat negative or overflow as "invalid target" per §9 design notes.
func (c Compact) Decode() (target Uint256, negative bool, overflow bool) {
	size := uint(c >> 24)
	word := uint32(c) & 0x007fffff

	var bn Uint256
	if size <= 3 {
		word >>= 8 * (3 - size)
		bn = NewUint256(uint64(word))
	} else {
		bn = NewUint256(uint64(word)).Lsh(8 * (size - 3))
	}

	negative = word != 0 && (uint32(c)&0x00800000) != 0
	overflow = word != 0 && (size > 34 ||
		(word > 0xff && size > 33) ||
		(word > 0xffff && size > 32))

	return bn, negative, overflow
}

// EncodeCompact packs target into its compact representation, mirroring
// arith_uint256::GetCompact.
func EncodeCompact(target Uint256) Compact {
	bn := target.big()
	bytesLen := (bn.BitLen() + 7) / 8

	var compact uint32
	if bytesLen <= 3 {
		compact = uint32(bn.Uint64()) << (8 * uint(3-bytesLen))
	} else {
		shifted := new(Uint256)
		*shifted = target.Rsh(8 * uint(bytesLen-3))
		compact = uint32(shifted.big().Uint64())
	}

	// The 0x00800000 bit is the sign bit in the 3 mantissa bytes; if
	// it would be set by the magnitude alone, shift one byte right and
	// bump the exponent to keep the value unsigned-interpretable.
	if compact&0x00800000 != 0 {
		compact >>= 8
		bytesLen++
	}

	compact |= uint32(bytesLen) << 24

	return Compact(compact)
}
