// Package chainwork implements the fixed 256-bit unsigned integer
// arithmetic used for difficulty targets and cumulative chain work,
// plus its "compact" (nBits) encoding. Targets are represented as
// math/big.Int (following the PowLimit handling in
// pkg/go-chaincfg/params.go) wrapped with fixed-width, mod-2^256
// wraparound semantics, rather than reimplementing schoolbook bignum
// arithmetic by hand.
package chainwork

import (
	"math/big"
)

// bitLen is the width of the fixed-point type.
const bitLen = 256

var (
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bitLen), big.NewInt(1))
	modulus    = new(big.Int).Lsh(big.NewInt(1), bitLen)
)

// Uint256 is an unsigned 256-bit integer. The zero value is 0.
// Operations wrap modulo 2^256, matching fixed-width integer overflow
// semantics rather than math/big's arbitrary precision growth.
type Uint256 struct {
	v *big.Int
}

func wrap(v *big.Int) Uint256 {
	v = new(big.Int).Mod(v, modulus)
	if v.Sign() < 0 {
		v.Add(v, modulus)
	}
	return Uint256{v: v}
}

// NewUint256 builds a Uint256 from a uint64.
func NewUint256(x uint64) Uint256 {
	return Uint256{v: new(big.Int).SetUint64(x)}
}

// Zero is the additive identity.
func Zero() Uint256 { return Uint256{v: big.NewInt(0)} }

func (u Uint256) big() *big.Int {
	if u.v == nil {
		return big.NewInt(0)
	}
	return u.v
}

func (u Uint256) Add(o Uint256) Uint256 {
	return wrap(new(big.Int).Add(u.big(), o.big()))
}

func (u Uint256) Sub(o Uint256) Uint256 {
	return wrap(new(big.Int).Sub(u.big(), o.big()))
}

func (u Uint256) Mul(o Uint256) Uint256 {
	return wrap(new(big.Int).Mul(u.big(), o.big()))
}

// Div returns u/o, truncated toward zero. Div by zero returns Zero().
func (u Uint256) Div(o Uint256) Uint256 {
	if o.big().Sign() == 0 {
		return Zero()
	}
	return wrap(new(big.Int).Div(u.big(), o.big()))
}

func (u Uint256) Lsh(n uint) Uint256 {
	return wrap(new(big.Int).Lsh(u.big(), n))
}

func (u Uint256) Rsh(n uint) Uint256 {
	return wrap(new(big.Int).Rsh(u.big(), n))
}

// Complement returns the one's complement (~u) within the 256-bit
// width: maxUint256 - u.
func (u Uint256) Complement() Uint256 {
	return wrap(new(big.Int).Sub(maxUint256, u.big()))
}

// Cmp returns -1, 0, or 1 as u is less than, equal to, or greater
// than o.
func (u Uint256) Cmp(o Uint256) int {
	return u.big().Cmp(o.big())
}

func (u Uint256) IsZero() bool {
	return u.big().Sign() == 0
}

// Bytes32 returns the little-endian 32-byte representation, matching
// the byte order of a block hash interpreted as an integer for PoW
// comparison.
func (u Uint256) Bytes32() [32]byte {
	var out [32]byte
	be := u.big().Bytes() // big-endian, no leading zero padding
	for i := 0; i < len(be) && i < 32; i++ {
		out[i] = be[len(be)-1-i]
	}
	return out
}

// SetBytes32LE builds a Uint256 from a little-endian 32-byte slice,
// the representation a block hash uses.
func SetBytes32LE(b []byte) Uint256 {
	be := make([]byte, len(b))
	for i, bb := range b {
		be[len(b)-1-i] = bb
	}
	return Uint256{v: new(big.Int).SetBytes(be)}
}

func (u Uint256) String() string {
	return u.big().Text(16)
}
