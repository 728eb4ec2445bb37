package model

import (
	"bytes"
	"io"

	"github.com/bitcoin-sv/teranode-consensus/errors"
)

// MaxOutputsPerTx bounds the linear scan in AccessByTxID (§4.E).
const MaxOutputsPerTx = 1_000_000

// Coin is a single unspent output: value, locking script, the height
// it was created at, and whether it came from a coinbase transaction.
// A coin is "spent" when Script is empty and Value is the sentinel
// below — spent coins are logically absent (Data model §3).
type Coin struct {
	Value      int64
	Script     []byte
	Height     uint32
	IsCoinbase bool
}

// spentValue is bitcoin-abc's sentinel for a cleared Coin (Clear()
// sets nValue to -1 and empties the script).
const spentValue = -1

// Spent returns the empty, spent sentinel coin.
func Spent() Coin {
	return Coin{Value: spentValue}
}

// IsSpent reports whether the coin is the spent sentinel.
func (c Coin) IsSpent() bool {
	return c.Value == spentValue && len(c.Script) == 0
}

// EstimateSize approximates in-memory footprint for the cache's
// dynamic-memory-usage tally (§5): fixed struct overhead plus the
// script bytes.
func (c Coin) EstimateSize() int {
	const overhead = 48 // value + height + coinbase flag + slice header, rounded
	return overhead + len(c.Script)
}

// Decode reads a Coin from its disk representation: VARINT(height*2+
// coinbase), then a compressed amount, then a compressed script.
// Matches bitcoin-abc's Coin::Unserialize / CTxOutCompressor exactly
// so the S1-S4 test vectors round-trip bit for bit.
func DecodeCoin(r io.Reader) (Coin, error) {
	code, err := ReadVarInt(r)
	if err != nil {
		return Coin{}, errors.NewProcessingError("coin: failed to read height/coinbase code", err)
	}

	height := uint32(code >> 1)
	isCoinbase := code&1 != 0

	compressedAmount, err := ReadVarInt(r)
	if err != nil {
		return Coin{}, errors.NewProcessingError("coin: failed to read compressed amount", err)
	}

	value := decompressAmount(compressedAmount)

	script, err := decompressScript(r)
	if err != nil {
		return Coin{}, errors.NewProcessingError("coin: failed to read compressed script", err)
	}

	return Coin{
		Value:      int64(value),
		Script:     script,
		Height:     height,
		IsCoinbase: isCoinbase,
	}, nil
}

// Encode writes a Coin in the same disk representation DecodeCoin
// reads. Encoding a spent coin is a caller bug (the disk format has
// no representation for "absent"); callers must not persist spent
// coins (§7.1).
func (c Coin) Encode(w io.Writer) error {
	if c.IsSpent() {
		panic("model: encoding a spent coin")
	}

	code := uint64(c.Height)<<1 | boolToUint64(c.IsCoinbase)

	if err := WriteVarInt(w, code); err != nil {
		return errors.NewProcessingError("coin: failed to write height/coinbase code", err)
	}

	if err := WriteVarInt(w, compressAmount(uint64(c.Value))); err != nil {
		return errors.NewProcessingError("coin: failed to write compressed amount", err)
	}

	if err := compressScript(w, c.Script); err != nil {
		return errors.NewProcessingError("coin: failed to write compressed script", err)
	}

	return nil
}

// DecodeCoinFromHex is a test/debug convenience mirroring
// coins_tests.cpp's ParseHex-then-deserialize pattern.
func DecodeCoinFromHex(hexStr string) (Coin, error) {
	raw, err := hexDecode(hexStr)
	if err != nil {
		return Coin{}, errors.NewInvalidArgumentError("coin: invalid hex", err)
	}

	return DecodeCoin(bytes.NewReader(raw))
}

func boolToUint64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
