package model

import (
	"io"

	"github.com/bitcoin-sv/teranode-consensus/errors"
)

// WriteVarInt and ReadVarInt implement bitcoin-abc's disk-serialization
// variable length integer (serialize.h's VARINT; distinct from the
// P2P wire CompactSize encoding) — base-128, MSB-continuation, with
// the "+1 per continued group" trick that lets every value have a
// unique encoding. Used for the on-disk block-index record (§6) and
// the Coin disk format's height/coinbase code and compressed amount.
func WriteVarInt(w io.Writer, n uint64) error {
	var tmp [10]byte
	length := 0

	for {
		b := byte(n & 0x7f)
		if length != 0 {
			b |= 0x80
		}

		tmp[length] = b

		if n <= 0x7f {
			break
		}

		n = (n >> 7) - 1
		length++
	}

	// tmp was filled least-significant-group first; emit MSB first.
	for i := length; i >= 0; i-- {
		if _, err := w.Write(tmp[i : i+1]); err != nil {
			return err
		}
	}

	return nil
}

func ReadVarInt(r io.Reader) (uint64, error) {
	var n uint64

	var b [1]byte

	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, errors.NewProcessingError("varint: short read", err)
		}

		n = (n << 7) | uint64(b[0]&0x7f)

		if b[0]&0x80 != 0 {
			n++
		} else {
			return n, nil
		}
	}
}
