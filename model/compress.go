package model

import (
	"encoding/hex"
	"io"

	"github.com/bitcoin-sv/teranode-consensus/errors"
)

// compressAmount/decompressAmount implement CTxOutCompressor's amount
// compression: strip trailing decimal zeros (up to 9 of them) and
// fold the remaining last digit into the encoded value, so common
// round satoshi amounts take only a couple of bytes on disk.
func compressAmount(n uint64) uint64 {
	if n == 0 {
		return 0
	}

	e := 0
	for n%10 == 0 && e < 9 {
		n /= 10
		e++
	}

	if e < 9 {
		d := n % 10
		n /= 10
		return 1 + (n*9+d-1)*10 + uint64(e)
	}

	return 1 + (n-1)*10 + 9
}

func decompressAmount(x uint64) uint64 {
	if x == 0 {
		return 0
	}

	x--
	e := x % 10
	x /= 10

	var n uint64
	if e < 9 {
		d := x%9 + 1
		x /= 9
		n = x*10 + d
	} else {
		n = x + 1
	}

	for ; e > 0; e-- {
		n *= 10
	}

	return n
}

// Special script ids recognized by CScriptCompressor. 6 and above are
// "not special" — the real (length+6) is carried and the raw bytes
// follow verbatim.
const (
	scriptSpecialP2PKH             = 0
	scriptSpecialP2SH              = 1
	scriptSpecialP2PKCompressedEven = 2
	scriptSpecialP2PKCompressedOdd  = 3
	scriptSpecialP2PKUncompressed04 = 4
	scriptSpecialP2PKUncompressed05 = 5
	numSpecialScripts              = 6
)

// Opcodes used to build/recognize the two templated scripts this
// compressor special-cases.
const (
	opDup         = 0x76
	opHash160     = 0xa9
	opEqualVerify = 0x88
	opCheckSig    = 0xac
	opEqual       = 0x87
	opPushData20  = 0x14 // direct push of 20 bytes
)

// compressScript writes a script in its compressed disk form: a
// recognized P2PKH/P2SH/pubkey template becomes a one-byte special id
// plus the 20 or 32-byte payload; anything else is stored as
// VARINT(len(script)+numSpecialScripts) followed by the raw bytes.
func compressScript(w io.Writer, script []byte) error {
	if hash, ok := matchP2PKH(script); ok {
		return writeSpecial(w, scriptSpecialP2PKH, hash)
	}

	if hash, ok := matchP2SH(script); ok {
		return writeSpecial(w, scriptSpecialP2SH, hash)
	}

	if id, x, ok := matchPubKey(script); ok {
		return writeSpecial(w, id, x)
	}

	if err := WriteVarInt(w, uint64(len(script))+numSpecialScripts); err != nil {
		return err
	}

	_, err := w.Write(script)
	return err
}

func writeSpecial(w io.Writer, id uint64, payload []byte) error {
	if err := WriteVarInt(w, id); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// decompressScript is the inverse of compressScript.
func decompressScript(r io.Reader) ([]byte, error) {
	size, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	switch size {
	case scriptSpecialP2PKH:
		hash, err := readN(r, 20)
		if err != nil {
			return nil, err
		}
		return buildP2PKH(hash), nil

	case scriptSpecialP2SH:
		hash, err := readN(r, 20)
		if err != nil {
			return nil, err
		}
		return buildP2SH(hash), nil

	case scriptSpecialP2PKCompressedEven, scriptSpecialP2PKCompressedOdd:
		x, err := readN(r, 32)
		if err != nil {
			return nil, err
		}
		prefix := byte(0x02)
		if size == scriptSpecialP2PKCompressedOdd {
			prefix = 0x03
		}
		return buildP2PK(append([]byte{prefix}, x...)), nil

	case scriptSpecialP2PKUncompressed04, scriptSpecialP2PKUncompressed05:
		// Consensus note: bitcoin-abc reconstructs the full
		// uncompressed pubkey from just the X coordinate via point
		// decompression (requires the curve equation); that math is
		// out of this module's scope (§1, script parsing excluded),
		// so the raw 32-byte X payload is preserved as an opaque
		// marker rather than decompressed to a usable pubkey.
		x, err := readN(r, 32)
		if err != nil {
			return nil, err
		}
		return buildP2PK(append([]byte{byte(size)}, x...)), nil

	default:
		n := size - numSpecialScripts
		if n > 0x02000000 {
			return nil, errors.NewProcessingError("script: implausible decompressed size %d", n)
		}
		return readN(r, int(n))
	}
}

func readN(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.NewProcessingError("short read of %d bytes", n, err)
	}
	return buf, nil
}

func matchP2PKH(script []byte) ([]byte, bool) {
	if len(script) == 25 && script[0] == opDup && script[1] == opHash160 &&
		script[2] == opPushData20 && script[23] == opEqualVerify && script[24] == opCheckSig {
		return script[3:23], true
	}
	return nil, false
}

func matchP2SH(script []byte) ([]byte, bool) {
	if len(script) == 23 && script[0] == opHash160 && script[1] == opPushData20 && script[22] == opEqual {
		return script[2:22], true
	}
	return nil, false
}

func matchPubKey(script []byte) (id uint64, payload []byte, ok bool) {
	if len(script) == 35 && script[0] == 0x21 && script[34] == opCheckSig &&
		(script[1] == 0x02 || script[1] == 0x03) {
		id = scriptSpecialP2PKCompressedEven
		if script[1] == 0x03 {
			id = scriptSpecialP2PKCompressedOdd
		}
		return id, script[2:34], true
	}

	if len(script) == 67 && script[0] == 0x41 && script[66] == opCheckSig && script[1] == 0x04 {
		return scriptSpecialP2PKUncompressed04, script[2:34], true
	}

	return 0, nil, false
}

func buildP2PKH(hash []byte) []byte {
	out := make([]byte, 0, 25)
	out = append(out, opDup, opHash160, opPushData20)
	out = append(out, hash...)
	out = append(out, opEqualVerify, opCheckSig)
	return out
}

func buildP2SH(hash []byte) []byte {
	out := make([]byte, 0, 23)
	out = append(out, opHash160, opPushData20)
	out = append(out, hash...)
	out = append(out, opEqual)
	return out
}

func buildP2PK(pubkey []byte) []byte {
	push := byte(len(pubkey))
	out := make([]byte, 0, len(pubkey)+2)
	out = append(out, push)
	out = append(out, pubkey...)
	out = append(out, opCheckSig)
	return out
}

func hexDecode(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
