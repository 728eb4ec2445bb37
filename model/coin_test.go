package model

import (
	"bytes"
	"testing"
)

func TestDecodeCoinNonCoinbase(t *testing.T) {
	c, err := DecodeCoinFromHex("97f23c835800816115944e077fe7c803cfa57f29b36bf87c1d35")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.IsCoinbase {
		t.Fatalf("expected non-coinbase")
	}

	if c.Height != 203998 {
		t.Fatalf("height = %d, want 203998", c.Height)
	}

	if c.Value != 60_000_000_000 {
		t.Fatalf("value = %d, want 60000000000", c.Value)
	}

	wantHash := "816115944e077fe7c803cfa57f29b36bf87c1d35"
	gotHash := hexEncode(c.Script[3:23])
	if gotHash != wantHash {
		t.Fatalf("script hash = %s, want %s", gotHash, wantHash)
	}
}

func TestDecodeCoinCoinbase(t *testing.T) {
	c, err := DecodeCoinFromHex("8ddf77bbd123008c988f1a4a4de2161e0f50aac7f17e7f9555caa4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !c.IsCoinbase {
		t.Fatalf("expected coinbase")
	}

	if c.Height != 120891 {
		t.Fatalf("height = %d, want 120891", c.Height)
	}

	if c.Value != 110397 {
		t.Fatalf("value = %d, want 110397", c.Value)
	}
}

func TestDecodeCoinMinimal(t *testing.T) {
	c, err := DecodeCoinFromHex("000006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.IsCoinbase {
		t.Fatalf("expected non-coinbase")
	}

	if c.Height != 0 {
		t.Fatalf("height = %d, want 0", c.Height)
	}

	if c.Value != 0 {
		t.Fatalf("value = %d, want 0", c.Value)
	}

	if len(c.Script) != 0 {
		t.Fatalf("expected empty script, got %d bytes", len(c.Script))
	}
}

func TestDecodeCoinOverlongScriptRejected(t *testing.T) {
	_, err := DecodeCoinFromHex("00008a95c0bb00")
	if err == nil {
		t.Fatalf("expected a stream-failure error for an implausible script length")
	}
}

func TestCoinEncodeDecodeRoundTrip(t *testing.T) {
	original := Coin{
		Value:      60_000_000_000,
		Script:     buildP2PKH(mustHexDecode(t, "816115944e077fe7c803cfa57f29b36bf87c1d35")),
		Height:     203998,
		IsCoinbase: false,
	}

	var buf bytes.Buffer
	if err := original.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeCoin(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.Value != original.Value || decoded.Height != original.Height ||
		decoded.IsCoinbase != original.IsCoinbase || !bytes.Equal(decoded.Script, original.Script) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func mustHexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hexDecode(s)
	if err != nil {
		t.Fatalf("hex decode %q: %v", s, err)
	}
	return b
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = digits[v>>4]
		out[i*2+1] = digits[v&0x0f]
	}
	return string(out)
}
