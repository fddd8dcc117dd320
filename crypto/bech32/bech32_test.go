package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/revshare/errors"
)

func TestDecodeKnownValue(t *testing.T) {
	// bech32 -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	want, err := hex.DecodeString("746573742d7061796c6f6164")
	if err != nil {
		t.Fatal(err)
	}
	hrp, payload, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if hrp != "tiov" {
		t.Fatalf("unexpected human readable part %q", hrp)
	}
	if !bytes.Equal(want, payload) {
		t.Fatalf("invalid decode: %X", payload)
	}
}

func TestEncodeDecodeAddress(t *testing.T) {
	addr := bytes.Repeat([]byte{0xab}, 20)
	raw, err := Encode("rev", addr)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	hrp, payload, err := Decode(string(raw))
	if err != nil {
		t.Fatalf("cannot decode: %s", err)
	}
	if hrp != "rev" || !bytes.Equal(addr, payload) {
		t.Fatalf("round trip mismatch: %q %X", hrp, payload)
	}
}

func TestDecodeRejectsBrokenChecksum(t *testing.T) {
	if _, _, err := Decode("tiov1w3jhxapdwpshjmr0v9jqymqq4z"); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
	if _, err := Encode("", []byte("x")); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want empty error, got %+v", err)
	}
}
