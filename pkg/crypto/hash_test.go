package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture: %v", err)
	}
	return b
}

func TestDoubleSha256(t *testing.T) {
	// SHA256d of the empty string.
	want := fromHex(t, "5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456")
	got := DoubleSha256(nil)
	if !bytes.Equal(got[:], want) {
		t.Errorf("DoubleSha256(nil) = %x, want %x", got, want)
	}
}

func TestChecksum4(t *testing.T) {
	full := DoubleSha256([]byte("abc"))
	cs := Checksum4([]byte("abc"))
	if !bytes.Equal(cs[:], full[:4]) {
		t.Errorf("Checksum4 = %x, want first 4 bytes of %x", cs, full)
	}
}

func TestBlake2b256(t *testing.T) {
	// BLAKE2b-256 of the empty string.
	want := fromHex(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8")
	got := Blake2b256(nil)
	if !bytes.Equal(got[:], want) {
		t.Errorf("Blake2b256(nil) = %x, want %x", got, want)
	}
}

func TestHash160(t *testing.T) {
	// RIPEMD160(SHA256("")).
	want := fromHex(t, "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb")
	got := Hash160(nil)
	if !bytes.Equal(got[:], want) {
		t.Errorf("Hash160(nil) = %x, want %x", got, want)
	}
}

func TestDeterminism(t *testing.T) {
	data := []byte("the same input")
	if DoubleSha256(data) != DoubleSha256(data) {
		t.Error("DoubleSha256 should be deterministic")
	}
	if Blake2b256(data) != Blake2b256(data) {
		t.Error("Blake2b256 should be deterministic")
	}
	if Hash160(data) != Hash160(data) {
		t.Error("Hash160 should be deterministic")
	}
}
