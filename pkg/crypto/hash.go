// Package crypto provides the hash primitives used by key serialization
// and address construction.
package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // the extended key identifier format requires it
)

// DoubleSha256 computes SHA256(SHA256(data)). Serialized extended keys
// carry the first four bytes of this digest as their checksum.
func DoubleSha256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Checksum4 returns the 4-byte base58check checksum of data.
func Checksum4(data []byte) [4]byte {
	h := DoubleSha256(data)
	var cs [4]byte
	copy(cs[:], h[:4])
	return cs
}

// Blake2b256 computes a BLAKE2b-256 hash. Script-hash address payloads
// are BLAKE2b-256 of the redeem script.
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Hash160 computes RIPEMD160(SHA256(data)), the extended key identifier
// hash. The first four bytes form a key's fingerprint.
func Hash160(data []byte) [20]byte {
	first := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(first[:])
	var out [20]byte
	copy(out[:], r.Sum(nil))
	return out
}
