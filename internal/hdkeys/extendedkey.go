// Package hdkeys implements BIP-32 extended keys: the serialized key
// codec and hierarchical child derivation over secp256k1.
package hdkeys

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"

	"github.com/hashdag-labs/walletcore/pkg/crypto"
	"github.com/hashdag-labs/walletcore/pkg/netparams"
)

const (
	// HardenedOffset marks the start of the hardened index range.
	// Indices >= HardenedOffset derive hardened children.
	HardenedOffset uint32 = 0x80000000

	// serializedLen is the length of a serialized extended key before
	// the base58check checksum:
	// 4 version + 1 depth + 4 fingerprint + 4 index + 32 chain code + 33 key.
	serializedLen = 78

	// keyDataLen is the key field length: 0x00-padded 32-byte scalar
	// for private keys, compressed point for public keys.
	keyDataLen = 33

	chainCodeLen = 32
)

// Hardened returns the hardened derivation index for i.
func Hardened(i uint32) uint32 {
	return i + HardenedOffset
}

// ExtendedKey is an immutable extended private or public key together
// with its derivation metadata. Construct one with NewMaster, Decode,
// or by deriving from another key; never mutate it afterwards.
type ExtendedKey struct {
	params    *netparams.Params
	isPrivate bool

	// keyData holds 0x00 || 32-byte scalar for private keys, or the
	// 33-byte compressed point for public keys.
	keyData   [keyDataLen]byte
	chainCode [chainCodeLen]byte

	depth             uint8
	parentFingerprint [4]byte
	childIndex        uint32

	// pubOnce guards the lazily computed compressed public key, so
	// range derivation does not repeat the base-point multiplication
	// for every child.
	pubOnce sync.Once
	pubKey  [keyDataLen]byte
}

// NewMaster derives the master extended private key from a seed for
// the given network. Seed length follows BIP-32: 16 to 64 bytes.
func NewMaster(seed []byte, params *netparams.Params) (*ExtendedKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, fmt.Errorf("seed must be 16-64 bytes, got %d", len(seed))
	}

	il, ir := hmacSha512Split([]byte("Bitcoin seed"), seed)

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(il); overflow || scalar.IsZero() {
		// ~2^-127 per seed; the seed itself is unusable.
		return nil, fmt.Errorf("master key from seed: %w", ErrInvalidKey)
	}

	k := &ExtendedKey{params: params, isPrivate: true}
	copy(k.keyData[1:], il)
	copy(k.chainCode[:], ir)
	return k, nil
}

// Decode parses a base58check-serialized extended key string. The
// version bytes select both the network and whether the key is
// private. This is the sole entry point for external key material, so
// it validates everything: checksum, length, version, and that the key
// bytes are a usable scalar or curve point.
func Decode(serialized string) (*ExtendedKey, error) {
	raw, err := base58.Decode(serialized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(raw) != serializedLen+4 {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrLength, len(raw), serializedLen+4)
	}

	payload, checksum := raw[:serializedLen], raw[serializedLen:]
	want := crypto.Checksum4(payload)
	if want != [4]byte(checksum) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrFormat)
	}

	var version [4]byte
	copy(version[:], payload[0:4])
	params, private, err := netparams.ByXKeyVersion(version)
	if err != nil {
		return nil, fmt.Errorf("%w: %x", ErrVersion, version)
	}

	k := &ExtendedKey{params: params, isPrivate: private}
	k.depth = payload[4]
	copy(k.parentFingerprint[:], payload[5:9])
	k.childIndex = binary.BigEndian.Uint32(payload[9:13])
	copy(k.chainCode[:], payload[13:45])
	copy(k.keyData[:], payload[45:78])

	if private {
		if k.keyData[0] != 0x00 {
			return nil, fmt.Errorf("%w: private key padding byte is %#02x", ErrInvalidKey, k.keyData[0])
		}
		var scalar secp256k1.ModNScalar
		if overflow := scalar.SetByteSlice(k.keyData[1:]); overflow || scalar.IsZero() {
			return nil, fmt.Errorf("%w: private scalar out of range", ErrInvalidKey)
		}
	} else {
		if _, err := secp256k1.ParsePubKey(k.keyData[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
	}
	if k.depth == 0 && (k.parentFingerprint != [4]byte{} || k.childIndex != 0) {
		return nil, fmt.Errorf("%w: depth-zero key with parent metadata", ErrInvalidKey)
	}
	return k, nil
}

// Serialize returns the 78-byte binary form.
func (k *ExtendedKey) Serialize() []byte {
	version := k.params.XPubVersion
	if k.isPrivate {
		version = k.params.XPrvVersion
	}

	out := make([]byte, 0, serializedLen)
	out = append(out, version[:]...)
	out = append(out, k.depth)
	out = append(out, k.parentFingerprint[:]...)
	out = binary.BigEndian.AppendUint32(out, k.childIndex)
	out = append(out, k.chainCode[:]...)
	out = append(out, k.keyData[:]...)
	return out
}

// String returns the base58check text form. Decode(k.String()) yields
// a key identical to k.
func (k *ExtendedKey) String() string {
	payload := k.Serialize()
	checksum := crypto.Checksum4(payload)
	return base58.Encode(append(payload, checksum[:]...))
}

// IsPrivate reports whether this key carries private key material.
func (k *ExtendedKey) IsPrivate() bool { return k.isPrivate }

// Depth returns the derivation depth (0 for a master key).
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ChildIndex returns the index this key was derived at (0 for a master key).
func (k *ExtendedKey) ChildIndex() uint32 { return k.childIndex }

// ParentFingerprint returns the first 4 bytes of the parent key's identifier.
func (k *ExtendedKey) ParentFingerprint() [4]byte { return k.parentFingerprint }

// ChainCode returns a copy of the 32-byte chain code.
func (k *ExtendedKey) ChainCode() []byte {
	cc := make([]byte, chainCodeLen)
	copy(cc, k.chainCode[:])
	return cc
}

// Params returns the network parameters this key was created for.
func (k *ExtendedKey) Params() *netparams.Params { return k.params }

// PrivateKeyBytes returns the raw 32-byte scalar, or nil for a
// public-only key.
func (k *ExtendedKey) PrivateKeyBytes() []byte {
	if !k.isPrivate {
		return nil
	}
	priv := make([]byte, 32)
	copy(priv, k.keyData[1:])
	return priv
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *ExtendedKey) PublicKeyBytes() []byte {
	pub := make([]byte, keyDataLen)
	if !k.isPrivate {
		copy(pub, k.keyData[:])
		return pub
	}
	k.pubOnce.Do(func() {
		priv := secp256k1.PrivKeyFromBytes(k.keyData[1:])
		copy(k.pubKey[:], priv.PubKey().SerializeCompressed())
		priv.Zero()
	})
	copy(pub, k.pubKey[:])
	return pub
}

// XOnlyPublicKeyBytes returns the 32-byte x-only public key used by
// Schnorr pay-to-public-key addresses.
func (k *ExtendedKey) XOnlyPublicKeyBytes() []byte {
	return k.PublicKeyBytes()[1:]
}

// Fingerprint returns the first 4 bytes of this key's identifier
// (RIPEMD160(SHA256(compressed public key))).
func (k *ExtendedKey) Fingerprint() [4]byte {
	id := crypto.Hash160(k.PublicKeyBytes())
	var fp [4]byte
	copy(fp[:], id[:4])
	return fp
}

// Neuter returns the public-only counterpart of this key. Neutering a
// public key returns the key itself.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	if !k.isPrivate {
		return k
	}
	pub := &ExtendedKey{
		params:            k.params,
		isPrivate:         false,
		chainCode:         k.chainCode,
		depth:             k.depth,
		parentFingerprint: k.parentFingerprint,
		childIndex:        k.childIndex,
	}
	copy(pub.keyData[:], k.PublicKeyBytes())
	return pub
}
