// Package types defines the address value type and its text codec.
package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// AddressVersion selects the payload interpretation of an address.
type AddressVersion byte

// Address versions defined by the network's address format.
const (
	// VersionPubKey is a pay-to-public-key address over a 32-byte
	// x-only Schnorr public key.
	VersionPubKey AddressVersion = 0x00

	// VersionPubKeyECDSA is a pay-to-public-key address over a 33-byte
	// compressed ECDSA public key.
	VersionPubKeyECDSA AddressVersion = 0x01

	// VersionScriptHash is a pay-to-script-hash address over a 32-byte
	// BLAKE2b-256 script digest.
	VersionScriptHash AddressVersion = 0x08
)

// Errors returned when address material does not match any supported
// network or version.
var (
	ErrUnknownPrefix  = errors.New("unknown address prefix")
	ErrUnknownVersion = errors.New("unknown address version")
)

// PayloadSize returns the required payload length in bytes, or -1 for
// an unknown version.
func (v AddressVersion) PayloadSize() int {
	switch v {
	case VersionPubKey, VersionScriptHash:
		return 32
	case VersionPubKeyECDSA:
		return 33
	default:
		return -1
	}
}

// String names the version for logs and error messages.
func (v AddressVersion) String() string {
	switch v {
	case VersionPubKey:
		return "pubkey"
	case VersionPubKeyECDSA:
		return "pubkey-ecdsa"
	case VersionScriptHash:
		return "scripthash"
	default:
		return fmt.Sprintf("unknown(%d)", byte(v))
	}
}

// Address is an immutable network address: a prefix, a version, and the
// version-specific payload bytes.
type Address struct {
	prefix  string
	version AddressVersion
	payload []byte
}

// NewAddress constructs an address from its parts, validating the
// prefix against the known networks and the payload length against the
// version.
func NewAddress(prefix string, version AddressVersion, payload []byte) (Address, error) {
	if !knownPrefix(prefix) {
		return Address{}, fmt.Errorf("%w: %q", ErrUnknownPrefix, prefix)
	}
	want := version.PayloadSize()
	if want < 0 {
		return Address{}, fmt.Errorf("%w: %d", ErrUnknownVersion, byte(version))
	}
	if len(payload) != want {
		return Address{}, fmt.Errorf("address payload must be %d bytes for version %s, got %d",
			want, version, len(payload))
	}
	p := make([]byte, len(payload))
	copy(p, payload)
	return Address{prefix: prefix, version: version, payload: p}, nil
}

// ParseAddress decodes and validates an address string.
func ParseAddress(s string) (Address, error) {
	prefix, payload, err := cashaddrDecode(s)
	if err != nil {
		return Address{}, err
	}
	if len(payload) == 0 {
		return Address{}, fmt.Errorf("address: empty payload")
	}
	return NewAddress(prefix, AddressVersion(payload[0]), payload[1:])
}

// Prefix returns the network prefix.
func (a Address) Prefix() string { return a.prefix }

// Version returns the address version.
func (a Address) Version() AddressVersion { return a.version }

// Payload returns a copy of the version-specific payload bytes.
func (a Address) Payload() []byte {
	p := make([]byte, len(a.payload))
	copy(p, a.payload)
	return p
}

// IsZero returns true for the zero Address value.
func (a Address) IsZero() bool {
	return a.prefix == "" && a.payload == nil
}

// Equal reports whether two addresses are identical.
func (a Address) Equal(b Address) bool {
	return a.prefix == b.prefix && a.version == b.version && bytes.Equal(a.payload, b.payload)
}

// String returns the canonical checksummed text form (e.g. "kaspa:qq...").
func (a Address) String() string {
	data := make([]byte, 0, 1+len(a.payload))
	data = append(data, byte(a.version))
	data = append(data, a.payload...)
	s, err := cashaddrEncode(a.prefix, data)
	if err != nil {
		// Unreachable for addresses built through NewAddress.
		panic(fmt.Sprintf("encode address: %v", err))
	}
	return s
}

// MarshalJSON encodes the address as its text form.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a text-form address string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// knownPrefixes are the address prefixes of the supported networks.
// Kept in sync with pkg/netparams.
var knownPrefixes = []string{"kaspa", "kaspatest", "kaspadev", "kaspasim"}

func knownPrefix(prefix string) bool {
	for _, p := range knownPrefixes {
		if p == prefix {
			return true
		}
	}
	return false
}
