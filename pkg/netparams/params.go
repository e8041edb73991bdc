// Package netparams defines per-network constants for address encoding
// and extended key serialization.
package netparams

import "fmt"

// CoinTypeKaspa is the BIP-44 coin type registered for Kaspa.
// Full derivation path: m/44'/111111'/account'/change/index
const CoinTypeKaspa = 111111

// Params holds the network-specific constants consumed by the key codec
// and the address encoder. Values are pinned to the published network
// serialization formats; they are selected, never edited, at runtime.
type Params struct {
	// Name identifies the network in logs and error messages.
	Name string

	// AddressPrefix is the human-readable address prefix ("kaspa", ...).
	// It is folded into the address checksum, so two networks with
	// different prefixes can never produce interchangeable addresses.
	AddressPrefix string

	// XPrvVersion and XPubVersion are the 4-byte version prefixes of
	// serialized extended private/public keys (kprv/kpub and friends).
	XPrvVersion [4]byte
	XPubVersion [4]byte

	// CoinType is the BIP-44 coin type (hardened at the derivation site).
	CoinType uint32
}

// Predefined network parameter sets.
var (
	// Mainnet uses kprv/kpub extended keys and "kaspa:" addresses.
	Mainnet = Params{
		Name:          "mainnet",
		AddressPrefix: "kaspa",
		XPrvVersion:   [4]byte{0x03, 0x8f, 0x2e, 0xf4}, // kprv
		XPubVersion:   [4]byte{0x03, 0x8f, 0x33, 0x2e}, // kpub
		CoinType:      CoinTypeKaspa,
	}

	// Testnet uses ktrv/ktub extended keys and "kaspatest:" addresses.
	Testnet = Params{
		Name:          "testnet",
		AddressPrefix: "kaspatest",
		XPrvVersion:   [4]byte{0x03, 0x90, 0x9e, 0x07}, // ktrv
		XPubVersion:   [4]byte{0x03, 0x90, 0xa2, 0x41}, // ktub
		CoinType:      CoinTypeKaspa,
	}

	// Devnet uses kdrv/kdub extended keys and "kaspadev:" addresses.
	Devnet = Params{
		Name:          "devnet",
		AddressPrefix: "kaspadev",
		XPrvVersion:   [4]byte{0x03, 0x8b, 0x3d, 0x80}, // kdrv
		XPubVersion:   [4]byte{0x03, 0x8b, 0x41, 0xba}, // kdub
		CoinType:      CoinTypeKaspa,
	}

	// Simnet uses ksrv/ksub extended keys and "kaspasim:" addresses.
	Simnet = Params{
		Name:          "simnet",
		AddressPrefix: "kaspasim",
		XPrvVersion:   [4]byte{0x03, 0x90, 0x42, 0x42}, // ksrv
		XPubVersion:   [4]byte{0x03, 0x90, 0x46, 0x7d}, // ksub
		CoinType:      CoinTypeKaspa,
	}
)

// all lists every known parameter set, in lookup order.
var all = []*Params{&Mainnet, &Testnet, &Devnet, &Simnet}

// ByName returns the parameter set for a network name.
func ByName(name string) (*Params, error) {
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown network %q", name)
}

// ByXKeyVersion returns the parameter set whose extended key version
// bytes (private or public) match, along with whether the version
// denotes a private key. An unrecognized version means the key was
// produced for a network this build does not know about.
func ByXKeyVersion(version [4]byte) (params *Params, private bool, err error) {
	for _, p := range all {
		if version == p.XPrvVersion {
			return p, true, nil
		}
		if version == p.XPubVersion {
			return p, false, nil
		}
	}
	return nil, false, fmt.Errorf("unknown extended key version %x", version)
}

// ByAddressPrefix returns the parameter set for an address prefix.
func ByAddressPrefix(prefix string) (*Params, error) {
	for _, p := range all {
		if p.AddressPrefix == prefix {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown address prefix %q", prefix)
}
