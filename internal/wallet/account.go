package wallet

import (
	"fmt"
	"sync"

	"github.com/hashdag-labs/walletcore/internal/hdkeys"
	"github.com/hashdag-labs/walletcore/internal/log"
	"github.com/hashdag-labs/walletcore/pkg/types"
)

// BIP-44 derivation constants.
// Full path: m/44'/CoinType'/account'/branch/index
const (
	// PurposeBIP44 is the hardened BIP-44 purpose field.
	PurposeBIP44 = hdkeys.HardenedOffset + 44

	// BranchReceive is the externally visible address branch.
	BranchReceive = 0

	// BranchChange is the branch for transaction change addresses.
	BranchChange = 1
)

// Account wraps an account-level extended key (m/44'/coin'/account')
// and derives addresses on its receive and change branches.
//
// Address listing is a pure function of the account key; the only
// mutable state is the per-branch cursor behind NewReceiveAddress and
// NewChangeAddress, guarded by mu.
type Account struct {
	key *hdkeys.ExtendedKey

	mu            sync.Mutex
	receiveCursor uint32
	changeCursor  uint32
}

// FromExtendedPrivateKey ingests a serialized extended private key
// (the account-level xprv). This is the sole fallible entry point for
// external private key material.
func FromExtendedPrivateKey(serialized string) (*Account, error) {
	key, err := hdkeys.Decode(serialized)
	if err != nil {
		return nil, fmt.Errorf("decode extended private key: %w", err)
	}
	if !key.IsPrivate() {
		return nil, fmt.Errorf("extended key is public-only, private key required")
	}
	return newAccount(key), nil
}

// FromExtendedPublicKey ingests a serialized extended public key for a
// watch-only account. A private key is accepted and neutered.
func FromExtendedPublicKey(serialized string) (*Account, error) {
	key, err := hdkeys.Decode(serialized)
	if err != nil {
		return nil, fmt.Errorf("decode extended public key: %w", err)
	}
	return newAccount(key.Neuter()), nil
}

// FromMasterKey derives the account at m/44'/coin'/accountIndex' from
// a master key. accountIndex must be below the hardened offset.
func FromMasterKey(master *hdkeys.ExtendedKey, accountIndex uint32) (*Account, error) {
	if accountIndex >= hdkeys.HardenedOffset {
		return nil, fmt.Errorf("account index %d out of range", accountIndex)
	}
	key, err := master.Derive(
		PurposeBIP44,
		hdkeys.Hardened(master.Params().CoinType),
		hdkeys.Hardened(accountIndex),
	)
	if err != nil {
		return nil, fmt.Errorf("derive account %d: %w", accountIndex, err)
	}
	return newAccount(key), nil
}

// FromMnemonic creates the account at the given index from a BIP-39
// mnemonic and passphrase, on the active network.
func FromMnemonic(mnemonic, passphrase string, accountIndex uint32) (*Account, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	master, err := hdkeys.NewMaster(seed, ActiveParams())
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	return FromMasterKey(master, accountIndex)
}

func newAccount(key *hdkeys.ExtendedKey) *Account {
	if key.Params() != ActiveParams() {
		// Keys from another network still work; flag the mixup.
		log.Wallet.Warn().
			Str("key_network", key.Params().Name).
			Str("active_network", ActiveParams().Name).
			Msg("extended key network differs from active network")
	}
	return &Account{key: key}
}

// Key returns the account-level extended key.
func (a *Account) Key() *hdkeys.ExtendedKey {
	return a.key
}

// IsWatchOnly reports whether the account holds no private material.
func (a *Account) IsWatchOnly() bool {
	return !a.key.IsPrivate()
}

// ReceiveAddresses derives count receive addresses starting at
// startIndex, in index order.
func (a *Account) ReceiveAddresses(startIndex, count uint32) ([]types.Address, error) {
	return a.branchAddresses(BranchReceive, startIndex, count)
}

// ChangeAddresses derives count change addresses starting at
// startIndex, in index order.
func (a *Account) ChangeAddresses(startIndex, count uint32) ([]types.Address, error) {
	return a.branchAddresses(BranchChange, startIndex, count)
}

// ReceiveAddress derives the receive address at a single index.
func (a *Account) ReceiveAddress(index uint32) (types.Address, error) {
	return a.branchAddress(BranchReceive, index)
}

// ChangeAddress derives the change address at a single index.
func (a *Account) ChangeAddress(index uint32) (types.Address, error) {
	return a.branchAddress(BranchChange, index)
}

func (a *Account) branchAddresses(branch, startIndex, count uint32) ([]types.Address, error) {
	branchKey, err := a.key.Child(branch)
	if err != nil {
		return nil, fmt.Errorf("derive branch %d: %w", branch, err)
	}
	keys, err := hdkeys.DeriveRange(branchKey, startIndex, count)
	if err != nil {
		return nil, fmt.Errorf("derive branch %d range [%d,%d): %w",
			branch, startIndex, startIndex+count, err)
	}
	addrs := make([]types.Address, len(keys))
	for i, key := range keys {
		addr, err := encodeAddress(key)
		if err != nil {
			return nil, err
		}
		addrs[i] = addr
	}
	return addrs, nil
}

func (a *Account) branchAddress(branch, index uint32) (types.Address, error) {
	key, err := a.key.Derive(branch, index)
	if err != nil {
		return types.Address{}, fmt.Errorf("derive branch %d index %d: %w", branch, index, err)
	}
	return encodeAddress(key)
}

// encodeAddress renders a derived key as a Schnorr pay-to-public-key
// address on the key's network.
func encodeAddress(key *hdkeys.ExtendedKey) (types.Address, error) {
	addr, err := types.NewAddress(
		key.Params().AddressPrefix,
		types.VersionPubKey,
		key.XOnlyPublicKeyBytes(),
	)
	if err != nil {
		return types.Address{}, fmt.Errorf("encode address: %w", err)
	}
	return addr, nil
}

// CurrentReceiveAddress returns the receive address at the cursor
// position without advancing it. The cursor starts at index 0.
func (a *Account) CurrentReceiveAddress() (types.Address, error) {
	a.mu.Lock()
	index := a.receiveCursor
	a.mu.Unlock()
	return a.ReceiveAddress(index)
}

// NewReceiveAddress advances the receive cursor and returns the
// address at the new position, with its derivation index.
func (a *Account) NewReceiveAddress() (types.Address, uint32, error) {
	return a.newBranchAddress(BranchReceive)
}

// CurrentChangeAddress returns the change address at the cursor
// position without advancing it.
func (a *Account) CurrentChangeAddress() (types.Address, error) {
	a.mu.Lock()
	index := a.changeCursor
	a.mu.Unlock()
	return a.ChangeAddress(index)
}

// NewChangeAddress advances the change cursor and returns the address
// at the new position, with its derivation index.
func (a *Account) NewChangeAddress() (types.Address, uint32, error) {
	return a.newBranchAddress(BranchChange)
}

func (a *Account) newBranchAddress(branch uint32) (types.Address, uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var index uint32
	if branch == BranchChange {
		index = a.changeCursor + 1
	} else {
		index = a.receiveCursor + 1
	}
	addr, err := a.branchAddress(branch, index)
	if err != nil {
		return types.Address{}, 0, err
	}
	// Only advance once the address derived cleanly.
	if branch == BranchChange {
		a.changeCursor = index
	} else {
		a.receiveCursor = index
	}
	return addr, index, nil
}

// ReceiveIndex returns the receive cursor position.
func (a *Account) ReceiveIndex() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.receiveCursor
}

// SetReceiveIndex moves the receive cursor, e.g. when restoring an
// account whose address usage is tracked elsewhere.
func (a *Account) SetReceiveIndex(index uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.receiveCursor = index
}

// ChangeIndex returns the change cursor position.
func (a *Account) ChangeIndex() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.changeCursor
}

// SetChangeIndex moves the change cursor.
func (a *Account) SetChangeIndex(index uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.changeCursor = index
}
