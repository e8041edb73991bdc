package wallet

import (
	"errors"
	"testing"

	"github.com/hashdag-labs/walletcore/internal/hdkeys"
	"github.com/hashdag-labs/walletcore/pkg/types"
)

// testMnemonic is the standard BIP-39 test phrase; with the "TREZOR"
// passphrase it produces a fixed, well-known seed.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testAccount(t *testing.T) *Account {
	t.Helper()
	account, err := FromMnemonic(testMnemonic, "TREZOR", 0)
	if err != nil {
		t.Fatalf("FromMnemonic() error: %v", err)
	}
	return account
}

func addressSet(t *testing.T, addrs []types.Address) map[string]bool {
	t.Helper()
	set := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		s := a.String()
		if set[s] {
			t.Errorf("duplicate address %s", s)
		}
		set[s] = true
	}
	return set
}

func TestReceiveAddresses(t *testing.T) {
	account := testAccount(t)

	addrs, err := account.ReceiveAddresses(0, 10)
	if err != nil {
		t.Fatalf("ReceiveAddresses(0, 10) error: %v", err)
	}
	if len(addrs) != 10 {
		t.Fatalf("got %d addresses, want 10", len(addrs))
	}
	addressSet(t, addrs)

	// Every produced string must parse back with a valid checksum.
	for i, addr := range addrs {
		parsed, err := types.ParseAddress(addr.String())
		if err != nil {
			t.Errorf("address %d does not re-parse: %v", i, err)
			continue
		}
		if !parsed.Equal(addr) {
			t.Errorf("address %d round trip mismatch", i)
		}
		if parsed.Prefix() != "kaspa" {
			t.Errorf("address %d prefix = %q, want %q", i, parsed.Prefix(), "kaspa")
		}
		if parsed.Version() != types.VersionPubKey {
			t.Errorf("address %d version = %v, want pubkey", i, parsed.Version())
		}
	}
}

func TestReceiveChangeDisjoint(t *testing.T) {
	account := testAccount(t)

	receive, err := account.ReceiveAddresses(0, 10)
	if err != nil {
		t.Fatalf("ReceiveAddresses() error: %v", err)
	}
	change, err := account.ChangeAddresses(0, 10)
	if err != nil {
		t.Fatalf("ChangeAddresses() error: %v", err)
	}

	receiveSet := addressSet(t, receive)
	for _, addr := range change {
		if receiveSet[addr.String()] {
			t.Errorf("address %s appears on both branches", addr)
		}
	}
}

func TestAddresses_PrefixStable(t *testing.T) {
	account := testAccount(t)

	short, err := account.ReceiveAddresses(3, 4)
	if err != nil {
		t.Fatalf("ReceiveAddresses(3, 4) error: %v", err)
	}
	long, err := account.ReceiveAddresses(3, 9)
	if err != nil {
		t.Fatalf("ReceiveAddresses(3, 9) error: %v", err)
	}
	for i := range short {
		if !short[i].Equal(long[i]) {
			t.Errorf("prefix instability at offset %d", i)
		}
	}
}

func TestSingleIndexMatchesRange(t *testing.T) {
	account := testAccount(t)

	addrs, err := account.ReceiveAddresses(0, 5)
	if err != nil {
		t.Fatalf("ReceiveAddresses() error: %v", err)
	}
	for i := uint32(0); i < 5; i++ {
		single, err := account.ReceiveAddress(i)
		if err != nil {
			t.Fatalf("ReceiveAddress(%d) error: %v", i, err)
		}
		if !single.Equal(addrs[i]) {
			t.Errorf("ReceiveAddress(%d) differs from range result", i)
		}
	}
}

func TestAddresses_Deterministic(t *testing.T) {
	a1 := testAccount(t)
	a2 := testAccount(t)

	r1, err := a1.ReceiveAddresses(0, 3)
	if err != nil {
		t.Fatalf("ReceiveAddresses() error: %v", err)
	}
	r2, err := a2.ReceiveAddresses(0, 3)
	if err != nil {
		t.Fatalf("ReceiveAddresses() error: %v", err)
	}
	for i := range r1 {
		if !r1[i].Equal(r2[i]) {
			t.Errorf("nondeterministic address at index %d", i)
		}
	}
}

func TestFromExtendedPrivateKey_RoundTrip(t *testing.T) {
	account := testAccount(t)
	serialized := account.Key().String()

	restored, err := FromExtendedPrivateKey(serialized)
	if err != nil {
		t.Fatalf("FromExtendedPrivateKey() error: %v", err)
	}
	if restored.Key().String() != serialized {
		t.Error("extended key should round trip through serialization")
	}

	want, err := account.ReceiveAddresses(0, 3)
	if err != nil {
		t.Fatalf("ReceiveAddresses() error: %v", err)
	}
	got, err := restored.ReceiveAddresses(0, 3)
	if err != nil {
		t.Fatalf("ReceiveAddresses() error: %v", err)
	}
	for i := range want {
		if !want[i].Equal(got[i]) {
			t.Errorf("restored account address %d differs", i)
		}
	}
}

func TestFromExtendedPrivateKey_RejectsPublic(t *testing.T) {
	account := testAccount(t)
	xpub := account.Key().Neuter().String()

	if _, err := FromExtendedPrivateKey(xpub); err == nil {
		t.Error("FromExtendedPrivateKey should reject a public-only key")
	}

	if _, err := FromExtendedPrivateKey("not a key"); !errors.Is(err, hdkeys.ErrFormat) {
		t.Errorf("garbage input error = %v, want ErrFormat", err)
	}
}

func TestWatchOnlyMatchesPrivate(t *testing.T) {
	account := testAccount(t)

	watch, err := FromExtendedPublicKey(account.Key().Neuter().String())
	if err != nil {
		t.Fatalf("FromExtendedPublicKey() error: %v", err)
	}
	if !watch.IsWatchOnly() {
		t.Error("account from xpub should be watch-only")
	}

	want, err := account.ReceiveAddresses(0, 10)
	if err != nil {
		t.Fatalf("ReceiveAddresses() error: %v", err)
	}
	got, err := watch.ReceiveAddresses(0, 10)
	if err != nil {
		t.Fatalf("watch-only ReceiveAddresses() error: %v", err)
	}
	for i := range want {
		if !want[i].Equal(got[i]) {
			t.Errorf("watch-only address %d differs from private derivation", i)
		}
	}
}

func TestFromMasterKey_IndexBound(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	master, err := hdkeys.NewMaster(seed, ActiveParams())
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}

	if _, err := FromMasterKey(master, hdkeys.HardenedOffset); err == nil {
		t.Error("account index at the hardened offset should be rejected")
	}

	a0, err := FromMasterKey(master, 0)
	if err != nil {
		t.Fatalf("FromMasterKey(0) error: %v", err)
	}
	a1, err := FromMasterKey(master, 1)
	if err != nil {
		t.Fatalf("FromMasterKey(1) error: %v", err)
	}
	addr0, err := a0.ReceiveAddress(0)
	if err != nil {
		t.Fatalf("ReceiveAddress() error: %v", err)
	}
	addr1, err := a1.ReceiveAddress(0)
	if err != nil {
		t.Fatalf("ReceiveAddress() error: %v", err)
	}
	if addr0.Equal(addr1) {
		t.Error("different accounts should produce different addresses")
	}
}

func TestAddresses_RangeBound(t *testing.T) {
	account := testAccount(t)

	if _, err := account.ReceiveAddresses(0, hdkeys.MaxRangeCount+1); !errors.Is(err, hdkeys.ErrRangeTooLarge) {
		t.Errorf("oversized request error = %v, want ErrRangeTooLarge", err)
	}

	empty, err := account.ReceiveAddresses(10, 0)
	if err != nil {
		t.Fatalf("ReceiveAddresses(10, 0) error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("zero-count request returned %d addresses", len(empty))
	}
}

func TestAddressCursor(t *testing.T) {
	account := testAccount(t)

	current, err := account.CurrentReceiveAddress()
	if err != nil {
		t.Fatalf("CurrentReceiveAddress() error: %v", err)
	}
	at0, err := account.ReceiveAddress(0)
	if err != nil {
		t.Fatalf("ReceiveAddress(0) error: %v", err)
	}
	if !current.Equal(at0) {
		t.Error("initial current address should sit at index 0")
	}

	next, index, err := account.NewReceiveAddress()
	if err != nil {
		t.Fatalf("NewReceiveAddress() error: %v", err)
	}
	if index != 1 {
		t.Errorf("first NewReceiveAddress index = %d, want 1", index)
	}
	at1, err := account.ReceiveAddress(1)
	if err != nil {
		t.Fatalf("ReceiveAddress(1) error: %v", err)
	}
	if !next.Equal(at1) {
		t.Error("NewReceiveAddress should return the index-1 address")
	}
	if account.ReceiveIndex() != 1 {
		t.Errorf("ReceiveIndex() = %d, want 1", account.ReceiveIndex())
	}

	// Change branch keeps its own cursor.
	if account.ChangeIndex() != 0 {
		t.Errorf("ChangeIndex() = %d, want 0", account.ChangeIndex())
	}
	_, changeIndex, err := account.NewChangeAddress()
	if err != nil {
		t.Fatalf("NewChangeAddress() error: %v", err)
	}
	if changeIndex != 1 {
		t.Errorf("first NewChangeAddress index = %d, want 1", changeIndex)
	}

	// Restoring a tracked position.
	account.SetReceiveIndex(41)
	addr, index, err := account.NewReceiveAddress()
	if err != nil {
		t.Fatalf("NewReceiveAddress() after SetReceiveIndex error: %v", err)
	}
	if index != 42 {
		t.Errorf("index after SetReceiveIndex(41) = %d, want 42", index)
	}
	at42, err := account.ReceiveAddress(42)
	if err != nil {
		t.Fatalf("ReceiveAddress(42) error: %v", err)
	}
	if !addr.Equal(at42) {
		t.Error("cursor address should match direct derivation")
	}
}
