// Package wallet composes key decoding, child derivation, and address
// encoding into the account-level API: ingest an extended key, list
// receive and change addresses.
package wallet

import (
	"sync"

	"github.com/hashdag-labs/walletcore/internal/log"
	"github.com/hashdag-labs/walletcore/pkg/netparams"
)

var (
	initOnce     sync.Once
	activeParams = &netparams.Mainnet
)

// Init selects the process-wide network parameters. It must run before
// accounts are constructed; calling it again is a no-op. When Init is
// never called, mainnet parameters apply.
func Init(params *netparams.Params) {
	initOnce.Do(func() {
		activeParams = params
		log.Wallet.Debug().Str("network", params.Name).Msg("network parameters selected")
	})
}

// ActiveParams returns the process-wide network parameters.
func ActiveParams() *netparams.Params {
	return activeParams
}
