// kwaddr prints the first receive and change addresses of an account
// extended private key.
// Usage: kwaddr <xprv> [count]
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashdag-labs/walletcore/internal/hdkeys"
	"github.com/hashdag-labs/walletcore/internal/log"
	"github.com/hashdag-labs/walletcore/internal/wallet"
)

const defaultCount = 10

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: kwaddr <xprv> [count]")
		os.Exit(1)
	}
	serialized := strings.TrimSpace(os.Args[1])

	count := uint32(defaultCount)
	if len(os.Args) > 2 {
		n, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil || n == 0 {
			fmt.Fprintf(os.Stderr, "invalid count %q\n", os.Args[2])
			os.Exit(1)
		}
		count = uint32(n)
	}

	// The version bytes of the key decide the network.
	key, err := hdkeys.Decode(serialized)
	if err != nil {
		log.Wallet.Error().Err(err).Msg("decode extended key")
		os.Exit(1)
	}
	wallet.Init(key.Params())

	account, err := wallet.FromExtendedPrivateKey(serialized)
	if err != nil {
		log.Wallet.Error().Err(err).Msg("open account")
		os.Exit(1)
	}

	receive, err := account.ReceiveAddresses(0, count)
	if err != nil {
		log.Wallet.Error().Err(err).Msg("derive receive addresses")
		os.Exit(1)
	}
	change, err := account.ChangeAddresses(0, count)
	if err != nil {
		log.Wallet.Error().Err(err).Msg("derive change addresses")
		os.Exit(1)
	}

	fmt.Printf("network: %s\n\nreceive:\n", key.Params().Name)
	for i, addr := range receive {
		fmt.Printf("  %4d  %s\n", i, addr)
	}
	fmt.Println("\nchange:")
	for i, addr := range change {
		fmt.Printf("  %4d  %s\n", i, addr)
	}
}
