package config

import (
	"flag"
	"os"
	"time"

	"github.com/Timi16/dehug-go/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-r string   ledger RPC endpoint
//	-d string   content registry contract address
//	-s string   storage backend: pinata or filebase
//	-t int      per-gateway retrieval timeout in seconds
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-d", "-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RPCURL, "r", cfg.RPCURL, "ledger RPC endpoint")
	fs.StringVar(&cfg.ContractAddress, "d", cfg.ContractAddress, "content registry contract address")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend (pinata or filebase)")
	gatewayTimeout := fs.Int("t", int(cfg.GatewayTimeout.Seconds()), "per-gateway retrieval timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.GatewayTimeout = time.Duration(*gatewayTimeout) * time.Second
}
