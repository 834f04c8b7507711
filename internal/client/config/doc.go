// Package config loads runtime configuration for the DeHug CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables, with an optional .env file (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Secrets (the signer key, Pinata and Filebase credentials) are read only
// from the environment, never from JSON or flags, so a shared config file
// stays safe to commit.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be
// either strings like "10s" or integer nanoseconds:
//
//	{
//	  "rpc_url": "https://sepolia.base.org",
//	  "chain_id": 84532,
//	  "contract_address": "0x...",
//	  "storage_backend": "pinata",
//	  "gateways": ["https://gateway.pinata.cloud/ipfs/"],
//	  "gateway_timeout": "10s",
//	  "tracker_url": "http://localhost:8000"
//	}
package config
