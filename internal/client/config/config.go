package config

import "time"

// Config holds runtime settings for the DeHug CLI.
//
// Fields:
//   - RPCURL / ChainID / ContractAddress: the ledger endpoint and the
//     content registry the client mints against.
//   - SignerKey: hex private key of the uploader wallet. Usually left
//     empty here and supplied interactively or via DEHUG_SIGNER_KEY.
//   - StorageBackend: "pinata" or "filebase".
//   - Gateways / GatewayTimeout: retrieval fallback chain and per-gateway
//     attempt budget.
//   - TrackerURL: optional download-tracker endpoint; empty disables
//     tracking calls.
type Config struct {
	RPCURL          string
	ChainID         int64
	ContractAddress string
	SignerKey       string

	StorageBackend string

	PinataBaseURL    string
	PinataJWT        string
	PinataAPIKey     string
	PinataSecretKey  string
	PinataGatewayURL string

	FilebaseAccessKey string
	FilebaseSecretKey string
	FilebaseBucket    string
	FilebaseEndpoint  string

	Gateways       []string
	GatewayTimeout time.Duration

	TrackerURL string
}

// LoadDefaults populates c with sensible defaults. Secrets have no
// defaults; they come from the environment or flags.
func (c *Config) LoadDefaults() {
	c.RPCURL = "https://sepolia.base.org"
	c.ChainID = 84532
	c.StorageBackend = "pinata"
	c.PinataBaseURL = "https://api.pinata.cloud"
	c.PinataGatewayURL = "https://gateway.pinata.cloud/ipfs/"
	c.FilebaseEndpoint = "https://s3.filebase.com"
	c.Gateways = []string{
		"https://gateway.pinata.cloud/ipfs/",
		"https://ipfs.io/ipfs/",
		"https://cloudflare-ipfs.com/ipfs/",
	}
	c.GatewayTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
