package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Timi16/dehug-go/internal/flagx"
	"github.com/Timi16/dehug-go/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so timeouts can be specified either as strings like
// "10s" or as integer nanoseconds. Secrets are deliberately absent; they
// belong in the environment.
type JsonConfig struct {
	RPCURL          string   `json:"rpc_url"`
	ChainID         int64    `json:"chain_id"`
	ContractAddress string   `json:"contract_address"`
	StorageBackend  string   `json:"storage_backend"`
	PinataBaseURL   string   `json:"pinata_base_url"`
	FilebaseBucket  string   `json:"filebase_bucket"`
	Gateways        []string `json:"gateways"`

	GatewayTimeout timex.Duration `json:"gateway_timeout"`

	TrackerURL string `json:"tracker_url"`
}

// parseJson overlays Config with values loaded from a JSON file selected
// via -c or -config. Missing file path means no JSON is loaded. Read or
// unmarshal errors panic; the caller owns recovery.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RPCURL != "" {
		cfg.RPCURL = jc.RPCURL
	}
	if jc.ChainID != 0 {
		cfg.ChainID = jc.ChainID
	}
	if jc.ContractAddress != "" {
		cfg.ContractAddress = jc.ContractAddress
	}
	if jc.StorageBackend != "" {
		cfg.StorageBackend = jc.StorageBackend
	}
	if jc.PinataBaseURL != "" {
		cfg.PinataBaseURL = jc.PinataBaseURL
	}
	if jc.FilebaseBucket != "" {
		cfg.FilebaseBucket = jc.FilebaseBucket
	}
	if len(jc.Gateways) > 0 {
		cfg.Gateways = jc.Gateways
	}
	if jc.GatewayTimeout.Duration != 0 {
		cfg.GatewayTimeout = time.Duration(jc.GatewayTimeout.Duration)
	}
	if jc.TrackerURL != "" {
		cfg.TrackerURL = jc.TrackerURL
	}
}
