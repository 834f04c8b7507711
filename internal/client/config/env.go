package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it, which is godotenv's default.
//
// Recognized variables:
//
//	DEHUG_RPC_URL            ledger RPC endpoint
//	DEHUG_CHAIN_ID           numeric chain id
//	DEHUG_ADDRESS            content registry contract address
//	DEHUG_SIGNER_KEY         hex private key of the uploader wallet
//	DEHUG_STORAGE_BACKEND    "pinata" or "filebase"
//	DEHUG_TRACKER_URL        download tracker endpoint
//	PINATA_JWT               Pinata bearer token
//	PINATA_API_KEY           legacy Pinata key pair
//	PINATA_SECRET_API_KEY
//	PINATA_GATEWAY_URL       dedicated Pinata gateway
//	FILEBASE_ACCESS_KEY      Filebase S3 credentials
//	FILEBASE_SECRET_KEY
//	FILEBASE_BUCKET
func parseEnv(cfg *Config) {
	godotenv.Load()

	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString(&cfg.RPCURL, "DEHUG_RPC_URL")
	setString(&cfg.ContractAddress, "DEHUG_ADDRESS")
	setString(&cfg.SignerKey, "DEHUG_SIGNER_KEY")
	setString(&cfg.StorageBackend, "DEHUG_STORAGE_BACKEND")
	setString(&cfg.TrackerURL, "DEHUG_TRACKER_URL")
	setString(&cfg.PinataJWT, "PINATA_JWT")
	setString(&cfg.PinataAPIKey, "PINATA_API_KEY")
	setString(&cfg.PinataSecretKey, "PINATA_SECRET_API_KEY")
	setString(&cfg.PinataGatewayURL, "PINATA_GATEWAY_URL")
	setString(&cfg.FilebaseAccessKey, "FILEBASE_ACCESS_KEY")
	setString(&cfg.FilebaseSecretKey, "FILEBASE_SECRET_KEY")
	setString(&cfg.FilebaseBucket, "FILEBASE_BUCKET")

	if v, ok := os.LookupEnv("DEHUG_CHAIN_ID"); ok && v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.ChainID = id
		}
	}
}
