// Package chain binds the content registry contract on Base Sepolia: the
// mint transaction, token-id resolution, and the engagement read/write
// surface.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Timi16/dehug-go/internal/logging"
)

const (
	// ChainID identifies the Base Sepolia testnet.
	ChainID int64 = 84532

	// DefaultRPCURL is the public Base Sepolia RPC endpoint.
	DefaultRPCURL = "https://sepolia.base.org"

	// ExplorerBaseURL is the ledger explorer for the chain.
	ExplorerBaseURL = "https://sepolia.basescan.org"
)

// registryABI covers the slice of the registry contract this module calls.
const registryABI = `[
  {"type":"function","name":"uploadContent","stateMutability":"nonpayable",
   "inputs":[{"name":"_contentType","type":"uint8"},{"name":"_ipfsHash","type":"string"},
             {"name":"_metadataIPFSHash","type":"string"},{"name":"_imageIPFSHash","type":"string"},
             {"name":"_title","type":"string"},{"name":"_tags","type":"string[]"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getLatestTokenId","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"updateDownloadCount","stateMutability":"nonpayable",
   "inputs":[{"name":"_tokenId","type":"uint256"},{"name":"_downloadCount","type":"uint256"}],
   "outputs":[]},
  {"type":"function","name":"getUserStats","stateMutability":"view",
   "inputs":[{"name":"_user","type":"address"}],
   "outputs":[{"name":"totalPoints","type":"uint256"},{"name":"totalUploads","type":"uint256"},
              {"name":"totalDownloads","type":"uint256"}]},
  {"type":"function","name":"uri","stateMutability":"view",
   "inputs":[{"name":"_id","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"event","name":"ContentUploaded","anonymous":false,
   "inputs":[{"name":"tokenId","type":"uint256","indexed":true},
             {"name":"uploader","type":"address","indexed":true},
             {"name":"contentType","type":"uint8","indexed":false},
             {"name":"ipfsHash","type":"string","indexed":false},
             {"name":"title","type":"string","indexed":false}]},
  {"type":"event","name":"TransferSingle","anonymous":false,
   "inputs":[{"name":"operator","type":"address","indexed":true},
             {"name":"from","type":"address","indexed":true},
             {"name":"to","type":"address","indexed":true},
             {"name":"id","type":"uint256","indexed":false},
             {"name":"value","type":"uint256","indexed":false}]}
]`

var (
	contentUploadedTopic = crypto.Keccak256Hash([]byte("ContentUploaded(uint256,address,uint8,string,string)"))
	transferSingleTopic  = crypto.Keccak256Hash([]byte("TransferSingle(address,address,address,uint256,uint256)"))
	zeroAddressTopic     = common.Hash{}
)

// ExplorerTxURL builds the explorer link for a transaction hash.
func ExplorerTxURL(txHash string) string {
	return ExplorerBaseURL + "/tx/" + txHash
}

// boundContract is the slice of bind.BoundContract the registry uses.
type boundContract interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// Registry is a signing client of the content registry contract.
type Registry struct {
	contract boundContract
	backend  bind.DeployBackend
	address  common.Address
	auth     *bind.TransactOpts
	log      logging.Logger
}

// RegistryOptions configures a Registry connection.
type RegistryOptions struct {
	RPCURL          string
	ChainID         int64
	ContractAddress string
	SignerKeyHex    string // secp256k1 private key, hex without 0x prefix
}

// NewRegistry dials the RPC endpoint and binds the registry contract with a
// keyed transactor.
func NewRegistry(ctx context.Context, opts RegistryOptions, log logging.Logger) (*Registry, error) {
	if !common.IsHexAddress(opts.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", opts.ContractAddress)
	}
	rpcURL := opts.RPCURL
	if rpcURL == "" {
		rpcURL = DefaultRPCURL
	}
	chainID := opts.ChainID
	if chainID == 0 {
		chainID = ChainID
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.SignerKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainID))
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}

	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("parse registry abi: %w", err)
	}

	address := common.HexToAddress(opts.ContractAddress)
	return &Registry{
		contract: bind.NewBoundContract(address, parsed, client, client, client),
		backend:  client,
		address:  address,
		auth:     auth,
		log:      log,
	}, nil
}

// SignerAddress is the wallet address the transactor signs with.
func (r *Registry) SignerAddress() string {
	return r.auth.From.Hex()
}
