package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/Timi16/dehug-go/internal/chain"
	"github.com/Timi16/dehug-go/internal/client/config"
	"github.com/Timi16/dehug-go/internal/logging"
	"github.com/Timi16/dehug-go/internal/storage"
	"github.com/Timi16/dehug-go/internal/upload"
)

// ledger is the slice of chain.Registry the commands use. Tests swap in a
// fake.
type ledger interface {
	upload.Minter
	UpdateDownloadCount(ctx context.Context, tokenID, count *big.Int) (string, error)
	GetUserStats(ctx context.Context, wallet string) (*chain.UserStats, error)
	TokenURI(ctx context.Context, tokenID *big.Int) (string, error)
	SignerAddress() string
}

// tokenChecker is implemented by backends whose credentials can expire
// ahead of a long upload.
type tokenChecker interface {
	CheckToken(now time.Time) error
}

// tokenExpirer exposes the credential expiry instant so the CLI can warn
// before it lapses mid-upload.
type tokenExpirer interface {
	TokenExpiresAt() (time.Time, error)
}

// App is the interactive DeHug CLI.
type App struct {
	config  *config.Config
	storage upload.Storage
	fetcher *storage.Fetcher
	ledger  ledger
	tracker *trackerClient
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	backend, err := buildStorage(c)
	if err != nil {
		return nil, err
	}

	var tracker *trackerClient
	if c.TrackerURL != "" {
		tracker = newTrackerClient(c.TrackerURL)
	}

	return &App{
		config:  c,
		storage: backend,
		fetcher: storage.NewFetcher(c.Gateways, c.GatewayTimeout, log),
		tracker: tracker,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// buildStorage selects the configured decentralized-storage backend.
func buildStorage(c *config.Config) (upload.Storage, error) {
	switch c.StorageBackend {
	case "", "pinata":
		return storage.NewPinata(storage.PinataOptions{
			BaseURL:    c.PinataBaseURL,
			JWT:        c.PinataJWT,
			APIKey:     c.PinataAPIKey,
			SecretKey:  c.PinataSecretKey,
			GatewayURL: c.PinataGatewayURL,
		})
	case "filebase":
		return storage.NewFilebase(context.Background(), storage.FilebaseOptions{
			AccessKey: c.FilebaseAccessKey,
			SecretKey: c.FilebaseSecretKey,
			Bucket:    c.FilebaseBucket,
			Endpoint:  c.FilebaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want pinata or filebase)", c.StorageBackend)
	}
}

// ensureLedger binds the registry contract on first use. The signer key
// comes from the environment when set, otherwise it is prompted without
// echo so it never lands in shell history.
func (a *App) ensureLedger(ctx context.Context) error {
	if a.ledger != nil {
		return nil
	}

	key := a.config.SignerKey
	if key == "" {
		pw, err := GetPassword(a.out, "Enter wallet private key (hex): ")
		if err != nil {
			return err
		}
		key = strings.TrimSpace(string(pw))
	}

	reg, err := chain.NewRegistry(ctx, chain.RegistryOptions{
		RPCURL:          a.config.RPCURL,
		ChainID:         a.config.ChainID,
		ContractAddress: a.config.ContractAddress,
		SignerKeyHex:    key,
	}, a.log)
	if err != nil {
		return err
	}
	a.ledger = reg
	fmt.Fprintf(a.out, "Connected as %s\n", reg.SignerAddress())
	return nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
