package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// UserStats is the registry's per-wallet engagement view.
type UserStats struct {
	TotalPoints    *big.Int
	TotalUploads   *big.Int
	TotalDownloads *big.Int
}

// UpdateDownloadCount writes the new download total of the given token to
// the ledger. The count is the absolute value the contract stores, not an
// increment. It returns the transaction hash once the transaction
// confirmed.
func (r *Registry) UpdateDownloadCount(ctx context.Context, tokenID, count *big.Int) (string, error) {
	if tokenID == nil || tokenID.Sign() <= 0 {
		return "", fmt.Errorf("token id must be positive")
	}
	if count == nil || count.Sign() <= 0 {
		return "", fmt.Errorf("download count must be positive")
	}

	opts := *r.auth
	opts.Context = ctx

	tx, err := r.contract.Transact(&opts, "updateDownloadCount", tokenID, count)
	if err != nil {
		return "", ClassifyError(err)
	}
	txHash := tx.Hash().Hex()

	receipt, err := waitMined(ctx, r.backend, tx)
	if err != nil {
		return "", fmt.Errorf("confirmation failed for %s: %w", txHash, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("transaction %s reverted on chain", txHash)
	}
	return txHash, nil
}

// GetUserStats reads the engagement counters of a wallet.
func (r *Registry) GetUserStats(ctx context.Context, wallet string) (*UserStats, error) {
	if !common.IsHexAddress(wallet) {
		return nil, fmt.Errorf("invalid wallet address %q", wallet)
	}

	var out []interface{}
	err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getUserStats", common.HexToAddress(wallet))
	if err != nil {
		return nil, err
	}
	if len(out) < 3 {
		return nil, fmt.Errorf("getUserStats returned %d values, want 3", len(out))
	}

	stats := &UserStats{}
	for i, dst := range []**big.Int{&stats.TotalPoints, &stats.TotalUploads, &stats.TotalDownloads} {
		v, ok := out[i].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("getUserStats value %d is %T, want *big.Int", i, out[i])
		}
		*dst = v
	}
	return stats, nil
}

// TokenURI reads the metadata locator of a minted token.
func (r *Registry) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "uri", tokenID); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("uri returned no value")
	}
	uri, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("uri returned %T, want string", out[0])
	}
	return uri, nil
}
