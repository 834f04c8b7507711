package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Timi16/dehug-go/internal/upload"
)

// waitMined is swappable in tests.
var waitMined = bind.WaitMined

// Mint registers content on the ledger: submit uploadContent, wait for the
// receipt, then resolve the freshly minted token id. A confirmed receipt is
// always reported as a result, even when no resolution strategy finds the
// id; the explorer link stands in for it then.
func (r *Registry) Mint(ctx context.Context, p upload.MintParams) (*upload.MintResult, error) {
	if err := checkMintParams(p); err != nil {
		return nil, err
	}

	opts := *r.auth
	opts.Context = ctx

	tx, err := r.contract.Transact(&opts, "uploadContent",
		p.ContentTypeCode, p.PayloadRef, p.MetadataRef, p.ImageRef, p.Title, p.Tags)
	if err != nil {
		return nil, ClassifyError(err)
	}
	txHash := tx.Hash().Hex()
	r.log.Info(ctx, "transaction sent, waiting for confirmation", "tx", txHash)

	receipt, err := waitMined(ctx, r.backend, tx)
	if err != nil {
		return nil, &MintFailure{
			Kind:   FailureRPC,
			Reason: fmt.Sprintf("Transaction %s was sent but confirmation failed: %v", txHash, err),
			Err:    err,
		}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &MintFailure{
			Kind:   FailureRevert,
			Reason: fmt.Sprintf("Transaction %s reverted on chain.", txHash),
		}
	}

	res := r.resolveTokenID(ctx, receipt)
	return &upload.MintResult{
		TxHash:      txHash,
		TokenID:     res.TokenID,
		Resolved:    res.Resolved,
		ExplorerURL: ExplorerTxURL(txHash),
	}, nil
}

// checkMintParams mirrors the contract's own require messages so an
// obviously doomed transaction never spends gas.
func checkMintParams(p upload.MintParams) error {
	switch {
	case strings.TrimSpace(p.PayloadRef) == "":
		return &MintFailure{Kind: FailureRevert, Reason: "IPFS hash is required."}
	case strings.TrimSpace(p.MetadataRef) == "":
		return &MintFailure{Kind: FailureRevert, Reason: "Metadata IPFS hash is required."}
	case strings.TrimSpace(p.Title) == "":
		return &MintFailure{Kind: FailureRevert, Reason: "Title is required."}
	}
	return nil
}
