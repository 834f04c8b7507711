package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Resolution is the outcome of the token-id lookup after a confirmed mint.
type Resolution struct {
	TokenID  string
	Resolved bool
}

// resolveTokenID determines the id of the token the confirmed receipt
// minted. Strategies run in order, each failure logged and swallowed:
// the getLatestTokenId read, the totalSupply read (ids are sequential),
// then the receipt's own logs. A zero id from any strategy counts as a
// miss. An empty Resolution is not an error; the mint already happened.
func (r *Registry) resolveTokenID(ctx context.Context, receipt *types.Receipt) Resolution {
	if id, err := r.readUint(ctx, "getLatestTokenId"); err != nil {
		r.log.Warn(ctx, "getLatestTokenId failed, trying next strategy", "error", err.Error())
	} else if id.Sign() > 0 {
		return Resolution{TokenID: id.String(), Resolved: true}
	}

	if id, err := r.readUint(ctx, "totalSupply"); err != nil {
		r.log.Warn(ctx, "totalSupply failed, trying next strategy", "error", err.Error())
	} else if id.Sign() > 0 {
		return Resolution{TokenID: id.String(), Resolved: true}
	}

	if id := tokenIDFromLogs(receipt, r.address); id != nil && id.Sign() > 0 {
		return Resolution{TokenID: id.String(), Resolved: true}
	}

	r.log.Warn(ctx, "token id unresolved after all strategies", "tx", receipt.TxHash.Hex())
	return Resolution{}
}

func (r *Registry) readUint(ctx context.Context, method string) (*big.Int, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, method); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no value", method)
	}
	id, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, want *big.Int", method, out[0])
	}
	return id, nil
}

// tokenIDFromLogs scans a receipt for the registry's mint events. The
// ContentUploaded event carries the id as its first indexed topic; the
// ERC-1155 TransferSingle mint (from the zero address) carries it in the
// first word of the data payload.
func tokenIDFromLogs(receipt *types.Receipt, contract common.Address) *big.Int {
	for _, lg := range receipt.Logs {
		if lg.Address != contract || len(lg.Topics) == 0 {
			continue
		}
		if lg.Topics[0] == contentUploadedTopic && len(lg.Topics) > 1 {
			return lg.Topics[1].Big()
		}
	}
	for _, lg := range receipt.Logs {
		if lg.Address != contract || len(lg.Topics) < 3 {
			continue
		}
		if lg.Topics[0] == transferSingleTopic && lg.Topics[2] == zeroAddressTopic && len(lg.Data) >= 32 {
			return new(big.Int).SetBytes(lg.Data[:32])
		}
	}
	return nil
}
