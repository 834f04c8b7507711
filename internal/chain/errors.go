package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FailureKind partitions mint failures by what the caller should do next.
type FailureKind int

const (
	// FailureRPC covers transport and node errors; retrying later may help.
	FailureRPC FailureKind = iota
	// FailureUserRejected means the signer declined the transaction.
	FailureUserRejected
	// FailureInsufficientFunds means the wallet cannot cover gas.
	FailureInsufficientFunds
	// FailureRevert means the contract rejected the call.
	FailureRevert
)

func (k FailureKind) String() string {
	switch k {
	case FailureUserRejected:
		return "user-rejected"
	case FailureInsufficientFunds:
		return "insufficient-funds"
	case FailureRevert:
		return "revert"
	default:
		return "rpc"
	}
}

// MintFailure is a classified ledger error. Reason is the user-facing
// message; Err keeps the raw cause for logs.
type MintFailure struct {
	Kind   FailureKind
	Reason string
	Err    error
}

func (e *MintFailure) Error() string { return e.Reason }
func (e *MintFailure) Unwrap() error { return e.Err }

// knownReverts maps contract revert reasons onto user-facing guidance.
var knownReverts = map[string]string{
	"Content already exists":             "This content has already been uploaded.",
	"Title cannot be empty":              "Title is required.",
	"IPFS hash cannot be empty":          "IPFS hash is required.",
	"Metadata IPFS hash cannot be empty": "Metadata IPFS hash is required.",
	"Token does not exist":               "Content not found.",
	"Content is not active":              "Content is no longer active.",
	"Not owner":                          "Only the content owner can update download count.",
}

// dataError is the shape go-ethereum RPC errors expose revert payloads in.
type dataError interface {
	Error() string
	ErrorData() interface{}
}

// ClassifyError folds a raw submission error into a MintFailure. Unknown
// revert reasons pass through verbatim so nothing the contract says is
// hidden from the user.
func ClassifyError(err error) *MintFailure {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "user rejected") || strings.Contains(msg, "user denied"):
		return &MintFailure{Kind: FailureUserRejected, Reason: "Transaction was rejected in the wallet.", Err: err}
	case strings.Contains(msg, "insufficient funds"):
		return &MintFailure{Kind: FailureInsufficientFunds, Reason: "Insufficient funds for gas. Please add more ETH to your wallet.", Err: err}
	}

	if reason, ok := revertReason(err); ok {
		if friendly, known := knownReverts[reason]; known {
			return &MintFailure{Kind: FailureRevert, Reason: friendly, Err: err}
		}
		return &MintFailure{Kind: FailureRevert, Reason: reason, Err: err}
	}

	return &MintFailure{Kind: FailureRPC, Reason: fmt.Sprintf("Transaction failed: %s", msg), Err: err}
}

// revertReason extracts the Error(string) payload from an RPC error, when
// the node attached one.
func revertReason(err error) (string, bool) {
	var de dataError
	if !errors.As(err, &de) {
		return "", false
	}

	var raw []byte
	switch data := de.ErrorData().(type) {
	case string:
		b, decodeErr := hexutil.Decode(data)
		if decodeErr != nil {
			return "", false
		}
		raw = b
	case []byte:
		raw = data
	default:
		return "", false
	}

	reason, unpackErr := abi.UnpackRevert(raw)
	if unpackErr != nil {
		return "", false
	}
	return reason, true
}
