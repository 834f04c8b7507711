package chain

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

type rpcError struct {
	msg  string
	data interface{}
}

func (e *rpcError) Error() string          { return e.msg }
func (e *rpcError) ErrorData() interface{} { return e.data }

func encodeRevert(t *testing.T, reason string) string {
	t.Helper()
	strType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: strType}}.Pack(reason)
	require.NoError(t, err)
	selector := []byte{0x08, 0xc3, 0x79, 0xa0} // Error(string)
	return hexutil.Encode(append(selector, packed...))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   FailureKind
		reason string
	}{
		{
			name:   "user rejected",
			err:    errors.New("user rejected transaction"),
			kind:   FailureUserRejected,
			reason: "Transaction was rejected in the wallet.",
		},
		{
			name:   "insufficient funds",
			err:    errors.New("insufficient funds for gas * price + value"),
			kind:   FailureInsufficientFunds,
			reason: "Insufficient funds for gas. Please add more ETH to your wallet.",
		},
		{
			name:   "known revert gets guidance",
			err:    &rpcError{msg: "execution reverted", data: encodeRevert(t, "Content already exists")},
			kind:   FailureRevert,
			reason: "This content has already been uploaded.",
		},
		{
			name:   "empty title revert",
			err:    &rpcError{msg: "execution reverted", data: encodeRevert(t, "Title cannot be empty")},
			kind:   FailureRevert,
			reason: "Title is required.",
		},
		{
			name:   "unowned download update revert",
			err:    &rpcError{msg: "execution reverted", data: encodeRevert(t, "Not owner")},
			kind:   FailureRevert,
			reason: "Only the content owner can update download count.",
		},
		{
			name:   "unknown revert passes through verbatim",
			err:    &rpcError{msg: "execution reverted", data: encodeRevert(t, "Upload quota exceeded")},
			kind:   FailureRevert,
			reason: "Upload quota exceeded",
		},
		{
			name:   "plain rpc error",
			err:    errors.New("connection refused"),
			kind:   FailureRPC,
			reason: "Transaction failed: connection refused",
		},
		{
			name:   "revert without data is rpc",
			err:    &rpcError{msg: "execution reverted"},
			kind:   FailureRPC,
			reason: "Transaction failed: execution reverted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ClassifyError(tt.err)
			require.NotNil(t, f)
			require.Equal(t, tt.kind, f.Kind)
			require.Equal(t, tt.reason, f.Reason)
			require.ErrorIs(t, f, tt.err)
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	require.Nil(t, ClassifyError(nil))
}

func TestFailureKind_String(t *testing.T) {
	require.Equal(t, "user-rejected", FailureUserRejected.String())
	require.Equal(t, "insufficient-funds", FailureInsufficientFunds.String())
	require.Equal(t, "revert", FailureRevert.String())
	require.Equal(t, "rpc", FailureRPC.String())
}
