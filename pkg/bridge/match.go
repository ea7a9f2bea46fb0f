package bridge

import (
	"strings"

	"zil-bridge/pkg/types"
)

// Transfer statuses reported by the indexer
const (
	StatusTransferSuccess    = "success"
	StatusTransferConfirming = "confirming"
)

// DepositMatcher accepts the deposit record of a lock. Every field must match exactly.
func DepositMatcher(sourceChain string, params types.LockParams, amount string) Predicate {
	contractHash := strings.TrimPrefix(params.Asset.LockProxyHash, "0x")
	denom := params.Asset.Denom

	return func(rec types.TransferRecord) bool {
		return rec.TransferType == types.TransferTypeDeposit &&
			rec.Blockchain == sourceChain &&
			rec.ContractHash == contractHash &&
			rec.Denom == denom &&
			rec.Status == StatusTransferSuccess &&
			rec.Amount == amount
	}
}

// WithdrawalMatcher accepts a withdrawal of denom that the indexer reports as confirming
func WithdrawalMatcher(sourceChain, denom string) Predicate {
	return func(rec types.TransferRecord) bool {
		return rec.TransferType == types.TransferTypeWithdrawal &&
			rec.Blockchain == sourceChain &&
			rec.Denom == denom &&
			rec.Status == StatusTransferConfirming
	}
}

// withdrawAccepted checks the first message log against the success sentinel
func withdrawAccepted(resp *types.WithdrawResponse, sentinel string) bool {
	return resp != nil && len(resp.Logs) > 0 && resp.Logs[0].Log == sentinel
}
