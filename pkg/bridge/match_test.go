package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zil-bridge/pkg/asset"
	"zil-bridge/pkg/types"
)

func TestDepositMatcher(t *testing.T) {
	params := types.LockParams{Asset: asset.NativeZIL()}
	match := DepositMatcher("zil", params, "1")

	assert.True(t, match(*depositRecord()))

	mutations := []func(r *types.TransferRecord){
		func(r *types.TransferRecord) { r.TransferType = types.TransferTypeWithdrawal },
		func(r *types.TransferRecord) { r.Blockchain = "zil2" },
		func(r *types.TransferRecord) { r.ContractHash = "b5484b227f35f5e192e444146a3d9e09f4cdad80" },
		func(r *types.TransferRecord) { r.Denom = "zusd6" },
		func(r *types.TransferRecord) { r.Status = "confirming" },
		func(r *types.TransferRecord) { r.Amount = "1000000000000" },
	}
	for i, mutate := range mutations {
		rec := depositRecord()
		mutate(rec)
		assert.False(t, match(*rec), "mutation %d must not match", i)
	}
}

func TestDepositMatcher_ProxyHashPrefix(t *testing.T) {
	params := types.LockParams{Asset: asset.NativeZIL()}
	params.Asset.LockProxyHash = "0x" + params.Asset.LockProxyHash

	assert.True(t, DepositMatcher("zil", params, "1")(*depositRecord()))
}

func TestWithdrawalMatcher(t *testing.T) {
	match := WithdrawalMatcher("zil", "zusd6")
	assert.True(t, match(*withdrawalRecord()))

	// amount is not part of the withdrawal check
	rec := withdrawalRecord()
	rec.Amount = "42"
	assert.True(t, match(*rec))

	mutations := []func(r *types.TransferRecord){
		func(r *types.TransferRecord) { r.TransferType = types.TransferTypeDeposit },
		func(r *types.TransferRecord) { r.Blockchain = "eth" },
		func(r *types.TransferRecord) { r.Denom = "zil" },
		func(r *types.TransferRecord) { r.Status = "success" },
	}
	for i, mutate := range mutations {
		rec := withdrawalRecord()
		mutate(rec)
		assert.False(t, match(*rec), "mutation %d must not match", i)
	}
}

func TestWithdrawAccepted(t *testing.T) {
	assert.False(t, withdrawAccepted(nil, DefaultWithdrawSuccessLog))
	assert.False(t, withdrawAccepted(&types.WithdrawResponse{}, DefaultWithdrawSuccessLog))
	assert.True(t, withdrawAccepted(&types.WithdrawResponse{
		Logs: []types.WithdrawLog{{Log: "Withdrawal success"}},
	}, DefaultWithdrawSuccessLog))
}
