package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
zilliqa:
  rpc_url: http://localhost:4201
  private_key: e19d05c5452598e24caad4a0d85a49146f7be089515c905ae6a19e8a578a6930
tradehub:
  mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
  account: swth1pacamg4ey0nx6mrhr7qyhfj0g3pw359cnjyv6d
bridge:
  poll_attempts: 5
  poll_interval: 500ms
tokens:
  - name: Zilliqa
    symbol: ZIL
    denom: zil
    decimals: 12
    blockchain: zil
    chain_id: 110
    asset_id: "0000000000000000000000000000000000000000"
    lock_proxy_hash: a5484b227f35f5e192e444146a3d9e09f4cdad80
    is_active: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4201", cfg.Zilliqa.RPCURL)
	assert.Equal(t, uint32(333), cfg.Zilliqa.ChainID)
	assert.Equal(t, uint64(25000), cfg.Zilliqa.GasLimit)
	assert.Equal(t, time.Second, cfg.Zilliqa.ConfirmInterval)
	assert.Equal(t, "switcheochain", cfg.TradeHub.ChainID)
	assert.Equal(t, 5, cfg.Bridge.PollAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Bridge.PollInterval)
	assert.Equal(t, "Withdrawal success", cfg.Bridge.WithdrawSuccessLog)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.Len(t, cfg.Tokens, 1)
	assert.Equal(t, "ZIL", cfg.Tokens[0].Symbol)
	assert.Equal(t, int32(12), cfg.Tokens[0].Decimals)
	assert.True(t, cfg.Tokens[0].IsActive)

	assert.NoError(t, cfg.ValidateForBridge())
}

func TestLoadFile_EnvOverride(t *testing.T) {
	t.Setenv("ZIL_BRIDGE_BRIDGE_POLL_ATTEMPTS", "7")
	t.Setenv("ZIL_BRIDGE_ZILLIQA_PRIVATE_KEY", "deadbeef")

	cfg, err := LoadFile(writeConfig(t, testConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Bridge.PollAttempts)
	assert.Equal(t, "deadbeef", cfg.Zilliqa.PrivateKey)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Bridge.PollAttempts)
	assert.Equal(t, 2*time.Second, cfg.Bridge.PollInterval)
	assert.Equal(t, "zusd6", cfg.Bridge.WithdrawDenom)
	assert.Empty(t, cfg.Tokens)

	assert.ErrorContains(t, cfg.ValidateForBridge(), "private key")
	assert.NoError(t, cfg.ValidatePolling())
}

func TestValidatePolling(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	cfg.Bridge.PollAttempts = 0
	assert.ErrorContains(t, cfg.ValidatePolling(), "poll_attempts")

	cfg.Bridge.PollAttempts = 1
	cfg.Bridge.PollInterval = -time.Second
	assert.ErrorContains(t, cfg.ValidatePolling(), "poll_interval")

	cfg.Bridge.PollInterval = 0
	cfg.Bridge.WithdrawSuccessLog = ""
	assert.ErrorContains(t, cfg.ValidatePolling(), "withdraw_success_log")
}
