package bridge

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zil-bridge/pkg/gateway"
	"zil-bridge/pkg/types"
)

func TestBuildLockParams(t *testing.T) {
	req := testRequest(t)

	params, err := BuildLockParams(req, testConfig())
	require.NoError(t, err)

	source, err := gateway.ZilAddressFromPrivateKey(testSigner)
	require.NoError(t, err)
	assert.Equal(t, source, params.SourceAddress)
	assert.Equal(t, "1000000000000", params.Amount.String())
	assert.True(t, params.Amount.Equal(params.Amount.Truncate(0)))
	assert.Equal(t, "2000000000", params.GasPrice.String())

	destBytes, err := gateway.SWTHAddressBytes(req.DestAccount)
	require.NoError(t, err)
	assert.Equal(t, destBytes, params.DestAccountBytes)
}

func TestBuildLockParams_SourceAddress(t *testing.T) {
	source, err := gateway.ZilAddressFromPrivateKey(testSigner)
	require.NoError(t, err)
	bech, err := gateway.ZilBech32Address(source)
	require.NoError(t, err)

	for _, addr := range []string{source, "0x" + strings.ToUpper(source), bech} {
		req := testRequest(t)
		req.SourceAddress = addr
		_, err := BuildLockParams(req, testConfig())
		assert.NoError(t, err, addr)
	}

	req := testRequest(t)
	req.SourceAddress = strings.Repeat("ab", 20)
	_, err = BuildLockParams(req, testConfig())
	assert.ErrorContains(t, err, "does not belong to signer")
}

func TestBuildLockParams_Invalid(t *testing.T) {
	cases := map[string]func(cfg *Config, req *types.BridgeRequest){
		"zero amount":       func(_ *Config, req *types.BridgeRequest) { req.Amount = decimal.Zero },
		"too many decimals": func(_ *Config, req *types.BridgeRequest) { req.Amount = decimal.RequireFromString("0.0000000000001") },
		"bad dest account":  func(_ *Config, req *types.BridgeRequest) { req.DestAccount = "swth1xyz" },
		"bad dest address":  func(_ *Config, req *types.BridgeRequest) { req.DestAddress = "0x1234" },
		"bad signer":        func(_ *Config, req *types.BridgeRequest) { req.Signer = "abcd" },
		"no gas limit":      func(cfg *Config, _ *types.BridgeRequest) { cfg.GasLimit = 0 },
		"no gas price":      func(cfg *Config, _ *types.BridgeRequest) { cfg.GasPrice = decimal.Zero },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			req := testRequest(t)
			mutate(&cfg, &req)

			_, err := BuildLockParams(req, cfg)
			assert.Error(t, err)
		})
	}
}

func TestBuildWithdrawRequest(t *testing.T) {
	req := testRequest(t)
	req.WithdrawAmount = decimal.RequireFromString("0.75")

	wreq, err := BuildWithdrawRequest(req, "swth1originator", testConfig())
	require.NoError(t, err)
	assert.Equal(t, "0.75", wreq.Amount)
	assert.Equal(t, "zusd6", wreq.Denom)
	assert.Equal(t, "swth1originator", wreq.Originator)
	assert.Equal(t, "1", wreq.FeeAmount)
	assert.False(t, strings.HasPrefix(wreq.ToAddress, "0x"))

	_, err = BuildWithdrawRequest(req, "", testConfig())
	assert.Error(t, err)
}
