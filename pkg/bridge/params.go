package bridge

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"zil-bridge/pkg/gateway"
	"zil-bridge/pkg/parser"
	"zil-bridge/pkg/types"
)

// DefaultWithdrawSuccessLog is the TradeHub log of an accepted withdrawal
const DefaultWithdrawSuccessLog = "Withdrawal success"

// Config holds the per-deployment values of a bridge run
type Config struct {
	// SourceBlockchain is the indexer's id of the source chain. Defaults to the asset's blockchain.
	SourceBlockchain   string
	GasPrice           decimal.Decimal
	GasLimit           uint64
	FeeAddress         string
	FeeAmount          string
	WithdrawSuccessLog string
}

func (c Config) sourceChain(asset types.Asset) string {
	if c.SourceBlockchain != "" {
		return c.SourceBlockchain
	}
	return asset.Blockchain
}

// BuildLockParams derives the lock call of a request
func BuildLockParams(req types.BridgeRequest, cfg Config) (types.LockParams, error) {
	if err := parser.ValidateBridgeRequest(&req); err != nil {
		return types.LockParams{}, err
	}
	if cfg.GasLimit == 0 {
		return types.LockParams{}, fmt.Errorf("gas limit is required")
	}
	if !cfg.GasPrice.IsPositive() {
		return types.LockParams{}, fmt.Errorf("gas price must be greater than 0")
	}

	destBytes, err := gateway.SWTHAddressBytes(req.DestAccount)
	if err != nil {
		return types.LockParams{}, err
	}
	if _, err := gateway.ChecksumDestAddress(req.DestAddress); err != nil {
		return types.LockParams{}, err
	}

	source, err := gateway.ZilAddressFromPrivateKey(req.Signer)
	if err != nil {
		return types.LockParams{}, err
	}
	if req.SourceAddress != "" {
		given, err := gateway.ZilBase16Address(req.SourceAddress)
		if err != nil {
			return types.LockParams{}, err
		}
		if given != source {
			return types.LockParams{}, fmt.Errorf("source address %s does not belong to signer", req.SourceAddress)
		}
	}

	raw := req.Amount.Shift(req.Asset.Decimals)
	if !raw.Equal(raw.Truncate(0)) {
		return types.LockParams{}, fmt.Errorf("amount %s is not representable with %d decimals", req.Amount, req.Asset.Decimals)
	}

	asset := req.Asset
	asset.LockProxyHash = strings.ToLower(strings.TrimPrefix(asset.LockProxyHash, "0x"))
	if asset.Originator == "" {
		asset.Originator = req.DestAccount
	}

	return types.LockParams{
		DestAccountBytes: destBytes,
		Amount:           raw.Truncate(0),
		Asset:            asset,
		GasPrice:         cfg.GasPrice,
		GasLimit:         cfg.GasLimit,
		SourceAddress:    source,
		Signer:           req.Signer,
	}, nil
}

// BuildWithdrawRequest derives the withdrawal of a request for the session originator
func BuildWithdrawRequest(req types.BridgeRequest, originator string, cfg Config) (types.WithdrawRequest, error) {
	to, err := gateway.ChecksumDestAddress(req.DestAddress)
	if err != nil {
		return types.WithdrawRequest{}, err
	}
	if originator == "" {
		return types.WithdrawRequest{}, fmt.Errorf("withdraw originator is required")
	}

	amount := req.WithdrawAmount
	if amount.IsZero() {
		amount = req.Amount
	}

	return types.WithdrawRequest{
		Amount:     amount.String(),
		Denom:      req.WithdrawDenom,
		FeeAddress: cfg.FeeAddress,
		FeeAmount:  cfg.FeeAmount,
		Originator: originator,
		ToAddress:  to,
	}, nil
}
