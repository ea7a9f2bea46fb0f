package gateway

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"zil-bridge/pkg/client"
	"zil-bridge/pkg/types"
)

// nativeAssetID is the asset id of native ZIL in the lock proxy
const nativeAssetID = "0000000000000000000000000000000000000000"

// ZilliqaRPC is the subset of the Zilliqa API used by ZilliqaLocker
type ZilliqaRPC interface {
	GetBalance(ctx context.Context, address string) (*client.ZilliqaBalance, error)
	CreateTransaction(ctx context.Context, tx *client.ZilliqaTx) (*client.CreateTxResult, error)
	GetTransaction(ctx context.Context, txID string) (*client.ZilliqaTxStatus, error)
}

// ZilliqaConfig configures ZilliqaLocker
type ZilliqaConfig struct {
	ChainID          uint32
	MsgVersion       uint32
	LockProxyAddress string
	ConfirmAttempts  int
	ConfirmInterval  time.Duration
}

// ZilliqaLocker locks assets in the TradeHub lock proxy contract on Zilliqa
type ZilliqaLocker struct {
	rpc    ZilliqaRPC
	cfg    ZilliqaConfig
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewZilliqaLocker creates a new Zilliqa locker
func NewZilliqaLocker(rpc ZilliqaRPC, cfg ZilliqaConfig, logger *zap.Logger) *ZilliqaLocker {
	if cfg.ConfirmAttempts <= 0 {
		cfg.ConfirmAttempts = 33
	}
	if cfg.ConfirmInterval <= 0 {
		cfg.ConfirmInterval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZilliqaLocker{rpc: rpc, cfg: cfg, logger: logger, sleep: sleepContext}
}

type scillaParam struct {
	VName string `json:"vname"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

type scillaCall struct {
	Tag    string        `json:"_tag"`
	Params []scillaParam `json:"params"`
}

// SubmitLock signs and broadcasts the lock transition
func (l *ZilliqaLocker) SubmitLock(ctx context.Context, params types.LockParams) (TxHandle, error) {
	priv, err := ParsePrivateKey(params.Signer)
	if err != nil {
		return nil, err
	}

	from := ZilAddressFromPubKey(priv.PubKey())
	if params.SourceAddress != "" && !strings.EqualFold(strings.TrimPrefix(params.SourceAddress, "0x"), from) {
		return nil, fmt.Errorf("signer address %s does not match source address %s", from, params.SourceAddress)
	}

	toAddr, err := ZilChecksumAddress(l.cfg.LockProxyAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid lock proxy address: %w", err)
	}

	amount := params.Amount.BigInt()
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("lock amount must be greater than 0")
	}
	gasPrice := params.GasPrice.BigInt()

	data, err := lockCallData(params)
	if err != nil {
		return nil, err
	}

	// Native ZIL travels as the tx amount, tokens are pulled by the contract
	txAmount := new(big.Int)
	if isNativeAsset(params.Asset.AssetID) {
		txAmount = amount
	}

	balance, err := l.rpc.GetBalance(ctx, from)
	if err != nil {
		return nil, err
	}

	toBytes, err := hex.DecodeString(strings.ToLower(strings.TrimPrefix(toAddr, "0x")))
	if err != nil {
		return nil, fmt.Errorf("failed to decode lock proxy address: %w", err)
	}
	pub := priv.PubKey().SerializeCompressed()
	core := txCoreInfo{
		Version:  l.cfg.ChainID<<16 | l.cfg.MsgVersion,
		Nonce:    balance.Nonce + 1,
		ToAddr:   toBytes,
		PubKey:   pub,
		Amount:   txAmount,
		GasPrice: gasPrice,
		GasLimit: params.GasLimit,
		Data:     data,
	}

	msg, err := core.marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	sig, err := SignSchnorr(priv, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	tx := &client.ZilliqaTx{
		Version:   core.Version,
		Nonce:     core.Nonce,
		ToAddr:    toAddr,
		Amount:    txAmount.String(),
		PubKey:    hex.EncodeToString(pub),
		GasPrice:  gasPrice.String(),
		GasLimit:  fmt.Sprintf("%d", params.GasLimit),
		Data:      data,
		Signature: hex.EncodeToString(sig),
	}

	l.logger.Debug("Sending lock transaction",
		zap.String("from", from),
		zap.String("to", toAddr),
		zap.Uint64("nonce", core.Nonce),
		zap.String("amount", amount.String()))

	res, err := l.rpc.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	return &zilTxHandle{id: res.TranID, locker: l}, nil
}

func lockCallData(params types.LockParams) (string, error) {
	if len(params.DestAccountBytes) == 0 {
		return "", fmt.Errorf("destination account bytes are required")
	}
	assetID := strings.ToLower(strings.TrimPrefix(params.Asset.AssetID, "0x"))
	if assetID == "" {
		assetID = nativeAssetID
	}

	call := scillaCall{
		Tag: "lock",
		Params: []scillaParam{
			{VName: "tokenAddr", Type: "ByStr20", Value: "0x" + assetID},
			{VName: "targetProxyHash", Type: "ByStr", Value: "0x" + strings.TrimPrefix(params.Asset.LockProxyHash, "0x")},
			{VName: "toAddress", Type: "ByStr", Value: "0x" + hex.EncodeToString(params.DestAccountBytes)},
			{VName: "toAssetHash", Type: "ByStr", Value: "0x" + hex.EncodeToString([]byte(params.Asset.Denom))},
			{VName: "feeAddr", Type: "ByStr", Value: "0x" + hex.EncodeToString(params.DestAccountBytes)},
			{VName: "amount", Type: "Uint256", Value: params.Amount.BigInt().String()},
			{VName: "feeAmount", Type: "Uint256", Value: "0"},
		},
	}

	data, err := json.Marshal(call)
	if err != nil {
		return "", fmt.Errorf("failed to encode lock call: %w", err)
	}
	return string(data), nil
}

func isNativeAsset(assetID string) bool {
	id := strings.TrimPrefix(assetID, "0x")
	return id == "" || id == nativeAssetID
}

type zilTxHandle struct {
	id     string
	locker *ZilliqaLocker
}

func (h *zilTxHandle) ID() string {
	return h.id
}

// Confirm polls GetTransaction until the transaction is mined.
// Zilliqa returns an RPC error while the transaction is pending.
func (h *zilTxHandle) Confirm(ctx context.Context) (*types.Receipt, error) {
	var lastErr error
	for attempt := 1; attempt <= h.locker.cfg.ConfirmAttempts; attempt++ {
		status, err := h.locker.rpc.GetTransaction(ctx, h.id)
		if err == nil {
			return &status.Receipt, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		if attempt < h.locker.cfg.ConfirmAttempts {
			if err := h.locker.sleep(ctx, h.locker.cfg.ConfirmInterval); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("transaction %s not confirmed after %d attempts: %w", h.id, h.locker.cfg.ConfirmAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
