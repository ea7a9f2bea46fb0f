package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ybbus/jsonrpc"

	"zil-bridge/pkg/types"
)

// ZilliqaTx is the JSON shape accepted by CreateTransaction
type ZilliqaTx struct {
	Version   uint32 `json:"version"`
	Nonce     uint64 `json:"nonce"`
	ToAddr    string `json:"toAddr"`
	Amount    string `json:"amount"`
	PubKey    string `json:"pubKey"`
	GasPrice  string `json:"gasPrice"`
	GasLimit  string `json:"gasLimit"`
	Code      string `json:"code"`
	Data      string `json:"data"`
	Signature string `json:"signature"`
	Priority  bool   `json:"priority"`
}

// ZilliqaBalance is the GetBalance result
type ZilliqaBalance struct {
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

// CreateTxResult is the CreateTransaction result
type CreateTxResult struct {
	Info    string `json:"Info"`
	TranID  string `json:"TranID"`
	Address string `json:"ContractAddress,omitempty"`
}

// ZilliqaTxStatus is the GetTransaction result
type ZilliqaTxStatus struct {
	ID      string        `json:"ID"`
	Receipt types.Receipt `json:"receipt"`
}

// ZilliqaClient wraps the Zilliqa JSON-RPC API
type ZilliqaClient struct {
	rpc jsonrpc.RPCClient
}

// NewZilliqaClient creates a new Zilliqa JSON-RPC client
func NewZilliqaClient(endpoint string) *ZilliqaClient {
	rpc := jsonrpc.NewClientWithOpts(endpoint, &jsonrpc.RPCClientOpts{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	})
	return &ZilliqaClient{rpc: rpc}
}

// GetBalance returns the balance and current nonce of a base16 address
func (c *ZilliqaClient) GetBalance(ctx context.Context, address string) (*ZilliqaBalance, error) {
	var out ZilliqaBalance
	if err := c.call(ctx, &out, "GetBalance", strings.TrimPrefix(strings.ToLower(address), "0x")); err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &out, nil
}

// GetMinimumGasPrice returns the network minimum gas price in Qa
func (c *ZilliqaClient) GetMinimumGasPrice(ctx context.Context) (string, error) {
	var out string
	if err := c.call(ctx, &out, "GetMinimumGasPrice", ""); err != nil {
		return "", fmt.Errorf("failed to get minimum gas price: %w", err)
	}
	return out, nil
}

// CreateTransaction broadcasts a signed transaction
func (c *ZilliqaClient) CreateTransaction(ctx context.Context, tx *ZilliqaTx) (*CreateTxResult, error) {
	var out CreateTxResult
	// The param list is passed as a slice so the tx object is not sent bare
	if err := c.call(ctx, &out, "CreateTransaction", []interface{}{tx}); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	if out.TranID == "" {
		return nil, fmt.Errorf("empty transaction ID returned (info: %s)", out.Info)
	}
	return &out, nil
}

// GetTransaction returns a mined transaction. Pending or unknown transactions
// come back as an RPC error.
func (c *ZilliqaClient) GetTransaction(ctx context.Context, txID string) (*ZilliqaTxStatus, error) {
	var out ZilliqaTxStatus
	if err := c.call(ctx, &out, "GetTransaction", strings.TrimPrefix(txID, "0x")); err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", txID, err)
	}
	return &out, nil
}

// call runs a JSON-RPC call; the RPC library has no context support so the
// call is abandoned, not aborted, when ctx ends first.
func (c *ZilliqaClient) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- c.rpc.CallFor(out, method, params...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
