package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"zil-bridge/pkg/types"
)

// Account is the on-chain account state needed to sign a TradeHub tx
type Account struct {
	Address       string `json:"address"`
	AccountNumber string `json:"account_number"`
	Sequence      string `json:"sequence"`
}

// BroadcastRequest is the body accepted by POST /txs
type BroadcastRequest struct {
	Tx   json.RawMessage `json:"tx"`
	Mode string          `json:"mode"`
}

// TradeHubClient wraps the TradeHub REST API
type TradeHubClient struct {
	baseURL string
	client  *http.Client
}

// NewTradeHubClient creates a new TradeHub REST client
func NewTradeHubClient(baseURL string) *TradeHubClient {
	return &TradeHubClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ListTransfers returns the transfer history of an account, newest first
func (c *TradeHubClient) ListTransfers(ctx context.Context, account string) ([]types.TransferRecord, error) {
	query := url.Values{}
	query.Set("account", account)

	var transfers []types.TransferRecord
	if err := c.get(ctx, "/get_transfers?"+query.Encode(), &transfers); err != nil {
		return nil, fmt.Errorf("failed to get transfers: %w", err)
	}
	return transfers, nil
}

// GetAccount returns the account number and sequence of an address
func (c *TradeHubClient) GetAccount(ctx context.Context, address string) (*Account, error) {
	var resp struct {
		Height string `json:"height"`
		Result struct {
			Type  string  `json:"type"`
			Value Account `json:"value"`
		} `json:"result"`
	}
	if err := c.get(ctx, "/auth/accounts/"+url.PathEscape(address), &resp); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if resp.Result.Value.AccountNumber == "" {
		return nil, fmt.Errorf("account %s not found on chain", address)
	}
	return &resp.Result.Value, nil
}

// BroadcastTx submits a signed tx and waits for it to be included in a block
func (c *TradeHubClient) BroadcastTx(ctx context.Context, tx json.RawMessage) (*types.WithdrawResponse, error) {
	body, err := json.Marshal(BroadcastRequest{Tx: tx, Mode: "block"})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal broadcast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/txs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out types.WithdrawResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("failed to broadcast tx: %w", err)
	}
	return &out, nil
}

func (c *TradeHubClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *TradeHubClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Try to extract the actual error message from the response
		var errorResp map[string]interface{}
		if jsonErr := json.Unmarshal(bodyBytes, &errorResp); jsonErr == nil {
			if message, ok := errorResp["error"].(string); ok {
				return fmt.Errorf("API error (status %d): %s", resp.StatusCode, message)
			}
			if message, ok := errorResp["message"].(string); ok {
				return fmt.Errorf("API error (status %d): %s", resp.StatusCode, message)
			}
		}
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}
