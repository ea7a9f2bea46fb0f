package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"zil-bridge/pkg/types"
)

var commandPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Za-z0-9]+)\s+(?i:to)\s+([A-Za-z0-9]+)$`)

// ParseBridgeCommand parses a bridge command of the form "<amount> <token> to <denom>".
// The source token is returned as Asset.Symbol and still has to be resolved
// against the asset registry.
// Examples:
//   - "1 ZIL to zusd6"
//   - "bridge 2.5 zil to zusd6"
func ParseBridgeCommand(command string) (*types.BridgeRequest, error) {
	command = strings.TrimSpace(command)
	if len(command) > 7 && strings.EqualFold(command[:7], "bridge ") {
		command = strings.TrimSpace(command[7:])
	}

	matches := commandPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid bridge command format. Expected: '<amount> <token> to <denom>' (e.g., '1 ZIL to zusd6')")
	}

	amount, err := decimal.NewFromString(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", matches[1], err)
	}

	return &types.BridgeRequest{
		Amount:        amount,
		Asset:         types.Asset{Symbol: NormalizeTokenSymbol(matches[2])},
		WithdrawDenom: strings.ToLower(matches[3]),
	}, nil
}

// ValidateBridgeRequest validates that a bridge request has all required fields
func ValidateBridgeRequest(req *types.BridgeRequest) error {
	if req == nil {
		return fmt.Errorf("bridge request is required")
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("amount must be greater than 0")
	}
	if req.WithdrawAmount.IsNegative() {
		return fmt.Errorf("withdraw amount cannot be negative")
	}
	if req.Signer == "" {
		return fmt.Errorf("source signer key is required")
	}
	if req.DestAccount == "" {
		return fmt.Errorf("destination account is required")
	}
	if req.DestAddress == "" {
		return fmt.Errorf("destination address is required")
	}
	if req.Asset.Denom == "" {
		return fmt.Errorf("asset denom is required")
	}
	if req.Asset.LockProxyHash == "" {
		return fmt.Errorf("asset lock proxy hash is required")
	}
	if req.WithdrawDenom == "" {
		return fmt.Errorf("withdraw denom is required")
	}
	if exp := req.Amount.Exponent(); exp < 0 && -exp > req.Asset.Decimals {
		return fmt.Errorf("amount %s has more than %d decimals", req.Amount, req.Asset.Decimals)
	}
	return nil
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"WZIL":    "ZIL",
		"ZILLIQA": "ZIL",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}
