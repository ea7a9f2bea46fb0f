package asset

import (
	"fmt"
	"sort"
	"strings"

	"zil-bridge/pkg/types"
)

// DefaultZILLockProxyHash is the TradeHub devnet lock proxy for native ZIL
const DefaultZILLockProxyHash = "a5484b227f35f5e192e444146a3d9e09f4cdad80"

// NativeZIL returns the lock descriptor for native ZIL on devnet
func NativeZIL() types.Asset {
	return types.Asset{
		Name:          "Zilliqa",
		Symbol:        "ZIL",
		Denom:         "zil",
		Decimals:      12,
		Blockchain:    "zil",
		ChainID:       110,
		AssetID:       "0000000000000000000000000000000000000000",
		LockProxyHash: DefaultZILLockProxyHash,
		IsActive:      true,
	}
}

// Registry holds the lockable assets keyed by symbol
type Registry struct {
	assets map[string]types.Asset
}

// NewRegistry builds a registry from the configured assets.
// Native ZIL is used when no asset is configured.
func NewRegistry(assets []types.Asset) (*Registry, error) {
	if len(assets) == 0 {
		assets = []types.Asset{NativeZIL()}
	}

	r := &Registry{assets: make(map[string]types.Asset, len(assets))}
	for _, a := range assets {
		symbol := strings.ToUpper(strings.TrimSpace(a.Symbol))
		if symbol == "" {
			return nil, fmt.Errorf("asset %q has no symbol", a.Name)
		}
		if a.Denom == "" || a.LockProxyHash == "" {
			return nil, fmt.Errorf("asset %s: denom and lock_proxy_hash are required", symbol)
		}
		if _, exists := r.assets[symbol]; exists {
			return nil, fmt.Errorf("asset %s configured twice", symbol)
		}
		a.Symbol = symbol
		a.LockProxyHash = strings.ToLower(strings.TrimPrefix(a.LockProxyHash, "0x"))
		r.assets[symbol] = a
	}

	return r, nil
}

// Lookup returns the asset for symbol with Originator set to the destination account.
// Only active assets are returned.
func (r *Registry) Lookup(symbol, originator string) (types.Asset, error) {
	a, exists := r.assets[strings.ToUpper(strings.TrimSpace(symbol))]
	if !exists {
		return types.Asset{}, fmt.Errorf("token '%s' not found", symbol)
	}
	if !a.IsActive {
		return types.Asset{}, fmt.Errorf("token '%s' is not active", symbol)
	}
	a.Originator = originator
	return a, nil
}

// List returns all assets sorted by symbol
func (r *Registry) List() []types.Asset {
	assets := make([]types.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Symbol < assets[j].Symbol
	})
	return assets
}
