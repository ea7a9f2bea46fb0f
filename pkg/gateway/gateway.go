package gateway

import (
	"context"
	"fmt"
	"strings"

	"zil-bridge/pkg/types"
)

// TxHandle is a submitted source-chain transaction
type TxHandle interface {
	// ID returns the transaction hash
	ID() string
	// Confirm blocks until the chain reports the transaction as mined
	Confirm(ctx context.Context) (*types.Receipt, error)
}

// Locker submits lock transactions on a source chain
type Locker interface {
	SubmitLock(ctx context.Context, params types.LockParams) (TxHandle, error)
}

// Session is an authenticated connection to the destination ledger
type Session interface {
	// Originator returns the bech32 account that signs withdrawals
	Originator() string
}

// Authenticator opens destination ledger sessions
type Authenticator interface {
	Connect(ctx context.Context) (Session, error)
}

// Withdrawer submits withdrawals on the destination ledger
type Withdrawer interface {
	SubmitWithdraw(ctx context.Context, req types.WithdrawRequest, session Session) (*types.WithdrawResponse, error)
}

// Manager routes lock submissions to the locker of the asset's blockchain
type Manager struct {
	lockers map[string]Locker
}

// NewManager creates a new gateway manager
func NewManager() *Manager {
	return &Manager{lockers: make(map[string]Locker)}
}

// Register sets the locker used for a blockchain
func (m *Manager) Register(blockchain string, locker Locker) {
	m.lockers[strings.ToLower(blockchain)] = locker
}

// IsEnabledForChain returns whether a locker is registered for the blockchain
func (m *Manager) IsEnabledForChain(blockchain string) bool {
	_, ok := m.lockers[strings.ToLower(blockchain)]
	return ok
}

// SubmitLock implements Locker by dispatching on params.Asset.Blockchain
func (m *Manager) SubmitLock(ctx context.Context, params types.LockParams) (TxHandle, error) {
	locker, ok := m.lockers[strings.ToLower(params.Asset.Blockchain)]
	if !ok {
		return nil, fmt.Errorf("lock not supported for chain: %s", params.Asset.Blockchain)
	}
	return locker.SubmitLock(ctx, params)
}

// GetSupportedChains returns the blockchains with a registered locker
func (m *Manager) GetSupportedChains() []string {
	chains := make([]string, 0, len(m.lockers))
	for chain := range m.lockers {
		chains = append(chains, chain)
	}
	return chains
}
