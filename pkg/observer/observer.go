package observer

import (
	"context"
	"fmt"

	"zil-bridge/pkg/types"
)

// TransferLister lists the transfers of an account, newest first
type TransferLister interface {
	ListTransfers(ctx context.Context, account string) ([]types.TransferRecord, error)
}

// Error is a failed transfer query
type Error struct {
	Account string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to query transfers for %s: %v", e.Account, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Observer reads the most recent transfer of an account from the indexer.
// Every call is a fresh query.
type Observer struct {
	lister TransferLister
}

// New creates an observer backed by lister
func New(lister TransferLister) *Observer {
	return &Observer{lister: lister}
}

// LatestTransfer returns the newest transfer of account, or nil when the account has none
func (o *Observer) LatestTransfer(ctx context.Context, account string) (*types.TransferRecord, error) {
	transfers, err := o.lister.ListTransfers(ctx, account)
	if err != nil {
		return nil, &Error{Account: account, Err: err}
	}
	if len(transfers) == 0 {
		return nil, nil
	}

	latest := transfers[0]
	return &latest, nil
}

// Transfers returns up to limit transfers of account, newest first. A limit of 0 returns all.
func (o *Observer) Transfers(ctx context.Context, account string, limit int) ([]types.TransferRecord, error) {
	transfers, err := o.lister.ListTransfers(ctx, account)
	if err != nil {
		return nil, &Error{Account: account, Err: err}
	}
	if limit > 0 && len(transfers) > limit {
		transfers = transfers[:limit]
	}
	return transfers, nil
}
