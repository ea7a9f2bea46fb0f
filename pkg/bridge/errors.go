package bridge

import (
	"errors"
	"fmt"
)

var (
	errNoLockHandle          = errors.New("gateway returned no lock handle")
	errNoSession             = errors.New("authenticator returned no session")
	errEmptyWithdrawResponse = errors.New("empty withdraw response")
)

// Submission ops
const (
	OpBuildLock = "build_lock"
	OpLock      = "lock"
	OpConnect   = "connect"
	OpWithdraw  = "withdraw"
)

// SubmissionError is returned when a gateway rejects a submit call
type SubmissionError struct {
	Op  string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s submission failed: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ChainConfirmationError is returned when the source chain fails to confirm the lock
type ChainConfirmationError struct {
	TxID string
	Err  error
}

func (e *ChainConfirmationError) Error() string {
	return fmt.Sprintf("transaction %s not confirmed by source chain: %v", e.TxID, e.Err)
}

func (e *ChainConfirmationError) Unwrap() error {
	return e.Err
}

// ObservationError is a failed poll attempt. It is counted against the poll
// budget and never ends a run on its own.
type ObservationError struct {
	Account string
	Attempt int
	Err     error
}

func (e *ObservationError) Error() string {
	return fmt.Sprintf("observation attempt %d for %s failed: %v", e.Attempt, e.Account, e.Err)
}

func (e *ObservationError) Unwrap() error {
	return e.Err
}
