package bridge

import "fmt"

type phase int

const (
	phaseIdle phase = iota
	phaseLockSubmitted
	phaseLockConfirmed
	phaseDepositObserved
	phaseWithdrawSubmitted
	phaseWithdrawConfirmed
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseLockSubmitted:
		return "lock_submitted"
	case phaseLockConfirmed:
		return "lock_confirmed"
	case phaseDepositObserved:
		return "deposit_observed"
	case phaseWithdrawSubmitted:
		return "withdraw_submitted"
	case phaseWithdrawConfirmed:
		return "withdraw_confirmed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// runState is owned by a single Execute call
type runState struct {
	phase             phase
	lockTxID          string
	depositConfirmed  bool
	withdrawTxHash    string
	withdrawConfirmed bool
	pollAttempt       int
}

// advance moves the run to the next phase. Phases only move forward one step.
func (s *runState) advance(to phase) error {
	if to != s.phase+1 {
		return fmt.Errorf("invalid transition %s -> %s", s.phase, to)
	}
	s.phase = to

	switch to {
	case phaseDepositObserved:
		s.depositConfirmed = true
	case phaseWithdrawConfirmed:
		s.withdrawConfirmed = true
	}
	s.pollAttempt = 0
	return nil
}
