package bridge

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zil-bridge/pkg/types"
)

// Default poll budget: 20 attempts, 2s apart
const (
	DefaultPollAttempts = 20
	DefaultPollInterval = 2 * time.Second
)

// Poll phases, used as the metrics label
const (
	PollPhaseDeposit  = "deposit"
	PollPhaseWithdraw = "withdraw"
)

// PollConfig bounds one polling phase
type PollConfig struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultPollConfig returns the default poll budget
func DefaultPollConfig() PollConfig {
	return PollConfig{MaxAttempts: DefaultPollAttempts, Interval: DefaultPollInterval}
}

// Validate checks the poll budget
func (c PollConfig) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("poll attempts must be greater than 0")
	}
	if c.Interval < 0 {
		return fmt.Errorf("poll interval cannot be negative")
	}
	return nil
}

// Sleeper pauses between poll attempts and returns early with ctx.Err() on cancellation
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep implements Sleeper
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerSleeper sleeps on a real timer
type TimerSleeper struct{}

// Sleep implements Sleeper
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Predicate reports whether a transfer record confirms the awaited event
type Predicate func(rec types.TransferRecord) bool

// Observer returns the newest transfer of an account, or nil when there is none
type Observer interface {
	LatestTransfer(ctx context.Context, account string) (*types.TransferRecord, error)
}

type pollResult struct {
	record    *types.TransferRecord
	attempts  int
	cancelled bool
	lastErr   *ObservationError
}

// poll queries the observer until the newest record matches or the budget runs out.
// Cancellation is checked before every attempt and during every sleep.
func (o *Orchestrator) poll(ctx context.Context, st *runState, phase, account string, match Predicate, log *zap.Logger) pollResult {
	var res pollResult

	for attempt := 1; attempt <= o.pollCfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			res.cancelled = true
			return res
		}
		res.attempts = attempt
		st.pollAttempt = attempt

		rec, err := o.deps.Observer.LatestTransfer(ctx, account)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				res.cancelled = true
				return res
			}
			res.lastErr = &ObservationError{Account: account, Attempt: attempt, Err: err}
			o.recorder.PollAttempt(phase, "error")
			log.Warn("Transfer observation failed",
				zap.String("phase", phase),
				zap.Int("attempt", attempt),
				zap.Error(err))
		case rec != nil && match(*rec):
			o.recorder.PollAttempt(phase, "match")
			log.Debug("Transfer matched",
				zap.String("phase", phase),
				zap.Int("attempt", attempt),
				zap.String("transfer_id", rec.ID))
			res.record = rec
			return res
		default:
			o.recorder.PollAttempt(phase, "miss")
			log.Debug("Transfer not matched yet",
				zap.String("phase", phase),
				zap.Int("attempt", attempt))
		}

		if attempt < o.pollCfg.MaxAttempts {
			if err := o.sleeper.Sleep(ctx, o.pollCfg.Interval); err != nil {
				res.cancelled = true
				return res
			}
		}
	}

	return res
}
