package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zil-bridge/pkg/gateway"
	"zil-bridge/pkg/types"
)

// Status is the terminal state of a bridge run
type Status string

const (
	StatusComplete                Status = "complete"
	StatusDepositNotObserved      Status = "deposit_not_observed"
	StatusWithdrawNotConfirmed    Status = "withdraw_not_confirmed"
	StatusSubmissionFailed        Status = "submission_failed"
	StatusChainConfirmationFailed Status = "chain_confirmation_failed"
	StatusCancelled               Status = "cancelled"
)

// Soft reports whether the status is a failed outcome that is not an error.
// Funds may still be in flight and a manual recheck is the remediation.
func (s Status) Soft() bool {
	return s == StatusDepositNotObserved || s == StatusWithdrawNotConfirmed
}

// Outcome is the result of one bridge run
type Outcome struct {
	RunID            string                `json:"run_id"`
	Status           Status                `json:"status"`
	LockTxID         string                `json:"lock_tx_id,omitempty"`
	WithdrawTxHash   string                `json:"withdraw_tx_hash,omitempty"`
	DepositRecord    *types.TransferRecord `json:"deposit_record,omitempty"`
	WithdrawRecord   *types.TransferRecord `json:"withdraw_record,omitempty"`
	DepositAttempts  int                   `json:"deposit_attempts"`
	WithdrawAttempts int                   `json:"withdraw_attempts"`

	// LastObservationError is the last failed poll of the final phase, if any
	LastObservationError *ObservationError `json:"-"`
}

// Recorder receives run metrics
type Recorder interface {
	RunStarted()
	RunFinished(status string, d time.Duration)
	PollAttempt(phase, result string)
}

type nopRecorder struct{}

func (nopRecorder) RunStarted() {}

func (nopRecorder) RunFinished(string, time.Duration) {}

func (nopRecorder) PollAttempt(string, string) {}

// Dependencies are the collaborators of an Orchestrator
type Dependencies struct {
	Locker        gateway.Locker
	Authenticator gateway.Authenticator
	Withdrawer    gateway.Withdrawer
	Observer      Observer
}

// Orchestrator drives a bridge run from lock to confirmed withdrawal.
// It keeps no state between runs and is safe for concurrent use.
type Orchestrator struct {
	deps     Dependencies
	cfg      Config
	pollCfg  PollConfig
	sleeper  Sleeper
	notifier Notifier
	logger   *zap.Logger
	recorder Recorder
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithSleeper sets the sleeper used between poll attempts
func WithSleeper(s Sleeper) Option {
	return func(o *Orchestrator) {
		o.sleeper = s
	}
}

// WithNotifier sets the progress notifier
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// WithPollConfig sets the poll budget of both polling phases
func WithPollConfig(c PollConfig) Option {
	return func(o *Orchestrator) {
		o.pollCfg = c
	}
}

// New creates an orchestrator
func New(deps Dependencies, cfg Config, opts ...Option) (*Orchestrator, error) {
	if deps.Locker == nil || deps.Authenticator == nil || deps.Withdrawer == nil || deps.Observer == nil {
		return nil, errors.New("locker, authenticator, withdrawer and observer are required")
	}
	if cfg.WithdrawSuccessLog == "" {
		cfg.WithdrawSuccessLog = DefaultWithdrawSuccessLog
	}

	o := &Orchestrator{
		deps:     deps,
		cfg:      cfg,
		pollCfg:  DefaultPollConfig(),
		sleeper:  TimerSleeper{},
		notifier: NotifierFunc(func(string, Details) {}),
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(o)
	}

	if err := o.pollCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid poll config: %w", err)
	}
	return o, nil
}

// Execute runs one bridge transfer. Soft failures and cancellation are
// reported through Outcome.Status with a nil error. Submission and chain
// confirmation failures return a *SubmissionError or *ChainConfirmationError
// alongside the partial outcome.
func (o *Orchestrator) Execute(ctx context.Context, req types.BridgeRequest) (*Outcome, error) {
	out := &Outcome{RunID: uuid.New().String()}
	log := o.logger.With(zap.String("run_id", out.RunID))

	start := time.Now()
	o.recorder.RunStarted()
	defer func() {
		o.recorder.RunFinished(string(out.Status), time.Since(start))
	}()

	log.Info("Starting bridge run",
		zap.String("amount", req.Amount.String()),
		zap.String("denom", req.Asset.Denom),
		zap.String("withdraw_denom", req.WithdrawDenom),
		zap.String("dest_account", req.DestAccount))

	err := o.run(ctx, req, out, log)

	var (
		subErr   *SubmissionError
		chainErr *ChainConfirmationError
	)
	switch {
	case errors.As(err, &subErr):
		out.Status = StatusSubmissionFailed
	case errors.As(err, &chainErr):
		out.Status = StatusChainConfirmationFailed
	}

	if err != nil {
		log.Error("Bridge run failed", zap.String("status", string(out.Status)), zap.Error(err))
		return out, err
	}
	log.Info("Bridge run finished", zap.String("status", string(out.Status)))
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, req types.BridgeRequest, out *Outcome, log *zap.Logger) error {
	st := &runState{}
	sourceChain := o.cfg.sourceChain(req.Asset)

	if ctx.Err() != nil {
		o.cancel(out, log)
		return nil
	}

	params, err := BuildLockParams(req, o.cfg)
	if err != nil {
		return &SubmissionError{Op: OpBuildLock, Err: err}
	}

	handle, err := o.deps.Locker.SubmitLock(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			o.cancel(out, log)
			return nil
		}
		return &SubmissionError{Op: OpLock, Err: err}
	}
	if handle == nil {
		return &SubmissionError{Op: OpLock, Err: errNoLockHandle}
	}
	st.lockTxID = handle.ID()
	out.LockTxID = st.lockTxID
	o.advance(st, phaseLockSubmitted, log)
	o.notifier.Notify(MsgSubmitted, Details{Hash: st.lockTxID})
	log.Info("Lock submitted", zap.String("tx_id", st.lockTxID))

	receipt, err := handle.Confirm(ctx)
	if err != nil {
		if ctx.Err() != nil {
			o.cancel(out, log)
			return nil
		}
		return &ChainConfirmationError{TxID: st.lockTxID, Err: err}
	}
	o.advance(st, phaseLockConfirmed, log)
	o.notifier.Notify(MsgDepositConfirmedSource, Details{Hash: st.lockTxID})

	if receipt == nil || !receipt.Success {
		log.Warn("Lock receipt reports failure, skipping deposit observation", zap.String("tx_id", st.lockTxID))
		o.softFail(out, StatusDepositNotObserved, MsgDepositNotObserved, st.lockTxID)
		return nil
	}

	dep := o.poll(ctx, st, PollPhaseDeposit, req.DestAccount,
		DepositMatcher(sourceChain, params, req.Amount.String()), log)
	out.DepositAttempts = dep.attempts
	out.LastObservationError = dep.lastErr
	if dep.cancelled {
		o.cancel(out, log)
		return nil
	}
	if dep.record == nil {
		log.Warn("Deposit not observed", zap.Int("attempts", dep.attempts))
		o.softFail(out, StatusDepositNotObserved, MsgDepositNotObserved, st.lockTxID)
		return nil
	}
	out.DepositRecord = dep.record
	o.advance(st, phaseDepositObserved, log)
	o.notifier.Notify(MsgDepositConfirmedDest, Details{Hash: dep.record.TransactionHash})

	session, err := o.deps.Authenticator.Connect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			o.cancel(out, log)
			return nil
		}
		return &SubmissionError{Op: OpConnect, Err: err}
	}
	if session == nil {
		return &SubmissionError{Op: OpConnect, Err: errNoSession}
	}

	wreq, err := BuildWithdrawRequest(req, session.Originator(), o.cfg)
	if err != nil {
		return &SubmissionError{Op: OpWithdraw, Err: err}
	}

	resp, err := o.deps.Withdrawer.SubmitWithdraw(ctx, wreq, session)
	if err != nil {
		if ctx.Err() != nil {
			o.cancel(out, log)
			return nil
		}
		return &SubmissionError{Op: OpWithdraw, Err: err}
	}
	if resp == nil {
		return &SubmissionError{Op: OpWithdraw, Err: errEmptyWithdrawResponse}
	}
	st.withdrawTxHash = resp.TxHash
	out.WithdrawTxHash = resp.TxHash
	o.advance(st, phaseWithdrawSubmitted, log)
	log.Info("Withdrawal submitted", zap.String("tx_hash", resp.TxHash))

	if !withdrawAccepted(resp, o.cfg.WithdrawSuccessLog) {
		log.Warn("Withdrawal not accepted", zap.Int("logs", len(resp.Logs)), zap.String("raw_log", resp.RawLog))
		o.softFail(out, StatusWithdrawNotConfirmed, MsgWithdrawalNotConfirmed, st.withdrawTxHash)
		return nil
	}

	wd := o.poll(ctx, st, PollPhaseWithdraw, req.DestAccount,
		WithdrawalMatcher(sourceChain, req.WithdrawDenom), log)
	out.WithdrawAttempts = wd.attempts
	out.LastObservationError = wd.lastErr
	if wd.cancelled {
		o.cancel(out, log)
		return nil
	}
	if wd.record == nil {
		log.Warn("Withdrawal not confirmed", zap.Int("attempts", wd.attempts))
		o.softFail(out, StatusWithdrawNotConfirmed, MsgWithdrawalNotConfirmed, st.withdrawTxHash)
		return nil
	}
	out.WithdrawRecord = wd.record
	o.advance(st, phaseWithdrawConfirmed, log)
	o.notifier.Notify(MsgWithdrawalConfirmed, Details{Hash: st.withdrawTxHash})

	out.Status = StatusComplete
	return nil
}

func (o *Orchestrator) advance(st *runState, to phase, log *zap.Logger) {
	if err := st.advance(to); err != nil {
		log.DPanic("Bridge state machine violated", zap.Error(err))
	}
}

func (o *Orchestrator) softFail(out *Outcome, status Status, msg, hash string) {
	out.Status = status
	o.notifier.Notify(msg, Details{Hash: hash})
}

func (o *Orchestrator) cancel(out *Outcome, log *zap.Logger) {
	log.Info("Bridge run cancelled", zap.String("lock_tx_id", out.LockTxID))
	out.Status = StatusCancelled
	o.notifier.Notify(MsgBridgeCancelled, Details{Hash: out.LockTxID})
}
