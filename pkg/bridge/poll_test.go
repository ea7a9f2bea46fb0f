package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zil-bridge/pkg/types"
)

func TestPoll_EmptyListExhaustsBudget(t *testing.T) {
	for _, phase := range []string{PollPhaseDeposit, PollPhaseWithdraw} {
		t.Run(phase, func(t *testing.T) {
			h := newHarness(func(ctx context.Context, call int, account string) (*types.TransferRecord, error) {
				return nil, nil
			})
			o := h.orchestrator(t)

			res := o.poll(context.Background(), &runState{}, phase, "swth1abc", func(types.TransferRecord) bool { return true }, zap.NewNop())
			assert.Nil(t, res.record)
			assert.False(t, res.cancelled)
			assert.Equal(t, DefaultPollAttempts, res.attempts)
			assert.Equal(t, DefaultPollAttempts, h.observer.calls)
			assert.Equal(t, DefaultPollAttempts, h.recorder.polls[phase+"/miss"])
		})
	}
}

func TestPoll_CustomBudget(t *testing.T) {
	h := newHarness(func(ctx context.Context, call int, account string) (*types.TransferRecord, error) {
		return &types.TransferRecord{ID: "x"}, nil
	})
	o := h.orchestrator(t, WithPollConfig(PollConfig{MaxAttempts: 3, Interval: 10 * time.Millisecond}))

	st := &runState{}
	res := o.poll(context.Background(), st, PollPhaseDeposit, "swth1abc", func(types.TransferRecord) bool { return false }, zap.NewNop())
	assert.Equal(t, 3, res.attempts)
	assert.Equal(t, 3, st.pollAttempt)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}, h.sleeper.durations)
}

func TestPoll_PassesAccount(t *testing.T) {
	var seen []string
	h := newHarness(func(ctx context.Context, call int, account string) (*types.TransferRecord, error) {
		seen = append(seen, account)
		return &types.TransferRecord{ID: "x"}, nil
	})
	o := h.orchestrator(t)

	res := o.poll(context.Background(), &runState{}, PollPhaseWithdraw, "swth1abc", func(types.TransferRecord) bool { return true }, zap.NewNop())
	require.NotNil(t, res.record)
	assert.Equal(t, "x", res.record.ID)
	assert.Equal(t, []string{"swth1abc"}, seen)
	assert.Equal(t, 0, h.sleeper.calls)
}

func TestPoll_CancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHarness(func(ctx context.Context, call int, account string) (*types.TransferRecord, error) {
		return nil, nil
	})
	o := h.orchestrator(t, WithSleeper(SleeperFunc(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	})))

	res := o.poll(ctx, &runState{}, PollPhaseDeposit, "swth1abc", func(types.TransferRecord) bool { return true }, zap.NewNop())
	assert.True(t, res.cancelled)
	assert.Equal(t, 1, h.observer.calls)
}

func TestTimerSleeper(t *testing.T) {
	require.NoError(t, TimerSleeper{}.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, TimerSleeper{}.Sleep(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPollConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultPollConfig().Validate())
	assert.Error(t, PollConfig{MaxAttempts: 0, Interval: time.Second}.Validate())
	assert.Error(t, PollConfig{MaxAttempts: 1, Interval: -time.Second}.Validate())
	assert.NoError(t, PollConfig{MaxAttempts: 1}.Validate())
}
