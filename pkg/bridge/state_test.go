package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunState_Advance(t *testing.T) {
	st := &runState{}
	for _, p := range []phase{phaseLockSubmitted, phaseLockConfirmed, phaseDepositObserved} {
		require.NoError(t, st.advance(p))
	}
	assert.True(t, st.depositConfirmed)
	assert.False(t, st.withdrawConfirmed)

	assert.Error(t, st.advance(phaseLockConfirmed), "backwards")
	assert.Error(t, st.advance(phaseDepositObserved), "same phase")
	assert.Error(t, st.advance(phaseWithdrawConfirmed), "skipped phase")
	assert.Equal(t, phaseDepositObserved, st.phase)

	st.pollAttempt = 7
	require.NoError(t, st.advance(phaseWithdrawSubmitted))
	assert.Equal(t, 0, st.pollAttempt)
	require.NoError(t, st.advance(phaseWithdrawConfirmed))
	assert.True(t, st.withdrawConfirmed)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", phaseIdle.String())
	assert.Equal(t, "withdraw_confirmed", phaseWithdrawConfirmed.String())
	assert.Equal(t, "phase(42)", phase(42).String())
}
