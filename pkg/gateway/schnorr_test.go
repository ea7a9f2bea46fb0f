package gateway

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchnorr_SignVerify(t *testing.T) {
	priv, err := ParsePrivateKey(testZilKey)
	require.NoError(t, err)
	msg := []byte("lock 1 zil")

	sig, err := SignSchnorr(priv, msg)
	require.NoError(t, err)
	require.Len(t, sig, 64)
	assert.True(t, VerifySchnorr(priv.PubKey(), msg, sig))

	// nonces are random, both signatures verify
	sig2, err := SignSchnorr(priv, msg)
	require.NoError(t, err)
	assert.NotEqual(t, sig, sig2)
	assert.True(t, VerifySchnorr(priv.PubKey(), msg, sig2))
}

func TestSchnorr_RejectsTampering(t *testing.T) {
	priv, err := ParsePrivateKey(testZilKey)
	require.NoError(t, err)
	msg := []byte("lock 1 zil")

	sig, err := SignSchnorr(priv, msg)
	require.NoError(t, err)

	assert.False(t, VerifySchnorr(priv.PubKey(), []byte("lock 2 zil"), sig))

	other, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	assert.False(t, VerifySchnorr(other.PubKey(), msg, sig))

	bad := append([]byte(nil), sig...)
	bad[63] ^= 0x01
	assert.False(t, VerifySchnorr(priv.PubKey(), msg, bad))

	assert.False(t, VerifySchnorr(priv.PubKey(), msg, sig[:63]))
	assert.False(t, VerifySchnorr(priv.PubKey(), msg, make([]byte, 64)))
}
