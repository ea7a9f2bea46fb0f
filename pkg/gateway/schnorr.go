package gateway

import (
	"crypto/sha256"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
)

// maxSignAttempts bounds the nonce retries for a zero r or s
const maxSignAttempts = 16

// SignSchnorr signs msg with the Zilliqa Schnorr scheme and returns r||s (64 bytes):
//
//	Q = kG, r = H(Q || P || msg) mod n, s = k - r*x mod n
func SignSchnorr(priv *btcec.PrivateKey, msg []byte) ([]byte, error) {
	pub := priv.PubKey().SerializeCompressed()

	for i := 0; i < maxSignAttempts; i++ {
		k, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, err
		}

		var q btcec.JacobianPoint
		btcec.ScalarBaseMultNonConst(&k.Key, &q)
		q.ToAffine()

		r := schnorrChallenge(btcec.NewPublicKey(&q.X, &q.Y).SerializeCompressed(), pub, msg)
		if r.IsZero() {
			continue
		}

		var s btcec.ModNScalar
		s.Mul2(&r, &priv.Key).Negate().Add(&k.Key)
		if s.IsZero() {
			continue
		}

		rb, sb := r.Bytes(), s.Bytes()
		sig := make([]byte, 0, 64)
		sig = append(sig, rb[:]...)
		return append(sig, sb[:]...), nil
	}

	return nil, errors.New("schnorr: failed to produce a signature")
}

// VerifySchnorr checks a r||s signature produced by SignSchnorr
func VerifySchnorr(pub *btcec.PublicKey, msg, sig []byte) bool {
	if len(sig) != 64 {
		return false
	}

	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() {
		return false
	}

	// Q = sG + rP
	var p, sG, rP, q btcec.JacobianPoint
	pub.AsJacobian(&p)
	btcec.ScalarBaseMultNonConst(&s, &sG)
	btcec.ScalarMultNonConst(&r, &p, &rP)
	btcec.AddNonConst(&sG, &rP, &q)
	if (q.X.IsZero() && q.Y.IsZero()) || q.Z.IsZero() {
		return false
	}
	q.ToAffine()

	expected := schnorrChallenge(btcec.NewPublicKey(&q.X, &q.Y).SerializeCompressed(), pub.SerializeCompressed(), msg)
	return expected.Equals(&r)
}

func schnorrChallenge(q, pub, msg []byte) btcec.ModNScalar {
	h := sha256.New()
	h.Write(q)
	h.Write(pub)
	h.Write(msg)

	var r btcec.ModNScalar
	r.SetByteSlice(h.Sum(nil))
	return r
}
