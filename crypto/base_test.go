package crypto

import (
	"github.com/sealring/sealring/constants"
)

const testTime = 1557754627 // 2019-05-13T13:37:07+00:00

var (
	testPGP = PGP()

	passwordA = []byte("pwA")
	passwordB = []byte("pwB")
	passwordC = []byte("pwC")

	// Shared fixture rings; tests must not mutate them and operate
	// on copies or operation results instead.
	testRingA *SecretKeyRing
	testRingB *SecretKeyRing
	testRingC *SecretKeyRing
)

func init() {
	testPGP.defaultTime = NewConstantClock(testTime)

	testRingA = mustGenerateRing("a@a.a", passwordA)
	testRingB = mustGenerateRing("b@b.b", passwordB)
	testRingC = mustGenerateRing("c@c.c", passwordC)
}

// mustGenerateRing builds a fixture ring with short discrete-log and
// RSA parameters to keep the suite fast.
func mustGenerateRing(userID string, password []byte) *SecretKeyRing {
	ring, err := testPGP.KeyRingGeneration().
		UserID(userID).
		Password(password).
		MasterKey(constants.KeyAlgoDSA, 1024).
		EncryptionKey(constants.KeyAlgoRSAEncrypt, 1024).
		GenerationTime(testTime).
		New().
		Generate()
	if err != nil {
		panic(err)
	}
	return ring
}
