package crypto

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEncryptionSubkey(t *testing.T) {
	before := CountSubkeys(testRingA)
	result, err := testPGP.AddSubkeyPair(testRingA, passwordA, constants.KeyUsageEncrypt, &SubkeyOptions{
		Bits: 1024,
	})
	require.NoError(t, err)

	assert.Exactly(t, before+1, CountSubkeys(result))
	assert.Exactly(t, before, CountSubkeys(testRingA))

	sub := result.entity.Subkeys[len(result.entity.Subkeys)-1]
	assert.True(t, sub.Sig.FlagsValid)
	assert.True(t, sub.Sig.FlagEncryptCommunications)
	assert.False(t, sub.Sig.FlagSign)
	assert.True(t, sub.PrivateKey.Encrypted)
}

func TestAddSigningSubkeyCrossSigns(t *testing.T) {
	result, err := testPGP.AddSubkeyPair(testRingB, passwordB, constants.KeyUsageSign, &SubkeyOptions{
		Bits: 1024,
	})
	require.NoError(t, err)

	sub := result.entity.Subkeys[len(result.entity.Subkeys)-1]
	assert.True(t, sub.Sig.FlagSign)
	require.NotNil(t, sub.Sig.EmbeddedSignature)

	// The embedded back-signature must survive the provider encoding.
	reread, err := result.Copy()
	require.NoError(t, err)
	sub = reread.entity.Subkeys[len(reread.entity.Subkeys)-1]
	assert.NotNil(t, sub.Sig.EmbeddedSignature)
	assert.True(t, CanSign(reread, testTime))
}

func TestAddSubkeyWithOwnPassword(t *testing.T) {
	subPassword := []byte("sub only")
	result, err := testPGP.AddSubkeyPair(testRingA, passwordA, constants.KeyUsageEncrypt, &SubkeyOptions{
		Bits:        1024,
		SubPassword: subPassword,
	})
	require.NoError(t, err)

	sub := result.entity.Subkeys[len(result.entity.Subkeys)-1]
	require.True(t, sub.PrivateKey.Encrypted)
	assert.Error(t, sub.PrivateKey.Decrypt(passwordA))
	assert.NoError(t, sub.PrivateKey.Decrypt(subPassword))
}

func TestAddSubkeyUsageMismatch(t *testing.T) {
	_, err := testPGP.AddSubkeyPair(testRingA, passwordA, constants.KeyUsageSign, &SubkeyOptions{
		Algorithm: constants.KeyAlgoElGamalEncrypt,
	})
	assert.True(t, errors.Is(err, ErrConfiguration))

	_, err = testPGP.AddSubkeyPair(testRingA, passwordA, constants.KeyUsageEncrypt, &SubkeyOptions{
		Algorithm: constants.KeyAlgoDSA,
	})
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestAddSubkeyUnknownUsage(t *testing.T) {
	_, err := testPGP.AddSubkeyPair(testRingA, passwordA, "authenticate", nil)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestAddSubkeyWrongPassword(t *testing.T) {
	_, err := testPGP.AddSubkeyPair(testRingA, []byte("wrong"), constants.KeyUsageEncrypt, nil)
	assert.True(t, errors.Is(err, ErrAuthentication))
}
