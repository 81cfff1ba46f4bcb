package crypto

import (
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedRingShape(t *testing.T) {
	ring := testRingA

	assert.Exactly(t, 1, CountSubkeys(ring))
	assert.True(t, CanSign(ring, testTime))
	assert.True(t, CanEncrypt(ring, testTime))
	assert.True(t, ring.IsLocked())
	assert.Exactly(t, []string{"a@a.a"}, Identities(ring))
	assert.Exactly(t, 1, CountCertifications(ring, "a@a.a"))

	entity := ring.Entity()
	assert.Exactly(t, packet.PubKeyAlgoDSA, entity.PrimaryKey.PubKeyAlgo)
	require.Len(t, entity.Subkeys, 1)
	assert.Exactly(t, packet.PubKeyAlgoRSA, entity.Subkeys[0].PublicKey.PubKeyAlgo)
	assert.True(t, entity.Subkeys[0].PublicKey.IsSubkey)
}

func TestGenerateWithoutEncryptionKey(t *testing.T) {
	ring, err := testPGP.KeyRingGeneration().
		UserID("sign-only@example.org").
		Password([]byte("pw")).
		MasterKey(constants.KeyAlgoDSA, 1024).
		NoEncryptionKey().
		GenerationTime(testTime).
		New().
		Generate()
	require.NoError(t, err)

	assert.Exactly(t, 0, CountSubkeys(ring))
	assert.True(t, CanSign(ring, testTime))
	assert.False(t, CanEncrypt(ring, testTime))
}

func TestGenerateUnprotectedRing(t *testing.T) {
	ring, err := testPGP.KeyRingGeneration().
		UserID("open@example.org").
		MasterKey(constants.KeyAlgoDSA, 1024).
		EncryptionKey(constants.KeyAlgoRSAEncrypt, 1024).
		GenerationTime(testTime).
		New().
		Generate()
	require.NoError(t, err)
	assert.False(t, ring.IsLocked())
}

func TestGenerateRejectsUnknownAlgorithm(t *testing.T) {
	_, err := testPGP.KeyRingGeneration().
		UserID("x@example.org").
		MasterKey("ed448", 456).
		New().
		Generate()
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestGenerateRejectsEncryptOnlyMaster(t *testing.T) {
	_, err := testPGP.KeyRingGeneration().
		UserID("x@example.org").
		MasterKey(constants.KeyAlgoElGamalEncrypt, 1024).
		New().
		Generate()
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestGenerateRejectsUnknownStrength(t *testing.T) {
	_, err := testPGP.KeyRingGeneration().
		UserID("x@example.org").
		MasterKey(constants.KeyAlgoDSA, 1536).
		New().
		Generate()
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestGenerateRequiresUserID(t *testing.T) {
	_, err := testPGP.KeyRingGeneration().
		MasterKey(constants.KeyAlgoDSA, 1024).
		New().
		Generate()
	assert.True(t, errors.Is(err, ErrConfiguration))
}
