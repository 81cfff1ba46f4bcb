package crypto

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRekeyAllKeys(t *testing.T) {
	newPassword := []byte("rotated")
	result, err := testPGP.RekeyPassword(testRingA, passwordA, newPassword, constants.RekeyScopeAll)
	require.NoError(t, err)

	unlocked, err := result.unlock(newPassword)
	require.NoError(t, err)
	assert.False(t, unlocked.IsLocked())

	_, err = result.unlock(passwordA)
	assert.True(t, errors.Is(err, ErrAuthentication))
	// The input ring still opens with the old password.
	_, err = testRingA.unlock(passwordA)
	assert.NoError(t, err)
}

func TestRekeyMasterOnly(t *testing.T) {
	newPassword := []byte("master only")
	result, err := testPGP.RekeyPassword(testRingA, passwordA, newPassword, constants.RekeyScopeMaster)
	require.NoError(t, err)

	master, err := result.Copy()
	require.NoError(t, err)
	assert.Error(t, master.entity.PrivateKey.Decrypt(passwordA))
	assert.NoError(t, master.entity.PrivateKey.Decrypt(newPassword))

	sub, err := result.Copy()
	require.NoError(t, err)
	require.NotEmpty(t, sub.entity.Subkeys)
	assert.Error(t, sub.entity.Subkeys[0].PrivateKey.Decrypt(newPassword))
	assert.NoError(t, sub.entity.Subkeys[0].PrivateKey.Decrypt(passwordA))
}

func TestRekeySubkeysOnly(t *testing.T) {
	newPassword := []byte("subkeys only")
	result, err := testPGP.RekeyPassword(testRingA, passwordA, newPassword, constants.RekeyScopeSubkeys)
	require.NoError(t, err)

	copied, err := result.Copy()
	require.NoError(t, err)
	assert.NoError(t, copied.entity.PrivateKey.Decrypt(passwordA))
	require.NotEmpty(t, copied.entity.Subkeys)
	assert.NoError(t, copied.entity.Subkeys[0].PrivateKey.Decrypt(newPassword))
}

func TestRekeyToEmptyPasswordUnlocks(t *testing.T) {
	result, err := testPGP.RekeyPassword(testRingA, passwordA, nil, constants.RekeyScopeAll)
	require.NoError(t, err)
	assert.False(t, result.IsLocked())
}

func TestRekeyWrongOldPassword(t *testing.T) {
	_, err := testPGP.RekeyPassword(testRingA, []byte("wrong"), []byte("new"), constants.RekeyScopeAll)
	assert.True(t, errors.Is(err, ErrAuthentication))
}

func TestRekeyUnknownScope(t *testing.T) {
	_, err := testPGP.RekeyPassword(testRingA, passwordA, []byte("new"), "everything")
	assert.True(t, errors.Is(err, ErrConfiguration))
}
