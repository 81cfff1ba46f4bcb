package crypto

import (
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
)

// RekeyPassword replaces the password protection of the selected
// private-key subset and returns a new ring. The scope selects the
// master key, the sub-keys, or all of them; entries outside the
// scope are left byte-identical.
func (p *PGPHandle) RekeyPassword(ring *SecretKeyRing, oldPassword, newPassword []byte, scope string) (*SecretKeyRing, error) {
	switch scope {
	case constants.RekeyScopeAll, constants.RekeyScopeMaster, constants.RekeyScopeSubkeys:
	default:
		return nil, configurationError("unknown rekey scope: " + scope)
	}
	entity := ring.Entity()
	if entity.PrivateKey == nil || entity.PrivateKey.IsSubkey {
		return nil, capabilityError("master key required to rotate passwords")
	}

	result, err := ring.Copy()
	if err != nil {
		return nil, err
	}
	var keys []*packet.PrivateKey
	if scope != constants.RekeyScopeSubkeys {
		keys = append(keys, result.entity.PrivateKey)
	}
	if scope != constants.RekeyScopeMaster {
		for _, sub := range result.entity.Subkeys {
			if sub.PrivateKey != nil {
				keys = append(keys, sub.PrivateKey)
			}
		}
	}

	if err := packet.DecryptPrivateKeys(keys, oldPassword); err != nil {
		return nil, authenticationError("old password does not unlock the selected keys")
	}
	if len(newPassword) > 0 {
		config := p.profile.KeyEncryptionConfig()
		if err := packet.EncryptPrivateKeys(keys, newPassword, config); err != nil {
			return nil, errors.Wrap(err, "sealring: re-protecting the selected keys failed")
		}
	}
	return result, nil
}
