package crypto

import (
	"crypto/rand"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
)

// SubkeyOptions configure a sub-key addition.
type SubkeyOptions struct {
	// Algorithm and Bits override the generated key pair.
	// Defaults per usage: (rsa-sign, 2048) / (rsa-encrypt, 2048).
	Algorithm string
	Bits      int
	// SubPassword protects the new sub-key.
	// Defaults to the master password.
	SubPassword []byte
	// LifetimeSecs expires the sub-key. Zero keeps an infinite lifetime.
	LifetimeSecs uint32
	// Random overrides the random source used during generation.
	Random io.Reader
}

// AddSubkeyPair generates a new key pair and binds it to the ring's
// master key for the given usage. A signing sub-key additionally
// embeds a primary-key-binding cross-signature, attesting back to the
// master, in its binding signature. Existing keys are untouched;
// the sub-key is inserted into a copy of the ring.
func (p *PGPHandle) AddSubkeyPair(ring *SecretKeyRing, password []byte, usage string, options *SubkeyOptions) (*SecretKeyRing, error) {
	if options == nil {
		options = &SubkeyOptions{}
	}
	var signUsage bool
	algorithm := options.Algorithm
	switch usage {
	case constants.KeyUsageSign:
		signUsage = true
		if algorithm == "" {
			algorithm = constants.KeyAlgoRSASign
		}
		if !algorithmCanSign(algorithm) {
			return nil, configurationError("sub-key algorithm cannot sign: " + algorithm)
		}
	case constants.KeyUsageEncrypt:
		if algorithm == "" {
			algorithm = constants.KeyAlgoRSAEncrypt
		}
		if !algorithmCanEncrypt(algorithm) {
			return nil, configurationError("sub-key algorithm cannot encrypt: " + algorithm)
		}
	default:
		return nil, configurationError("unknown key usage: " + usage)
	}
	bits := options.Bits
	if bits == 0 {
		bits = 2048
	}
	subPassword := options.SubPassword
	if subPassword == nil {
		subPassword = password
	}
	random := options.Random
	if random == nil {
		random = rand.Reader
	}

	now := p.defaultTime()
	entity := ring.Entity()
	if entity.PrivateKey == nil || entity.PrivateKey.IsSubkey {
		return nil, capabilityError("master key required to bind a sub-key")
	}
	if _, ok := entity.CertificationKey(now); !ok {
		return nil, capabilityError("master key cannot sign a sub-key binding")
	}

	unlocked, err := ring.unlock(password)
	if err != nil {
		return nil, err
	}

	config := p.profile.SignConfig()
	config.Time = NewConstantClock(now.Unix())
	config.Rand = random

	subKey, err := generateKeyPair(algorithm, bits, random, now)
	if err != nil {
		return nil, err
	}
	subKey.IsSubkey = true
	subKey.PublicKey.IsSubkey = true

	bindingSig := subkeyBindingSignature(entity.PrimaryKey, config.Hash(), now, options.LifetimeSecs, signUsage)
	if signUsage {
		embedded := newSignaturePacket(&subKey.PublicKey, packet.SigTypePrimaryKeyBinding, config.Hash(), now)
		if err := embedded.CrossSignKey(&subKey.PublicKey, unlocked.entity.PrimaryKey, subKey, config); err != nil {
			return nil, errors.Wrap(err, "sealring: cross-signing the sub-key failed")
		}
		bindingSig.EmbeddedSignature = embedded
	}
	if err := bindingSig.SignKey(&subKey.PublicKey, unlocked.entity.PrivateKey, config); err != nil {
		return nil, errors.Wrap(err, "sealring: sub-key binding failed")
	}

	if len(subPassword) > 0 {
		lockConfig := p.profile.KeyEncryptionConfig()
		lockConfig.Rand = random
		if err := packet.EncryptPrivateKeys([]*packet.PrivateKey{subKey}, subPassword, lockConfig); err != nil {
			return nil, errors.Wrap(err, "sealring: locking the sub-key failed")
		}
	}

	result, err := ring.Copy()
	if err != nil {
		return nil, err
	}
	result.entity.Subkeys = append(result.entity.Subkeys, openpgp.Subkey{
		PublicKey:  &subKey.PublicKey,
		PrivateKey: subKey,
		Sig:        bindingSig,
	})
	return result, nil
}
