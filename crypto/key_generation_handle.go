package crypto

import (
	"crypto/rand"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
	"github.com/sealring/sealring/profile"
)

// keySpec selects an algorithm family and a strength in bits.
type keySpec struct {
	algorithm string
	bits      int
}

type keyRingGenerationHandle struct {
	userID       string
	password     []byte
	master       keySpec
	encryption   *keySpec
	cipherName   string
	lifetimeSecs uint32
	level        string
	random       io.Reader
	profile      *profile.Custom
	clock        Clock
}

// --- Default key generation handle to build from

func defaultKeyRingGenerationHandle(profile *profile.Custom, clock Clock) *keyRingGenerationHandle {
	return &keyRingGenerationHandle{
		master:     keySpec{constants.KeyAlgoDSA, 2048},
		encryption: &keySpec{constants.KeyAlgoRSAEncrypt, 2048},
		cipherName: constants.AES256,
		level:      constants.CertPositive,
		random:     rand.Reader,
		profile:    profile,
		clock:      clock,
	}
}

// Generate produces a new secret keyring: a master key carrying the
// standard self-certification over the user id, optionally an
// encryption sub-key, all private material locked under the password.
func (kgh *keyRingGenerationHandle) Generate() (*SecretKeyRing, error) {
	sigType, err := certificationType(kgh.level)
	if err != nil {
		return nil, err
	}
	protectionCipher, err := cipherFunction(kgh.cipherName)
	if err != nil {
		return nil, err
	}
	if kgh.userID == "" {
		return nil, configurationError("a user id is required to generate a keyring")
	}
	if !algorithmCanSign(kgh.master.algorithm) {
		return nil, configurationError("master key algorithm cannot sign: " + kgh.master.algorithm)
	}
	if kgh.encryption != nil && !algorithmCanEncrypt(kgh.encryption.algorithm) {
		return nil, configurationError("encryption key algorithm cannot encrypt: " + kgh.encryption.algorithm)
	}

	now := kgh.clock()
	config := kgh.profile.SignConfig()
	config.Time = NewConstantClock(now.Unix())
	config.Rand = kgh.random

	masterKey, err := generateKeyPair(kgh.master.algorithm, kgh.master.bits, kgh.random, now)
	if err != nil {
		return nil, err
	}
	entity := &openpgp.Entity{
		PrimaryKey: &masterKey.PublicKey,
		PrivateKey: masterKey,
		Identities: make(map[string]*openpgp.Identity),
	}

	uid := packet.NewUserId(kgh.userID, "", "")
	if uid == nil {
		uid = &packet.UserId{Id: kgh.userID}
	}
	selfSig := standardSelfSignature(entity.PrimaryKey, sigType, config.Hash(), now, kgh.lifetimeSecs)
	if err := selfSig.SignUserId(uid.Id, entity.PrimaryKey, masterKey, config); err != nil {
		return nil, errors.Wrap(err, "sealring: self-certification failed")
	}
	entity.Identities[uid.Id] = &openpgp.Identity{
		Name:          uid.Id,
		UserId:        uid,
		SelfSignature: selfSig,
		Signatures:    []*packet.Signature{selfSig},
	}

	if kgh.encryption != nil {
		subKey, err := generateKeyPair(kgh.encryption.algorithm, kgh.encryption.bits, kgh.random, now)
		if err != nil {
			return nil, err
		}
		subKey.IsSubkey = true
		subKey.PublicKey.IsSubkey = true
		bindingSig := subkeyBindingSignature(entity.PrimaryKey, config.Hash(), now, kgh.lifetimeSecs, false)
		if err := bindingSig.SignKey(&subKey.PublicKey, masterKey, config); err != nil {
			return nil, errors.Wrap(err, "sealring: sub-key binding failed")
		}
		entity.Subkeys = append(entity.Subkeys, openpgp.Subkey{
			PublicKey:  &subKey.PublicKey,
			PrivateKey: subKey,
			Sig:        bindingSig,
		})
	}

	if len(kgh.password) > 0 {
		lockConfig := kgh.profile.KeyEncryptionConfig()
		lockConfig.DefaultCipher = protectionCipher
		lockConfig.Rand = kgh.random
		if err := entity.EncryptPrivateKeys(kgh.password, lockConfig); err != nil {
			return nil, errors.Wrap(err, "sealring: locking the secret keyring failed")
		}
	}

	// Round-trip through the provider encoding so the emitted secret
	// ring and its public projection stay consistent.
	ring := &SecretKeyRing{entity: entity}
	return ring.Copy()
}
