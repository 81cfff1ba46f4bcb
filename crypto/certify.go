package crypto

import (
	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
)

// CertifyOptions configure a certification.
type CertifyOptions struct {
	// Level is the certification strength tag.
	// Defaults to constants.CertPositive.
	Level string
	// LifetimeSecs re-expires the identity on a self-certification.
	// Zero keeps an infinite lifetime.
	LifetimeSecs uint32
}

// Certify generates a certification signature binding the user id to
// the keyring's master key, signed by the signer's master key at the
// requested level, and returns an updated ring of the same variant.
//
// Self-signing is detected by comparing key identifiers and selects
// the standard self-certification subpacket set; any other signer
// must have been authorized beforehand and produces a generic
// certification carrying only issuer id and timestamp.
func (p *PGPHandle) Certify(target KeyRing, userID string, signer *SecretKeyRing, password []byte, options *CertifyOptions) (KeyRing, error) {
	if options == nil {
		options = &CertifyOptions{}
	}
	level := options.Level
	if level == "" {
		level = constants.CertPositive
	}
	sigType, err := certificationType(level)
	if err != nil {
		return nil, err
	}

	// Capability checks precede any cryptographic work.
	now := p.defaultTime()
	signerEntity := signer.Entity()
	if signerEntity.PrivateKey == nil || signerEntity.PrivateKey.IsSubkey {
		return nil, capabilityError("signer master key required")
	}
	if _, ok := signerEntity.CertificationKey(now); !ok {
		return nil, capabilityError("signer keyring cannot certify")
	}
	selfSigning := signerEntity.PrimaryKey.KeyId == target.PrimaryKey().KeyId
	if !selfSigning && !authorizedRevokers(target.Entity())[signerEntity.PrimaryKey.KeyId] {
		return nil, capabilityError("signer is not authorized to certify this keyring")
	}

	pub, err := target.Public()
	if err != nil {
		return nil, err
	}
	ident, ok := pub.entity.Identities[userID]
	if !ok {
		return nil, configurationError("user id not present in keyring: " + userID)
	}

	unlocked, err := signer.unlock(password)
	if err != nil {
		return nil, err
	}

	config := p.profile.SignConfig()
	config.Time = NewConstantClock(now.Unix())

	sig := genericCertSignature(signerEntity.PrimaryKey, sigType, config.Hash(), now)
	if selfSigning {
		sig = standardSelfSignature(signerEntity.PrimaryKey, sigType, config.Hash(), now, options.LifetimeSecs)
	}
	if err := sig.SignUserId(userID, pub.entity.PrimaryKey, unlocked.entity.PrivateKey, config); err != nil {
		return nil, errors.Wrap(err, "sealring: certification failed")
	}
	ident.Signatures = append(ident.Signatures, sig)
	if selfSigning {
		ident.SelfSignature = sig
	}
	return target.putPublicRing(pub.entity)
}
