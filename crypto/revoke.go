package crypto

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
)

// revokerNotationName tags the notation subpacket that records an
// authorized third-party revoker on a self-certification.
const revokerNotationName = "revoker@sealring.org"

// RevokeOptions configure a revocation.
type RevokeOptions struct {
	// Reason is the typed revocation reason tag.
	// Defaults to constants.ReasonNone.
	Reason string
	// ReasonText carries a free-form explanation.
	ReasonText string
}

// Revoke generates a key-revocation signature over the target's
// master public key and merges it into an updated ring of the same
// variant. The revoker must be the ring's own master key or a
// previously authorized revoker.
func (p *PGPHandle) Revoke(target KeyRing, revoker *SecretKeyRing, password []byte, options *RevokeOptions) (KeyRing, error) {
	if options == nil {
		options = &RevokeOptions{}
	}
	reasonName := options.Reason
	if reasonName == "" {
		reasonName = constants.ReasonNone
	}
	reason, err := revocationReason(reasonName)
	if err != nil {
		return nil, err
	}

	now := p.defaultTime()
	revokerEntity := revoker.Entity()
	if revokerEntity.PrivateKey == nil || revokerEntity.PrivateKey.IsSubkey {
		return nil, capabilityError("revoker master key required")
	}
	if _, ok := revokerEntity.CertificationKey(now); !ok {
		return nil, capabilityError("revoker keyring cannot sign")
	}
	selfRevocation := revokerEntity.PrimaryKey.KeyId == target.PrimaryKey().KeyId
	if !selfRevocation && !authorizedRevokers(target.Entity())[revokerEntity.PrimaryKey.KeyId] {
		return nil, capabilityError("revoker is not authorized for this keyring")
	}

	pub, err := target.Public()
	if err != nil {
		return nil, err
	}
	unlocked, err := revoker.unlock(password)
	if err != nil {
		return nil, err
	}

	config := p.profile.SignConfig()
	config.Time = NewConstantClock(now.Unix())

	sig := newSignaturePacket(revokerEntity.PrimaryKey, packet.SigTypeKeyRevocation, config.Hash(), now)
	sig.RevocationReason = &reason
	sig.RevocationReasonText = options.ReasonText
	if err := sig.RevokeKey(pub.entity.PrimaryKey, unlocked.entity.PrivateKey, config); err != nil {
		return nil, errors.Wrap(err, "sealring: revocation failed")
	}
	pub.entity.Revocations = append(pub.entity.Revocations, sig)
	return target.putPublicRing(pub.entity)
}

// IsRevoked reports whether a valid revocation of the ring's master
// key exists at the handle's current time.
func (p *PGPHandle) IsRevoked(ring KeyRing) bool {
	return ring.IsRevoked(p.defaultTime().Unix())
}

// AddRevoker authorizes the revoker keyring's master key as a valid
// future revoker (and certifier) by recording its algorithm and
// fingerprint in a notation on a fresh standard self-certification.
// This does not itself revoke anything.
func (p *PGPHandle) AddRevoker(ring *SecretKeyRing, password []byte, revoker KeyRing) (*SecretKeyRing, error) {
	now := p.defaultTime()
	entity := ring.Entity()
	if entity.PrivateKey == nil || entity.PrivateKey.IsSubkey {
		return nil, capabilityError("master key required to authorize a revoker")
	}
	if _, ok := entity.CertificationKey(now); !ok {
		return nil, capabilityError("master key cannot sign")
	}

	unlocked, err := ring.unlock(password)
	if err != nil {
		return nil, err
	}
	result, err := ring.Copy()
	if err != nil {
		return nil, err
	}
	prior, ident := result.entity.PrimarySelfSignature()
	if prior == nil || ident == nil {
		return nil, malformedError("keyring has no self-certified identity")
	}

	config := p.profile.SignConfig()
	config.Time = NewConstantClock(now.Unix())

	var lifetime uint32
	if prior.KeyLifetimeSecs != nil {
		lifetime = *prior.KeyLifetimeSecs
	}
	sig := standardSelfSignature(result.entity.PrimaryKey, prior.SigType, config.Hash(), now, lifetime)
	// Carry forward earlier grants, then append the new one.
	for _, notation := range prior.Notations {
		if notation.Name == revokerNotationName {
			sig.Notations = append(sig.Notations, notation)
		}
	}
	sig.Notations = append(sig.Notations, &packet.Notation{
		Name:            revokerNotationName,
		Value:           []byte(revokerGrantValue(revoker.PrimaryKey())),
		IsHumanReadable: true,
	})
	if err := sig.SignUserId(ident.UserId.Id, result.entity.PrimaryKey, unlocked.entity.PrivateKey, config); err != nil {
		return nil, errors.Wrap(err, "sealring: signing the revoker grant failed")
	}
	ident.Signatures = append(ident.Signatures, sig)
	ident.SelfSignature = sig
	return result, nil
}

func revokerGrantValue(key *packet.PublicKey) string {
	return fmt.Sprintf("%d:%X", key.PubKeyAlgo, key.Fingerprint)
}

// authorizedRevokers collects the key ids granted revocation and
// certification authority over the entity via revoker notations on
// its self-certifications.
func authorizedRevokers(e *openpgp.Entity) map[uint64]bool {
	grants := make(map[uint64]bool)
	for _, ident := range e.Identities {
		for _, sig := range ident.Signatures {
			if !sig.CheckKeyIdOrFingerprint(e.PrimaryKey) {
				continue
			}
			for _, notation := range sig.Notations {
				if notation.Name != revokerNotationName {
					continue
				}
				if keyID, ok := parseRevokerGrant(notation.Value); ok {
					grants[keyID] = true
				}
			}
		}
	}
	return grants
}

func parseRevokerGrant(value []byte) (uint64, bool) {
	parts := strings.SplitN(string(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	fingerprint, err := hex.DecodeString(parts[1])
	if err != nil || len(fingerprint) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(fingerprint[len(fingerprint)-8:]), true
}
