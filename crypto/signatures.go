package crypto

import (
	"crypto"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// Signature subpacket assembly. Exactly one "standard" profile is
// used for self-certification during generation and re-certification;
// all other call sites construct a custom subpacket set.

// newSignaturePacket seeds a signature packet issued by the given key.
func newSignaturePacket(signer *packet.PublicKey, sigType packet.SignatureType, hash crypto.Hash, at time.Time) *packet.Signature {
	return &packet.Signature{
		Version:      signer.Version,
		SigType:      sigType,
		PubKeyAlgo:   signer.PubKeyAlgo,
		Hash:         hash,
		CreationTime: at,
		IssuerKeyId:  &signer.KeyId,
	}
}

// standardSelfSignature builds the self-certification subpacket set:
// sign-certify usage flags, the modification-detection feature flag,
// algorithm preferences, and the requested expiration. The provider's
// signature packet exposes no revocable subpacket, so the intended
// non-revocability of these certifications is a policy of this
// library, not a marker on the wire.
func standardSelfSignature(signer *packet.PublicKey, sigType packet.SignatureType, hash crypto.Hash, at time.Time, lifetimeSecs uint32) *packet.Signature {
	sig := newSignaturePacket(signer, sigType, hash, at)
	isPrimaryID := true
	sig.IsPrimaryId = &isPrimaryID
	sig.FlagsValid = true
	sig.FlagSign = true
	sig.FlagCertify = true
	sig.SEIPDv1 = true
	sig.PreferredSymmetric = preferredSymmetric
	sig.PreferredHash = preferredHash
	sig.PreferredCompression = preferredCompression
	if lifetimeSecs > 0 {
		sig.KeyLifetimeSecs = &lifetimeSecs
	}
	return sig
}

// genericCertSignature builds the generic certification subpacket set
// carrying only the issuer id and timestamp.
func genericCertSignature(signer *packet.PublicKey, sigType packet.SignatureType, hash crypto.Hash, at time.Time) *packet.Signature {
	return newSignaturePacket(signer, sigType, hash, at)
}

// subkeyBindingSignature builds the binding subpacket set for a
// sub-key with the given usage flags.
func subkeyBindingSignature(signer *packet.PublicKey, hash crypto.Hash, at time.Time, lifetimeSecs uint32, canSign bool) *packet.Signature {
	sig := newSignaturePacket(signer, packet.SigTypeSubkeyBinding, hash, at)
	sig.FlagsValid = true
	if canSign {
		sig.FlagSign = true
	} else {
		sig.FlagEncryptCommunications = true
		sig.FlagEncryptStorage = true
	}
	if lifetimeSecs > 0 {
		sig.KeyLifetimeSecs = &lifetimeSecs
	}
	return sig
}
