package crypto

import (
	"bytes"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
	"github.com/sealring/sealring/armor"
	"github.com/sealring/sealring/constants"
)

// KeyRing is the capability interface shared by the two keyring
// variants. All certification and revocation logic is written once
// against this interface and dispatched by variant.
type KeyRing interface {
	// Entity returns the raw provider ring value.
	Entity() *openpgp.Entity
	// Public projects the shareable subset of the ring.
	Public() (*PublicKeyRing, error)
	// PrimaryKey returns the master public key.
	PrimaryKey() *packet.PublicKey
	// Save encodes the ring's provider form to w, optionally armored.
	Save(w io.Writer, armored bool) error
	// IsRevoked reports whether a valid revocation of the master key
	// exists at the given unix time. Pure read, never errors.
	IsRevoked(unixTime int64) bool

	// putPublicRing returns a clone of the ring with the updated
	// public-side material merged in, re-homed into the same variant.
	putPublicRing(pub *openpgp.Entity) (KeyRing, error)
}

// SecretKeyRing owns all private key material for one logical
// identity: a master key plus zero or more sub-keys, each
// individually password-protected. Values are never mutated in
// place; every operation returns a new ring.
type SecretKeyRing struct {
	entity *openpgp.Entity
}

// PublicKeyRing is the shareable subset of a SecretKeyRing: the
// master public key, sub-key public keys, and all certifications.
type PublicKeyRing struct {
	entity *openpgp.Entity
}

// --- Constructors

// NewSecretKeyRingFromReader reads a binary encoded secret keyring.
func NewSecretKeyRingFromReader(r io.Reader) (*SecretKeyRing, error) {
	entity, err := parseEntity(r)
	if err != nil {
		return nil, err
	}
	if entity.PrivateKey == nil {
		return nil, malformedError("no private key material in secret keyring")
	}
	return &SecretKeyRing{entity: entity}, nil
}

// NewSecretKeyRingFromArmored reads an armored secret keyring.
func NewSecretKeyRingFromArmored(armored string) (*SecretKeyRing, error) {
	body, err := armor.Unarmor(armored)
	if err != nil {
		return nil, malformedError("unarmoring secret keyring failed")
	}
	return NewSecretKeyRingFromReader(bytes.NewReader(body))
}

// NewPublicKeyRingFromReader reads a binary encoded public keyring.
func NewPublicKeyRingFromReader(r io.Reader) (*PublicKeyRing, error) {
	entity, err := parseEntity(r)
	if err != nil {
		return nil, err
	}
	return &PublicKeyRing{entity: entity}, nil
}

// NewPublicKeyRingFromArmored reads an armored public keyring.
func NewPublicKeyRingFromArmored(armored string) (*PublicKeyRing, error) {
	body, err := armor.Unarmor(armored)
	if err != nil {
		return nil, malformedError("unarmoring public keyring failed")
	}
	return NewPublicKeyRingFromReader(bytes.NewReader(body))
}

// parseEntity reads a keyring, tolerating key-revocation signatures
// issued by an authorized third party: the provider's entity reader
// rejects any revocation whose issuer is not the primary key, so those
// are lifted out of the packet stream and re-attached after parsing.
func parseEntity(r io.Reader) (*openpgp.Entity, error) {
	packets := packet.NewReader(r)
	var filtered bytes.Buffer
	var primaryKey *packet.PublicKey
	var foreign []*packet.Signature
	for {
		p, err := packets.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		var serializeErr error
		switch pkt := p.(type) {
		case *packet.PrivateKey:
			if primaryKey == nil {
				primaryKey = &pkt.PublicKey
			}
			serializeErr = pkt.Serialize(&filtered)
		case *packet.PublicKey:
			if primaryKey == nil {
				primaryKey = pkt
			}
			serializeErr = pkt.Serialize(&filtered)
		case *packet.UserId:
			serializeErr = pkt.Serialize(&filtered)
		case *packet.Signature:
			if pkt.SigType == packet.SigTypeKeyRevocation && primaryKey != nil && !pkt.CheckKeyIdOrFingerprint(primaryKey) {
				foreign = append(foreign, pkt)
			} else {
				serializeErr = pkt.Serialize(&filtered)
			}
		default:
			// Skip trust, marker, and other non-key packets; the
			// provider's reader ignores them as well.
		}
		if serializeErr != nil {
			return nil, errors.Wrap(serializeErr, "sealring: reassembling keyring failed")
		}
	}
	entity, err := openpgp.ReadEntity(packet.NewReader(&filtered))
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	entity.Revocations = append(entity.Revocations, foreign...)
	return entity, nil
}

// --- SecretKeyRing

func (skr *SecretKeyRing) Entity() *openpgp.Entity {
	return skr.entity
}

func (skr *SecretKeyRing) PrimaryKey() *packet.PublicKey {
	return skr.entity.PrimaryKey
}

// Public projects the shareable part of the ring.
func (skr *SecretKeyRing) Public() (*PublicKeyRing, error) {
	var buf bytes.Buffer
	if err := skr.entity.Serialize(&buf); err != nil {
		return nil, errors.Wrap(err, "sealring: serializing public ring failed")
	}
	entity, err := parseEntity(&buf)
	if err != nil {
		return nil, err
	}
	return &PublicKeyRing{entity: entity}, nil
}

// Copy returns a deep copy of the ring.
func (skr *SecretKeyRing) Copy() (*SecretKeyRing, error) {
	var buf bytes.Buffer
	if err := skr.entity.SerializePrivateWithoutSigning(&buf, nil); err != nil {
		return nil, errors.Wrap(err, "sealring: serializing secret ring failed")
	}
	entity, err := parseEntity(&buf)
	if err != nil {
		return nil, err
	}
	return &SecretKeyRing{entity: entity}, nil
}

// Save encodes the ring, including private key material, to w.
func (skr *SecretKeyRing) Save(w io.Writer, armored bool) error {
	target := w
	var armorWriter io.WriteCloser
	if armored {
		var err error
		armorWriter, err = armor.ArmorWriterWithType(w, constants.PrivateKeyHeader)
		if err != nil {
			return errors.Wrap(err, "sealring: armoring secret ring failed")
		}
		target = armorWriter
	}
	if err := skr.entity.SerializePrivateWithoutSigning(target, nil); err != nil {
		return errors.Wrap(err, "sealring: saving secret ring failed")
	}
	if armorWriter != nil {
		return armorWriter.Close()
	}
	return nil
}

func (skr *SecretKeyRing) IsRevoked(unixTime int64) bool {
	return entityRevoked(skr.entity, unixTime)
}

func (skr *SecretKeyRing) putPublicRing(pub *openpgp.Entity) (KeyRing, error) {
	if pub.PrimaryKey.KeyId != skr.entity.PrimaryKey.KeyId {
		return nil, capabilityError("public ring does not belong to this secret ring")
	}
	copied, err := skr.Copy()
	if err != nil {
		return nil, err
	}
	mergePublicInto(copied.entity, pub)
	return copied, nil
}

// IsLocked reports whether all private key material is password-protected.
func (skr *SecretKeyRing) IsLocked() bool {
	if skr.entity.PrivateKey == nil || !skr.entity.PrivateKey.Encrypted {
		return false
	}
	for _, sub := range skr.entity.Subkeys {
		if sub.PrivateKey != nil && !sub.PrivateKey.Encrypted {
			return false
		}
	}
	return true
}

// unlock returns a deep copy of the ring with all private keys decrypted.
func (skr *SecretKeyRing) unlock(password []byte) (*SecretKeyRing, error) {
	copied, err := skr.Copy()
	if err != nil {
		return nil, err
	}
	if err := copied.entity.DecryptPrivateKeys(password); err != nil {
		return nil, authenticationError("password does not unlock the secret keyring")
	}
	return copied, nil
}

// --- PublicKeyRing

func (pkr *PublicKeyRing) Entity() *openpgp.Entity {
	return pkr.entity
}

func (pkr *PublicKeyRing) PrimaryKey() *packet.PublicKey {
	return pkr.entity.PrimaryKey
}

// Public returns a deep copy of the ring; a public ring is already
// its own shareable projection.
func (pkr *PublicKeyRing) Public() (*PublicKeyRing, error) {
	return pkr.Copy()
}

// Copy returns a deep copy of the ring.
func (pkr *PublicKeyRing) Copy() (*PublicKeyRing, error) {
	var buf bytes.Buffer
	if err := pkr.entity.Serialize(&buf); err != nil {
		return nil, errors.Wrap(err, "sealring: serializing public ring failed")
	}
	entity, err := parseEntity(&buf)
	if err != nil {
		return nil, err
	}
	return &PublicKeyRing{entity: entity}, nil
}

// Save encodes the ring to w.
func (pkr *PublicKeyRing) Save(w io.Writer, armored bool) error {
	target := w
	var armorWriter io.WriteCloser
	if armored {
		var err error
		armorWriter, err = armor.ArmorWriterWithType(w, constants.PublicKeyHeader)
		if err != nil {
			return errors.Wrap(err, "sealring: armoring public ring failed")
		}
		target = armorWriter
	}
	if err := pkr.entity.Serialize(target); err != nil {
		return errors.Wrap(err, "sealring: saving public ring failed")
	}
	if armorWriter != nil {
		return armorWriter.Close()
	}
	return nil
}

func (pkr *PublicKeyRing) IsRevoked(unixTime int64) bool {
	return entityRevoked(pkr.entity, unixTime)
}

func (pkr *PublicKeyRing) putPublicRing(pub *openpgp.Entity) (KeyRing, error) {
	if pub.PrimaryKey.KeyId != pkr.entity.PrimaryKey.KeyId {
		return nil, capabilityError("public ring does not belong to this keyring")
	}
	return &PublicKeyRing{entity: pub}, nil
}

// --- Shared read accessors

// CanSign reports whether the ring has a signing-capable key at the
// given unix time.
func CanSign(ring KeyRing, unixTime int64) bool {
	_, ok := ring.Entity().SigningKey(time.Unix(unixTime, 0))
	return ok
}

// CanEncrypt reports whether the ring has an encryption-capable key
// at the given unix time.
func CanEncrypt(ring KeyRing, unixTime int64) bool {
	_, ok := ring.Entity().EncryptionKey(time.Unix(unixTime, 0))
	return ok
}

// CountSubkeys returns the number of sub-keys bound to the master key.
func CountSubkeys(ring KeyRing) int {
	return len(ring.Entity().Subkeys)
}

// CountCertifications returns the number of certification signatures
// attached to the given user id.
func CountCertifications(ring KeyRing, userID string) int {
	ident, ok := ring.Entity().Identities[userID]
	if !ok {
		return 0
	}
	count := 0
	for _, sig := range ident.Signatures {
		switch sig.SigType {
		case packet.SigTypeGenericCert, packet.SigTypePersonaCert,
			packet.SigTypeCasualCert, packet.SigTypePositiveCert:
			count++
		}
	}
	return count
}

// Identities returns the sorted user ids claimed by the ring.
func Identities(ring KeyRing) []string {
	ids := make([]string, 0, len(ring.Entity().Identities))
	for name := range ring.Entity().Identities {
		ids = append(ids, name)
	}
	sort.Strings(ids)
	return ids
}

// KeyID returns the 64-bit key identifier of the master key.
func KeyID(ring KeyRing) uint64 {
	return ring.PrimaryKey().KeyId
}

// Fingerprint returns the hex encoded fingerprint of the master key.
func Fingerprint(ring KeyRing) string {
	return strings.ToUpper(hex.EncodeToString(ring.PrimaryKey().Fingerprint))
}

// --- internals

func entityRevoked(e *openpgp.Entity, unixTime int64) bool {
	at := time.Unix(unixTime, 0)
	var revokers map[uint64]bool
	for _, sig := range e.Revocations {
		if sig.SigType != packet.SigTypeKeyRevocation || sig.CreationTime.After(at) {
			continue
		}
		if sig.CheckKeyIdOrFingerprint(e.PrimaryKey) {
			if e.PrimaryKey.VerifyRevocationSignature(sig) == nil {
				return true
			}
			continue
		}
		// The provider offers no way to verify a revocation hash
		// against an alternate issuer, so authorized third-party
		// revocations are matched on the recorded issuer id.
		if revokers == nil {
			revokers = authorizedRevokers(e)
		}
		if sig.IssuerKeyId != nil && revokers[*sig.IssuerKeyId] {
			return true
		}
	}
	return false
}

func mergePublicInto(dst, src *openpgp.Entity) {
	dst.Revocations = src.Revocations
	for name, ident := range src.Identities {
		if d, ok := dst.Identities[name]; ok {
			d.SelfSignature = ident.SelfSignature
			d.Signatures = ident.Signatures
			d.Revocations = ident.Revocations
		} else {
			dst.Identities[name] = ident
		}
	}
	for i := range src.Subkeys {
		for j := range dst.Subkeys {
			if dst.Subkeys[j].PublicKey.KeyId == src.Subkeys[i].PublicKey.KeyId {
				dst.Subkeys[j].Sig = src.Subkeys[i].Sig
				dst.Subkeys[j].Revocations = src.Subkeys[i].Revocations
			}
		}
	}
}
