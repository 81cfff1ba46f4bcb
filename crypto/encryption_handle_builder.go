package crypto

import "github.com/sealring/sealring/profile"

// EncryptionHandleBuilder configures an encryption handle.
type EncryptionHandleBuilder struct {
	handle       *encryptionHandle
	defaultClock Clock
	err          error
}

func newEncryptionHandleBuilder(profile *profile.Custom, clock Clock) *EncryptionHandleBuilder {
	return &EncryptionHandleBuilder{
		handle:       defaultEncryptionHandle(profile, clock),
		defaultClock: clock,
	}
}

// Recipient adds a public keyring to which the message should be
// encrypted.
func (epb *EncryptionHandleBuilder) Recipient(ring *PublicKeyRing) *EncryptionHandleBuilder {
	epb.handle.Recipients = append(epb.handle.Recipients, ring)
	return epb
}

// Recipients sets the public keyrings to which the message should be
// encrypted. If not set, use Password for password-based encryption.
func (epb *EncryptionHandleBuilder) Recipients(rings ...*PublicKeyRing) *EncryptionHandleBuilder {
	epb.handle.Recipients = rings
	return epb
}

// SigningKeyRing sets a secret keyring and its password for signing
// the message. Only valid in combination with recipient keyrings.
func (epb *EncryptionHandleBuilder) SigningKeyRing(ring *SecretKeyRing, password []byte) *EncryptionHandleBuilder {
	epb.handle.SignRing = ring
	epb.handle.SignPassword = password
	return epb
}

// Password sets a password the message should be encrypted with.
// Triggers password based encryption with a key derived from the
// password.
func (epb *EncryptionHandleBuilder) Password(password []byte) *EncryptionHandleBuilder {
	epb.handle.Password = password
	return epb
}

// Armor wraps the message in an armor layer. Default off.
func (epb *EncryptionHandleBuilder) Armor() *EncryptionHandleBuilder {
	epb.handle.Armored = true
	return epb
}

// NoCompression skips the compression layer. Compression is on by
// default.
func (epb *EncryptionHandleBuilder) NoCompression() *EncryptionHandleBuilder {
	epb.handle.Compress = false
	return epb
}

// Cipher selects the symmetric cipher of the encryption layer.
// Defaults to constants.AES256.
func (epb *EncryptionHandleBuilder) Cipher(name string) *EncryptionHandleBuilder {
	epb.handle.CipherName = name
	return epb
}

// NoIntegrity drops the expectation of a modification-detection
// packet. Integrity protection is on by default.
func (epb *EncryptionHandleBuilder) NoIntegrity() *EncryptionHandleBuilder {
	epb.handle.IntegrityProtect = false
	return epb
}

// PartialBlockSize sets the plaintext buffer size in bytes for
// partial-length packet framing. Defaults to 1 MiB.
func (epb *EncryptionHandleBuilder) PartialBlockSize(size int) *EncryptionHandleBuilder {
	epb.handle.PartialBlockSize = size
	return epb
}

// FileName records a file name in the literal-data framing.
func (epb *EncryptionHandleBuilder) FileName(name string) *EncryptionHandleBuilder {
	epb.handle.FileName = name
	return epb
}

// ModTime records a unix modification time in the literal-data framing.
func (epb *EncryptionHandleBuilder) ModTime(unixTime int64) *EncryptionHandleBuilder {
	epb.handle.ModTime = unixTime
	return epb
}

// EncryptionTime sets the internal clock to always return the
// supplied unix time instead of the system time.
func (epb *EncryptionHandleBuilder) EncryptionTime(unixTime int64) *EncryptionHandleBuilder {
	epb.handle.clock = NewConstantClock(unixTime)
	return epb
}

// New creates an EncryptionHandle and checks that the given
// combination of parameters is valid. If the parameters are invalid
// an error is returned.
func (epb *EncryptionHandleBuilder) New() (PGPEncryption, error) {
	if epb.err != nil {
		return nil, epb.err
	}
	epb.err = epb.handle.validate()
	if epb.err != nil {
		return nil, epb.err
	}
	handle := epb.handle
	epb.handle = defaultEncryptionHandle(handle.profile, epb.defaultClock)
	return handle, nil
}

// Error returns the build error if any.
func (epb *EncryptionHandleBuilder) Error() error {
	return epb.err
}
