package crypto

import (
	"io"

	"github.com/sealring/sealring/profile"
)

// KeyRingGenerationBuilder configures a handle to generate secret keyrings.
type KeyRingGenerationBuilder struct {
	handle       *keyRingGenerationHandle
	defaultClock Clock
}

func newKeyRingGenerationBuilder(profile *profile.Custom, clock Clock) *KeyRingGenerationBuilder {
	return &KeyRingGenerationBuilder{
		handle:       defaultKeyRingGenerationHandle(profile, clock),
		defaultClock: clock,
	}
}

// UserID sets the user identity string bound to the master key.
func (kgb *KeyRingGenerationBuilder) UserID(userID string) *KeyRingGenerationBuilder {
	kgb.handle.userID = userID
	return kgb
}

// Password sets the password that protects the private key material.
func (kgb *KeyRingGenerationBuilder) Password(password []byte) *KeyRingGenerationBuilder {
	kgb.handle.password = password
	return kgb
}

// MasterKey overrides the master key algorithm and strength.
// Defaults to a DSA key of 2048 bits.
func (kgb *KeyRingGenerationBuilder) MasterKey(algorithm string, bits int) *KeyRingGenerationBuilder {
	kgb.handle.master = keySpec{algorithm, bits}
	return kgb
}

// EncryptionKey overrides the encryption sub-key algorithm and strength.
// Defaults to an RSA encryption key of 2048 bits.
func (kgb *KeyRingGenerationBuilder) EncryptionKey(algorithm string, bits int) *KeyRingGenerationBuilder {
	kgb.handle.encryption = &keySpec{algorithm, bits}
	return kgb
}

// NoEncryptionKey generates a ring without an encryption sub-key.
func (kgb *KeyRingGenerationBuilder) NoEncryptionKey() *KeyRingGenerationBuilder {
	kgb.handle.encryption = nil
	return kgb
}

// Cipher sets the cipher protecting the private key material.
// Defaults to constants.AES256.
func (kgb *KeyRingGenerationBuilder) Cipher(name string) *KeyRingGenerationBuilder {
	kgb.handle.cipherName = name
	return kgb
}

// Lifetime sets the key lifetime in seconds from the generation time.
// The lifetime defaults to zero i.e., infinite lifetime.
func (kgb *KeyRingGenerationBuilder) Lifetime(seconds int32) *KeyRingGenerationBuilder {
	kgb.handle.lifetimeSecs = uint32(seconds)
	return kgb
}

// Level sets the certification level of the self-certification.
// Defaults to constants.CertPositive.
func (kgb *KeyRingGenerationBuilder) Level(level string) *KeyRingGenerationBuilder {
	kgb.handle.level = level
	return kgb
}

// GenerationTime sets the key generation time to the given unixTime.
func (kgb *KeyRingGenerationBuilder) GenerationTime(unixTime int64) *KeyRingGenerationBuilder {
	kgb.handle.clock = NewConstantClock(unixTime)
	return kgb
}

// Random overrides the random source used during generation.
// Defaults to a cryptographically secure source.
func (kgb *KeyRingGenerationBuilder) Random(random io.Reader) *KeyRingGenerationBuilder {
	kgb.handle.random = random
	return kgb
}

// New creates a new key generation handle from the internal
// configuration that allows to generate secret keyrings.
func (kgb *KeyRingGenerationBuilder) New() PGPKeyRingGeneration {
	handle := kgb.handle
	kgb.handle = defaultKeyRingGenerationHandle(handle.profile, kgb.defaultClock)
	return handle
}
