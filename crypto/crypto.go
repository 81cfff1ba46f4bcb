// Package crypto provides a high-level API for OpenPGP message protection
// and keyring lifecycle management.
//
// # Usage
//
// To get a concrete instantiation of the API use the top level [PGPHandle] by
// calling PGP() or PGPWithProfile(...). An example to encrypt with a password:
//
//	pgp := PGP()
//	encHandle, _ := pgp.Encryption().Password(password).New()
package crypto

import (
	"time"

	"github.com/sealring/sealring/profile"
)

type PGPHandle struct {
	profile     *profile.Custom
	defaultTime Clock
}

// PGP creates a PGPHandle to interact with the API.
// Uses the default profile for configuration.
func PGP() *PGPHandle {
	return PGPWithProfile(profile.Default())
}

// PGPWithProfile creates a PGPHandle to interact with the API.
// Uses the provided profile for configuration.
func PGPWithProfile(profile *profile.Custom) *PGPHandle {
	return &PGPHandle{
		profile:     profile,
		defaultTime: time.Now,
	}
}

// Encryption returns a builder to create an EncryptionHandle
// for building encryption pipelines.
func (p *PGPHandle) Encryption() *EncryptionHandleBuilder {
	return newEncryptionHandleBuilder(p.profile, p.defaultTime)
}

// Decryption returns a builder to create a DecryptionHandle
// for building decryption pipelines.
func (p *PGPHandle) Decryption() *DecryptionHandleBuilder {
	return newDecryptionHandleBuilder(p.profile, p.defaultTime)
}

// KeyRingGeneration returns a builder to create a handle
// for generating secret keyrings.
func (p *PGPHandle) KeyRingGeneration() *KeyRingGenerationBuilder {
	return newKeyRingGenerationBuilder(p.profile, p.defaultTime)
}
