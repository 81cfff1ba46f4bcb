package crypto

import (
	"bytes"
	"io"

	"github.com/sealring/sealring/profile"
)

type decryptionHandle struct {
	// Password for password-based decryption.
	Password []byte
	// DecryptionRing and its password for public-key decryption.
	DecryptionRing *SecretKeyRing
	RingPassword   []byte

	profile *profile.Custom
	clock   Clock
}

// --- Default decryption handle to build from

func defaultDecryptionHandle(profile *profile.Custom, clock Clock) *decryptionHandle {
	return &decryptionHandle{
		profile: profile,
		clock:   clock,
	}
}

// --- Implements PGPDecryption interface

func (dh *decryptionHandle) DecryptingReader(ciphertext io.Reader) (*PlaintextReader, error) {
	source, err := unarmorIfNeeded(ciphertext)
	if err != nil {
		return nil, err
	}
	if dh.Password != nil {
		return dh.decryptingReaderWithPassword(source)
	}
	return dh.decryptingReaderWithKeys(source)
}

func (dh *decryptionHandle) Decrypt(ciphertext []byte) ([]byte, *LiteralMetadata, error) {
	reader, err := dh.DecryptingReader(bytes.NewReader(ciphertext))
	if err != nil {
		return nil, nil, err
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		_ = reader.Close()
		return nil, nil, err
	}
	if err := reader.Close(); err != nil {
		return nil, nil, err
	}
	return plaintext, reader.Metadata(), nil
}

func (dh *decryptionHandle) validate() error {
	if dh.Password == nil && dh.DecryptionRing == nil {
		return configurationError("no password or decryption keyring set")
	}
	if dh.Password != nil && dh.DecryptionRing != nil {
		return configurationError("both password and decryption keyring set")
	}
	return nil
}
