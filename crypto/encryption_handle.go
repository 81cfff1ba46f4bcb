package crypto

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
	"github.com/sealring/sealring/profile"
)

// defaultPartialBlockSize is the plaintext buffering granularity that
// bounds partial-length packet framing.
const defaultPartialBlockSize = 1 << 20

type encryptionHandle struct {
	// Recipients to which the message is encrypted. If empty, a
	// Password must be set instead.
	Recipients []*PublicKeyRing
	// SignRing signs the message in the public-key variant.
	SignRing     *SecretKeyRing
	SignPassword []byte
	// Password triggers password-based encryption.
	Password []byte
	// CipherName selects the symmetric cipher for the encryption layer.
	CipherName string
	// Armored wraps the message in an armor layer.
	Armored bool
	// Compress inserts a compression layer before literal framing.
	Compress bool
	// IntegrityProtect requests a modification-detection packet.
	// The provider only emits integrity protected encrypted-data
	// packets, so disabling it relaxes expectations rather than
	// changing the wire output.
	IntegrityProtect bool
	// PartialBlockSize is the plaintext buffer size in bytes.
	PartialBlockSize int
	// FileName and ModTime are recorded in the literal-data framing.
	FileName string
	ModTime  int64

	profile *profile.Custom
	clock   Clock
}

// --- Default encryption handle to build from

func defaultEncryptionHandle(profile *profile.Custom, clock Clock) *encryptionHandle {
	return &encryptionHandle{
		CipherName:       constants.AES256,
		Compress:         true,
		IntegrityProtect: true,
		PartialBlockSize: defaultPartialBlockSize,
		profile:          profile,
		clock:            clock,
	}
}

// --- Implements PGPEncryption interface

func (eh *encryptionHandle) EncryptingWriter(output io.Writer) (io.WriteCloser, error) {
	if eh.Password != nil {
		return eh.encryptingWriterWithPassword(output)
	}
	return eh.encryptingWriterWithKeys(output)
}

func (eh *encryptionHandle) Encrypt(message []byte) ([]byte, error) {
	var ciphertext bytes.Buffer
	writer, err := eh.EncryptingWriter(&ciphertext)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(message); err != nil {
		return nil, errors.Wrap(err, "sealring: writing message failed")
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return ciphertext.Bytes(), nil
}

func (eh *encryptionHandle) validate() error {
	if eh.Password == nil && len(eh.Recipients) == 0 {
		return configurationError("no password or recipient keyring set")
	}
	if eh.Password != nil && len(eh.Recipients) > 0 {
		return configurationError("both password and recipient keyrings set")
	}
	if eh.SignRing != nil && eh.Password != nil {
		return configurationError("signing requires recipient keyrings")
	}
	if eh.PartialBlockSize <= 0 {
		return configurationError("partial block size must be positive")
	}
	_, err := cipherFunction(eh.CipherName)
	return err
}
