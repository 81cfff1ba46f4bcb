package crypto

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessage = []byte("The quick brown fox jumps over the lazy dog.\n")

func TestPasswordRoundTrip(t *testing.T) {
	password := []byte("secret horse battery")
	for _, armored := range []bool{false, true} {
		for _, compress := range []bool{false, true} {
			for _, cipher := range []string{constants.AES128, constants.AES256, constants.ThreeDES, constants.CAST5} {
				name := fmt.Sprintf("armor=%v/compress=%v/%s", armored, compress, cipher)
				t.Run(name, func(t *testing.T) {
					builder := testPGP.Encryption().Password(password).Cipher(cipher)
					if armored {
						builder = builder.Armor()
					}
					if !compress {
						builder = builder.NoCompression()
					}
					encHandle, err := builder.New()
					require.NoError(t, err)
					ciphertext, err := encHandle.Encrypt(testMessage)
					require.NoError(t, err)

					decHandle, err := testPGP.Decryption().Password(password).New()
					require.NoError(t, err)
					plaintext, _, err := decHandle.Decrypt(ciphertext)
					require.NoError(t, err)
					assert.Exactly(t, testMessage, plaintext)
				})
			}
		}
	}
}

type closeRecordingBuffer struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecordingBuffer) Close() error {
	c.closed = true
	return nil
}

func TestEncryptingWriterNeverClosesSink(t *testing.T) {
	var sink closeRecordingBuffer
	encHandle, err := testPGP.Encryption().Password([]byte("pw")).Armor().New()
	require.NoError(t, err)
	writer, err := encHandle.EncryptingWriter(&sink)
	require.NoError(t, err)
	_, err = writer.Write(testMessage)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	assert.False(t, sink.closed)

	// Closing twice is a no-op.
	assert.NoError(t, writer.Close())
}

func TestDecryptingReaderNeverClosesSource(t *testing.T) {
	encHandle, err := testPGP.Encryption().Password([]byte("pw")).New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(testMessage)
	require.NoError(t, err)

	decHandle, err := testPGP.Decryption().Password([]byte("pw")).New()
	require.NoError(t, err)
	reader, err := decHandle.DecryptingReader(bytes.NewReader(ciphertext))
	require.NoError(t, err)
	plaintext, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Exactly(t, testMessage, plaintext)
}

func TestWrongPasswordIsAuthenticationError(t *testing.T) {
	encHandle, err := testPGP.Encryption().Password([]byte("right")).New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(testMessage)
	require.NoError(t, err)

	decHandle, err := testPGP.Decryption().Password([]byte("wrong")).New()
	require.NoError(t, err)
	_, _, err = decHandle.Decrypt(ciphertext)
	assert.True(t, errors.Is(err, ErrAuthentication))
}

func TestGarbageInputIsMalformedError(t *testing.T) {
	decHandle, err := testPGP.Decryption().Password([]byte("pw")).New()
	require.NoError(t, err)
	_, _, err = decHandle.Decrypt([]byte{0x00, 0x01, 0x02, 0x03})
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.False(t, errors.Is(err, ErrIntegrity))
}

func TestBitFlippedCiphertextFailsAtClose(t *testing.T) {
	password := []byte("pw")
	message := bytes.Repeat([]byte("integrity"), 512)
	encHandle, err := testPGP.Encryption().Password(password).NoCompression().New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(message)
	require.NoError(t, err)

	// Flip a byte inside the encrypted literal body, away from the
	// packet headers and the detection-code trailer.
	ciphertext[len(ciphertext)-100] ^= 0x40

	decHandle, err := testPGP.Decryption().Password(password).New()
	require.NoError(t, err)
	reader, err := decHandle.DecryptingReader(bytes.NewReader(ciphertext))
	require.NoError(t, err)
	_, _ = io.ReadAll(reader)
	err = reader.Close()
	assert.True(t, errors.Is(err, ErrIntegrity))
}

func TestNoIntegrityExpectationClosesClean(t *testing.T) {
	password := []byte("pw")
	encHandle, err := testPGP.Encryption().Password(password).NoIntegrity().New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(testMessage)
	require.NoError(t, err)

	decHandle, err := testPGP.Decryption().Password(password).New()
	require.NoError(t, err)
	reader, err := decHandle.DecryptingReader(bytes.NewReader(ciphertext))
	require.NoError(t, err)
	plaintext, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.NoError(t, reader.Close())
	assert.Exactly(t, testMessage, plaintext)
}

func TestArmorIsDetectedAutomatically(t *testing.T) {
	password := []byte("pw")
	encHandle, err := testPGP.Encryption().Password(password).Armor().New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(testMessage)
	require.NoError(t, err)
	assert.Contains(t, string(ciphertext), "-----BEGIN PGP MESSAGE-----")

	decHandle, err := testPGP.Decryption().Password(password).New()
	require.NoError(t, err)
	plaintext, _, err := decHandle.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Exactly(t, testMessage, plaintext)
}

func TestLiteralMetadataRoundTrip(t *testing.T) {
	password := []byte("pw")
	encHandle, err := testPGP.Encryption().
		Password(password).
		FileName("notes.txt").
		ModTime(testTime).
		New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(testMessage)
	require.NoError(t, err)

	decHandle, err := testPGP.Decryption().Password(password).New()
	require.NoError(t, err)
	_, metadata, err := decHandle.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Exactly(t, "notes.txt", metadata.Filename)
	assert.Exactly(t, int64(testTime), metadata.ModTime)
	assert.True(t, metadata.IsBinary)
}

func TestUnknownCipherIsConfigurationError(t *testing.T) {
	_, err := testPGP.Encryption().Password([]byte("pw")).Cipher("rot13").New()
	assert.True(t, errors.Is(err, ErrConfiguration))

	_, err = testPGP.Encryption().Password([]byte("pw")).Cipher(constants.Twofish).New()
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestEncryptionRequiresProtectionTarget(t *testing.T) {
	_, err := testPGP.Encryption().New()
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestPublicKeyRoundTripWithSignature(t *testing.T) {
	recipient, err := testRingA.Public()
	require.NoError(t, err)

	encHandle, err := testPGP.Encryption().
		Recipient(recipient).
		SigningKeyRing(testRingB, passwordB).
		Armor().
		New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(testMessage)
	require.NoError(t, err)

	decHandle, err := testPGP.Decryption().DecryptionKeyRing(testRingA, passwordA).New()
	require.NoError(t, err)
	plaintext, _, err := decHandle.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Exactly(t, testMessage, plaintext)
}

func TestClassicCipherWrongPassword(t *testing.T) {
	encHandle, err := testPGP.Encryption().Password([]byte("right")).Cipher(constants.ThreeDES).New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(testMessage)
	require.NoError(t, err)

	decHandle, err := testPGP.Decryption().Password([]byte("wrong")).New()
	require.NoError(t, err)
	_, _, err = decHandle.Decrypt(ciphertext)
	assert.True(t, errors.Is(err, ErrAuthentication))
}

func TestSignedMessageVerifiedAtClose(t *testing.T) {
	recipient, err := testRingA.Public()
	require.NoError(t, err)
	encHandle, err := testPGP.Encryption().
		Recipient(recipient).
		SigningKeyRing(testRingA, passwordA).
		New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(testMessage)
	require.NoError(t, err)

	// The decryption ring is also the signer, so the signature is
	// actually checked when the stream is drained at close.
	decHandle, err := testPGP.Decryption().DecryptionKeyRing(testRingA, passwordA).New()
	require.NoError(t, err)
	reader, err := decHandle.DecryptingReader(bytes.NewReader(ciphertext))
	require.NoError(t, err)
	plaintext, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.NoError(t, reader.Close())
	assert.Exactly(t, testMessage, plaintext)
}

func TestPublicKeyDecryptionWrongRingPassword(t *testing.T) {
	recipient, err := testRingA.Public()
	require.NoError(t, err)
	encHandle, err := testPGP.Encryption().Recipient(recipient).New()
	require.NoError(t, err)
	ciphertext, err := encHandle.Encrypt(testMessage)
	require.NoError(t, err)

	decHandle, err := testPGP.Decryption().DecryptionKeyRing(testRingA, []byte("wrong")).New()
	require.NoError(t, err)
	_, _, err = decHandle.Decrypt(ciphertext)
	assert.True(t, errors.Is(err, ErrAuthentication))
}
