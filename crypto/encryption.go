package crypto

import "io"

// PGPEncryption is an interface for building encryption pipelines.
// Use the EncryptionHandleBuilder to create a handle that implements
// the interface.
type PGPEncryption interface {
	// EncryptingWriter wraps the output sink, outermost first, in up
	// to four layers (armor, encryption, compression, literal-data
	// framing) and returns the innermost writable handle. Closing the
	// handle cascades through all layers in the correct order but
	// never closes the caller's sink. The handle must be closed
	// exactly once, after all plaintext has been written.
	EncryptingWriter(output io.Writer) (io.WriteCloser, error)
	// Encrypt encrypts a message held in memory.
	Encrypt(message []byte) ([]byte, error)
}

// PGPKeyRingGeneration is an interface for generating secret keyrings.
type PGPKeyRingGeneration interface {
	// Generate produces a new secret keyring.
	Generate() (*SecretKeyRing, error)
}
