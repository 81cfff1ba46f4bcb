package crypto

import "io"

// PGPDecryption is an interface for building decryption pipelines.
// Use the DecryptionHandleBuilder to create a handle that implements
// the interface.
type PGPDecryption interface {
	// DecryptingReader walks the inverse layers of the ciphertext
	// (de-armor, decrypt, decompress, literal-data extraction) and
	// returns a readable handle over the plaintext. Closing the
	// handle verifies the integrity state collected during parsing;
	// the caller's input source is never closed.
	DecryptingReader(ciphertext io.Reader) (*PlaintextReader, error)
	// Decrypt decrypts a ciphertext held in memory and verifies its
	// integrity.
	Decrypt(ciphertext []byte) ([]byte, *LiteralMetadata, error)
}

// LiteralMetadata describes the literal-data framing of a message.
type LiteralMetadata struct {
	// Filename of the encrypted file, empty for a raw stream.
	Filename string
	// IsBinary indicates if the payload is treated as binary data.
	IsBinary bool
	// ModTime is the unix modification time of the encrypted file.
	ModTime int64
}
