package crypto

import (
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
	"github.com/sealring/sealring/armor"
	"github.com/sealring/sealring/internal"
)

// PlaintextReader exposes the payload of the literal-data packet.
// Closing drains any unread plaintext and verifies the integrity
// state collected during parsing; integrity failures are only
// surfaced at close, never mid-read.
type PlaintextReader struct {
	reader   io.Reader
	verifier io.Closer // decrypted encrypted-data stream, nil for the key variant
	details  *openpgp.MessageDetails
	metadata *LiteralMetadata
	pending  error
	closed   bool
}

func (pr *PlaintextReader) Read(b []byte) (n int, err error) {
	n, err = pr.reader.Read(b)
	if err != nil && err != io.EOF {
		if isIntegrityViolation(err) {
			// Held back until Close.
			pr.pending = err
			return n, io.EOF
		}
	}
	return n, err
}

// Metadata returns the literal-data framing information of the message.
func (pr *PlaintextReader) Metadata() *LiteralMetadata {
	return pr.metadata
}

// Close drains unread plaintext and verifies the modification-detection
// state of the message. A failed check is an integrity error. The
// caller's input source is left open.
func (pr *PlaintextReader) Close() error {
	if pr.closed {
		return nil
	}
	pr.closed = true
	if _, err := io.Copy(io.Discard, pr); err != nil {
		return mapVerificationError(err)
	}
	if pr.pending != nil {
		return mapVerificationError(pr.pending)
	}
	if pr.verifier != nil {
		if err := pr.verifier.Close(); err != nil {
			return mapVerificationError(err)
		}
	}
	// Signature state is only known once the stream has been drained;
	// an unknown issuer is tolerated, a failed verification is not.
	if pr.details != nil && pr.details.SignedBy != nil && pr.details.SignatureError != nil {
		return integrityError(pr.details.SignatureError.Error())
	}
	return nil
}

func isIntegrityViolation(err error) bool {
	if errors.Is(err, pgperrors.ErrMDCHashMismatch) || errors.Is(err, pgperrors.ErrMDCMissing) {
		return true
	}
	var sigErr pgperrors.SignatureError
	return errors.As(err, &sigErr)
}

func mapVerificationError(err error) error {
	if isIntegrityViolation(err) {
		return integrityError(err.Error())
	}
	return errors.Wrap(err, "sealring: closing plaintext reader failed")
}

// unarmorIfNeeded detects an armor layer by sniffing the input prefix
// and unwraps it transparently.
func unarmorIfNeeded(ciphertext io.Reader) (io.Reader, error) {
	resetReader := internal.NewResetReader(ciphertext)
	prefix := make([]byte, 64)
	n, err := io.ReadFull(resetReader, prefix)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errors.Wrap(err, "sealring: reading ciphertext failed")
	}
	armored := internal.IsArmored(prefix[:n])
	source, err := resetReader.Reset()
	if err != nil {
		return nil, errors.Wrap(err, "sealring: rewinding ciphertext failed")
	}
	if !armored {
		return source, nil
	}
	body, err := armor.ArmorReader(source)
	if err != nil {
		return nil, malformedError("unarmoring message failed")
	}
	return body, nil
}

// decryptingReaderWithPassword walks the outer packet stream,
// discarding markers and key packets, decrypts the first password
// protected encrypted-data packet, and extracts the literal payload.
func (dh *decryptionHandle) decryptingReaderWithPassword(source io.Reader) (*PlaintextReader, error) {
	packets := packet.NewReader(source)
	var sessionKeyPackets []*packet.SymmetricKeyEncrypted
	var encryptedData *packet.SymmetricallyEncrypted
Walk:
	for {
		p, err := packets.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformedError("parsing message failed: " + err.Error())
		}
		switch pkt := p.(type) {
		case *packet.SymmetricKeyEncrypted:
			sessionKeyPackets = append(sessionKeyPackets, pkt)
		case *packet.SymmetricallyEncrypted:
			encryptedData = pkt
			break Walk
		default:
			// Discard markers, encrypted key packets, and anything
			// else preceding the encrypted data.
		}
	}
	if encryptedData == nil || len(sessionKeyPackets) == 0 {
		return nil, malformedError("no password protected encrypted-data packet found")
	}

	var decrypted io.ReadCloser
	for _, sessionKeyPacket := range sessionKeyPackets {
		sessionKey, cipherFunc, err := sessionKeyPacket.Decrypt(dh.Password)
		if err != nil {
			continue
		}
		decrypted, err = encryptedData.Decrypt(cipherFunc, sessionKey)
		if err == nil {
			break
		}
		decrypted = nil
	}
	if decrypted == nil {
		return nil, authenticationError("password does not decrypt the message")
	}

	literal, err := findLiteral(decrypted)
	if err != nil {
		_ = decrypted.Close()
		return nil, err
	}
	return &PlaintextReader{
		reader:   literal.Body,
		verifier: decrypted,
		metadata: &LiteralMetadata{
			Filename: literal.FileName,
			IsBinary: literal.IsBinary,
			ModTime:  int64(literal.Time),
		},
	}, nil
}

// findLiteral locates the literal-data packet in the decrypted
// stream, descending transparently into a compressed packet.
func findLiteral(decrypted io.Reader) (*packet.LiteralData, error) {
	packets := packet.NewReader(decrypted)
	for {
		p, err := packets.Next()
		if err == io.EOF {
			return nil, malformedError("no literal-data packet found")
		}
		if err != nil {
			if errors.Is(err, pgperrors.ErrKeyIncorrect) {
				return nil, authenticationError("password does not decrypt the message")
			}
			return nil, malformedError("parsing decrypted message failed: " + err.Error())
		}
		switch pkt := p.(type) {
		case *packet.Compressed:
			if err := packets.Push(pkt.Body); err != nil {
				return nil, malformedError("reading compressed packet failed")
			}
		case *packet.LiteralData:
			return pkt, nil
		default:
			// Skip padding and marker packets.
		}
	}
}

// decryptingReaderWithKeys decrypts with the configured secret
// keyring through the provider's composed message reader.
func (dh *decryptionHandle) decryptingReaderWithKeys(source io.Reader) (*PlaintextReader, error) {
	unlocked, err := dh.DecryptionRing.unlock(dh.RingPassword)
	if err != nil {
		return nil, err
	}
	config := dh.profile.EncryptionConfig()
	config.Time = NewConstantClock(dh.clock().Unix())

	messageDetails, err := openpgp.ReadMessage(source, openpgp.EntityList{unlocked.entity}, nil, config)
	if err != nil {
		if errors.Is(err, pgperrors.ErrKeyIncorrect) {
			return nil, authenticationError("keyring does not decrypt the message")
		}
		return nil, malformedError("parsing message failed: " + err.Error())
	}
	literal := messageDetails.LiteralData
	if literal == nil {
		return nil, malformedError("no literal-data packet found")
	}
	return &PlaintextReader{
		reader:  messageDetails.UnverifiedBody,
		details: messageDetails,
		metadata: &LiteralMetadata{
			Filename: literal.FileName,
			IsBinary: literal.IsBinary,
			ModTime:  int64(literal.Time),
		},
	}, nil
}
