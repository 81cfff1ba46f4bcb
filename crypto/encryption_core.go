package crypto

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/ProtonMail/go-crypto/openpgp/s2k"
	"github.com/pkg/errors"
	"github.com/sealring/sealring/armor"
	"github.com/sealring/sealring/constants"
)

// pipelineWriteCloser owns the chain of opened pipeline layers.
// Closing flushes the plaintext buffer and closes the layers
// innermost first, exactly once; the caller's sink is never closed.
type pipelineWriteCloser struct {
	buffer  *bufio.Writer
	closers []io.Closer // innermost first
	closed  bool
}

func (pw *pipelineWriteCloser) Write(b []byte) (int, error) {
	return pw.buffer.Write(b)
}

func (pw *pipelineWriteCloser) Close() error {
	if pw.closed {
		return nil
	}
	pw.closed = true
	if err := pw.buffer.Flush(); err != nil {
		return errors.Wrap(err, "sealring: flushing plaintext buffer failed")
	}
	for _, closer := range pw.closers {
		if err := closer.Close(); err != nil {
			return errors.Wrap(err, "sealring: closing encryption pipeline failed")
		}
	}
	return nil
}

// closeOpened releases the layers opened so far after a failure
// partway through building the pipeline.
func closeOpened(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i].Close()
	}
}

// innermostFirst reverses the open order into the close order.
func innermostFirst(closers []io.Closer) []io.Closer {
	ordered := make([]io.Closer, 0, len(closers))
	for i := len(closers) - 1; i >= 0; i-- {
		ordered = append(ordered, closers[i])
	}
	return ordered
}

// encryptingWriterWithPassword layers the sink, outermost first, in
// armor (optional), a password keyed encryption layer, compression
// (optional), and literal-data framing.
func (eh *encryptionHandle) encryptingWriterWithPassword(output io.Writer) (io.WriteCloser, error) {
	cipher, err := cipherFunction(eh.CipherName)
	if err != nil {
		return nil, err
	}
	config := eh.profile.EncryptionConfig()
	config.DefaultCipher = cipher
	config.Time = NewConstantClock(eh.clock().Unix())

	var closers []io.Closer
	target := output
	if eh.Armored {
		armorWriter, err := armor.ArmorWriterWithType(output, constants.PGPMessageHeader)
		if err != nil {
			return nil, errors.Wrap(err, "sealring: opening armor layer failed")
		}
		closers = append(closers, armorWriter)
		target = armorWriter
	}

	sessionKey, err := eh.serializeSessionKeyPacket(target, cipher, config)
	if err != nil {
		closeOpened(closers)
		return nil, err
	}
	encryptionWriter, err := packet.SerializeSymmetricallyEncrypted(target, cipher, false, packet.CipherSuite{}, sessionKey, config)
	if err != nil {
		closeOpened(closers)
		return nil, errors.Wrap(err, "sealring: opening encryption layer failed")
	}
	closers = append(closers, encryptionWriter)

	payloadWriter := encryptionWriter
	if eh.Compress {
		compressedWriter, err := packet.SerializeCompressed(encryptionWriter, eh.profile.CompressionAlgorithm, eh.profile.CompressionConfiguration)
		if err != nil {
			closeOpened(closers)
			return nil, errors.Wrap(err, "sealring: opening compression layer failed")
		}
		closers = append(closers, compressedWriter)
		payloadWriter = compressedWriter
	}

	literalWriter, err := packet.SerializeLiteral(payloadWriter, true, eh.FileName, uint32(eh.ModTime))
	if err != nil {
		closeOpened(closers)
		return nil, errors.Wrap(err, "sealring: opening literal layer failed")
	}
	closers = append(closers, literalWriter)

	return &pipelineWriteCloser{
		buffer:  bufio.NewWriterSize(literalWriter, eh.PartialBlockSize),
		closers: innermostFirst(closers),
	}, nil
}

// serializeSessionKeyPacket writes the password protected session-key
// packet and returns the message key for the encryption layer. The
// provider's reuse-key serializer only accepts AES for the key
// encryption step, so for the classic ciphers the message key is
// derived from the password s2k directly and the packet carries no
// encrypted key body.
func (eh *encryptionHandle) serializeSessionKeyPacket(w io.Writer, cipher packet.CipherFunction, config *packet.Config) ([]byte, error) {
	sessionKey := make([]byte, cipher.KeySize())
	switch cipher {
	case packet.CipherAES128, packet.CipherAES192, packet.CipherAES256:
		if _, err := io.ReadFull(config.Random(), sessionKey); err != nil {
			return nil, errors.Wrap(err, "sealring: generating session key failed")
		}
		if err := packet.SerializeSymmetricKeyEncryptedReuseKey(w, sessionKey, eh.Password, config); err != nil {
			return nil, errors.Wrap(err, "sealring: writing session key packet failed")
		}
		return sessionKey, nil
	}

	var descriptor bytes.Buffer
	if err := s2k.Serialize(&descriptor, sessionKey, config.Random(), eh.Password, eh.profile.S2kEncryption); err != nil {
		return nil, errors.Wrap(err, "sealring: deriving session key failed")
	}
	body := make([]byte, 0, 2+descriptor.Len())
	body = append(body, 4, byte(cipher))
	body = append(body, descriptor.Bytes()...)
	// New-format header for a session-key packet; the body is always
	// shorter than a one-octet length can carry.
	if _, err := w.Write([]byte{0xc3, byte(len(body))}); err != nil {
		return nil, errors.Wrap(err, "sealring: writing session key packet failed")
	}
	if _, err := w.Write(body); err != nil {
		return nil, errors.Wrap(err, "sealring: writing session key packet failed")
	}
	return sessionKey, nil
}

// encryptingWriterWithKeys layers the sink with the provider's
// composed public-key writer, with an optional signature layer,
// beneath the same armor and close discipline.
func (eh *encryptionHandle) encryptingWriterWithKeys(output io.Writer) (io.WriteCloser, error) {
	cipher, err := cipherFunction(eh.CipherName)
	if err != nil {
		return nil, err
	}
	now := eh.clock()
	config := eh.profile.EncryptionConfig()
	config.DefaultCipher = cipher
	config.Time = NewConstantClock(now.Unix())
	if eh.Compress {
		config.DefaultCompressionAlgo = eh.profile.CompressionAlgorithm
		config.CompressionConfig = eh.profile.CompressionConfiguration
	} else {
		config.DefaultCompressionAlgo = packet.CompressionNone
	}

	recipients := make([]*openpgp.Entity, 0, len(eh.Recipients))
	for _, ring := range eh.Recipients {
		if _, ok := ring.entity.EncryptionKey(now); !ok {
			return nil, capabilityError("recipient keyring cannot encrypt")
		}
		recipients = append(recipients, ring.entity)
	}

	var signer *openpgp.Entity
	if eh.SignRing != nil {
		if _, ok := eh.SignRing.entity.SigningKey(now); !ok {
			return nil, capabilityError("signing keyring has no signing-capable key")
		}
		unlocked, err := eh.SignRing.unlock(eh.SignPassword)
		if err != nil {
			return nil, err
		}
		signer = unlocked.entity
	}

	var closers []io.Closer
	target := output
	if eh.Armored {
		armorWriter, err := armor.ArmorWriterWithType(output, constants.PGPMessageHeader)
		if err != nil {
			return nil, errors.Wrap(err, "sealring: opening armor layer failed")
		}
		closers = append(closers, armorWriter)
		target = armorWriter
	}

	hints := &openpgp.FileHints{
		IsBinary: true,
		FileName: eh.FileName,
		ModTime:  time.Unix(eh.ModTime, 0),
	}
	plaintextWriter, err := openpgp.Encrypt(target, recipients, signer, hints, config)
	if err != nil {
		closeOpened(closers)
		return nil, errors.Wrap(err, "sealring: opening encryption layer failed")
	}
	closers = append(closers, plaintextWriter)

	return &pipelineWriteCloser{
		buffer:  bufio.NewWriterSize(plaintextWriter, eh.PartialBlockSize),
		closers: innermostFirst(closers),
	}, nil
}
