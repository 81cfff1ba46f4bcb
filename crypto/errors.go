package crypto

import "github.com/pkg/errors"

// The error categories of this package. Every error returned by an
// operation or a pipeline wraps exactly one of these sentinels, so
// callers can discriminate with errors.Is.
var (
	// ErrConfiguration reports an unrecognized algorithm, cipher,
	// level, reason, usage, or scope tag.
	ErrConfiguration = errors.New("sealring: invalid configuration")
	// ErrCapability reports a violated precondition on a key role
	// (master, signing-capable, encryption-capable).
	ErrCapability = errors.New("sealring: key capability violation")
	// ErrAuthentication reports that a supplied password failed to
	// decrypt the targeted private key or message.
	ErrAuthentication = errors.New("sealring: authentication failed")
	// ErrMalformed reports that an expected encrypted-data or
	// literal-data packet could not be located in the input.
	ErrMalformed = errors.New("sealring: malformed input")
	// ErrIntegrity reports a failed modification-detection check.
	// It is only surfaced at close time, never mid-read.
	ErrIntegrity = errors.New("sealring: integrity check failed")
)

func configurationError(msg string) error {
	return errors.Wrap(ErrConfiguration, msg)
}

func capabilityError(msg string) error {
	return errors.Wrap(ErrCapability, msg)
}

func authenticationError(msg string) error {
	return errors.Wrap(ErrAuthentication, msg)
}

func malformedError(msg string) error {
	return errors.Wrap(ErrMalformed, msg)
}

func integrityError(msg string) error {
	return errors.Wrap(ErrIntegrity, msg)
}
