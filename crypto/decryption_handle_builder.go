package crypto

import "github.com/sealring/sealring/profile"

// DecryptionHandleBuilder configures a decryption handle.
type DecryptionHandleBuilder struct {
	handle       *decryptionHandle
	defaultClock Clock
	err          error
}

func newDecryptionHandleBuilder(profile *profile.Custom, clock Clock) *DecryptionHandleBuilder {
	return &DecryptionHandleBuilder{
		handle:       defaultDecryptionHandle(profile, clock),
		defaultClock: clock,
	}
}

// Password sets the password for password-based decryption.
func (dpb *DecryptionHandleBuilder) Password(password []byte) *DecryptionHandleBuilder {
	dpb.handle.Password = password
	return dpb
}

// DecryptionKeyRing sets the secret keyring and its password for
// public-key decryption.
func (dpb *DecryptionHandleBuilder) DecryptionKeyRing(ring *SecretKeyRing, password []byte) *DecryptionHandleBuilder {
	dpb.handle.DecryptionRing = ring
	dpb.handle.RingPassword = password
	return dpb
}

// DecryptionTime sets the internal clock to always return the
// supplied unix time instead of the system time.
func (dpb *DecryptionHandleBuilder) DecryptionTime(unixTime int64) *DecryptionHandleBuilder {
	dpb.handle.clock = NewConstantClock(unixTime)
	return dpb
}

// New creates a DecryptionHandle and checks that the given
// combination of parameters is valid. If the parameters are invalid
// an error is returned.
func (dpb *DecryptionHandleBuilder) New() (PGPDecryption, error) {
	if dpb.err != nil {
		return nil, dpb.err
	}
	dpb.err = dpb.handle.validate()
	if dpb.err != nil {
		return nil, dpb.err
	}
	handle := dpb.handle
	dpb.handle = defaultDecryptionHandle(handle.profile, dpb.defaultClock)
	return handle, nil
}

// Error returns the build error if any.
func (dpb *DecryptionHandleBuilder) Error() error {
	return dpb.err
}
