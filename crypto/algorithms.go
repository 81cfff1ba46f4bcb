package crypto

import (
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/sealring/sealring/constants"
)

// Mapping tables between the closed tag enumerations of this library
// and the provider-level codes. Unmapped tags are an explicit
// configuration error, never a silent default.

var cipherFunctions = map[string]packet.CipherFunction{
	constants.ThreeDES:  packet.Cipher3DES,
	constants.TripleDES: packet.Cipher3DES,
	constants.CAST5:     packet.CipherCAST5,
	constants.AES128:    packet.CipherAES128,
	constants.AES192:    packet.CipherAES192,
	constants.AES256:    packet.CipherAES256,
}

func cipherFunction(name string) (packet.CipherFunction, error) {
	cipher, ok := cipherFunctions[name]
	if ok {
		return cipher, nil
	}
	switch name {
	case constants.Blowfish, constants.Twofish, constants.NoCipher:
		return 0, configurationError("cipher not supported by the provider: " + name)
	}
	return 0, configurationError("unknown cipher: " + name)
}

var certificationTypes = map[string]packet.SignatureType{
	constants.CertNo:       packet.SigTypePersonaCert,
	constants.CertDefault:  packet.SigTypeGenericCert,
	constants.CertCasual:   packet.SigTypeCasualCert,
	constants.CertPositive: packet.SigTypePositiveCert,
}

func certificationType(level string) (packet.SignatureType, error) {
	sigType, ok := certificationTypes[level]
	if !ok {
		return 0, configurationError("unknown certification level: " + level)
	}
	return sigType, nil
}

// reasonUserNoLongerValid is the RFC4880 reason code for "user ID
// information is no longer valid"; the provider treats the code as an
// opaque value.
const reasonUserNoLongerValid = packet.ReasonForRevocation(32)

var revocationReasons = map[string]packet.ReasonForRevocation{
	constants.ReasonNone:              packet.NoReason,
	constants.ReasonKeyCompromised:    packet.KeyCompromised,
	constants.ReasonKeyRetired:        packet.KeyRetired,
	constants.ReasonKeySuperseded:     packet.KeySuperseded,
	constants.ReasonUserNoLongerValid: reasonUserNoLongerValid,
}

func revocationReason(name string) (packet.ReasonForRevocation, error) {
	reason, ok := revocationReasons[name]
	if !ok {
		return 0, configurationError("unknown revocation reason: " + name)
	}
	return reason, nil
}

// Algorithm preferences advertised in generated self-certifications.
var (
	preferredSymmetric   = []uint8{9, 8, 7, 3, 2} // AES256, AES192, AES128, CAST5, 3DES
	preferredHash        = []uint8{8, 9, 10, 11}  // SHA256, SHA384, SHA512, SHA224
	preferredCompression = []uint8{2, 1}          // ZLIB, ZIP
)
