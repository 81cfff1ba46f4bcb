package constants

// Cipher suite names.
const (
	ThreeDES  = "3des"
	TripleDES = "tripledes" // Both "3des" and "tripledes" refer to 3DES.
	CAST5     = "cast5"
	Blowfish  = "blowfish"
	AES128    = "aes128"
	AES192    = "aes192"
	AES256    = "aes256"
	Twofish   = "twofish"
	NoCipher  = "none"
)
