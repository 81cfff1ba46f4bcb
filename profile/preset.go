package profile

import (
	"crypto"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/ProtonMail/go-crypto/openpgp/s2k"
)

// Default returns a custom profile that supports the classic
// RFC4880 algorithm set, including the legacy DSA and ElGamal
// public key algorithms.
func Default() *Custom {
	return &Custom{
		Name:                 "default",
		Hash:                 crypto.SHA256,
		CipherEncryption:     packet.CipherAES256,
		CipherKeyEncryption:  packet.CipherAES256,
		CompressionAlgorithm: packet.CompressionZLIB,
		CompressionConfiguration: &packet.CompressionConfig{
			Level: 6,
		},
		S2kKeyEncryption: &s2k.Config{
			S2KMode:  s2k.IteratedSaltedS2K,
			Hash:     crypto.SHA256,
			S2KCount: 65536,
		},
		S2kEncryption: &s2k.Config{
			S2KMode:  s2k.IteratedSaltedS2K,
			Hash:     crypto.SHA256,
			S2KCount: 65536,
		},
		AllowAllPublicKeyAlgorithms: true,
		InsecureAllowWeakRSA:        true,
	}
}

// RFC4880 returns a custom profile that conforms with the
// algorithms in RFC4880 without any legacy allowances.
func RFC4880() *Custom {
	return &Custom{
		Name:                 "rfc4880",
		Hash:                 crypto.SHA256,
		CipherEncryption:     packet.CipherAES256,
		CipherKeyEncryption:  packet.CipherAES256,
		CompressionAlgorithm: packet.CompressionZLIB,
	}
}
