package crypto

import (
	"crypto/dsa" //nolint:staticcheck // provider key packets wrap stdlib DSA keys
	"crypto/rand"
	"crypto/rsa"
	"io"
	"math/big"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp/elgamal"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
	"github.com/sealring/sealring/constants"
)

// generateKeyPair produces a private key packet of the requested
// algorithm family and strength. The random source is caller-supplied
// so tests can substitute a deterministic generator.
func generateKeyPair(algorithm string, bits int, random io.Reader, at time.Time) (*packet.PrivateKey, error) {
	switch algorithm {
	case constants.KeyAlgoRSA, constants.KeyAlgoRSASign, constants.KeyAlgoRSAEncrypt:
		key, err := rsa.GenerateKey(random, bits)
		if err != nil {
			return nil, errors.Wrap(err, "sealring: rsa key generation failed")
		}
		return packet.NewRSAPrivateKey(at, key), nil
	case constants.KeyAlgoDSA:
		sizes, err := dsaParameterSizes(bits)
		if err != nil {
			return nil, err
		}
		var key dsa.PrivateKey
		if err := dsa.GenerateParameters(&key.Parameters, random, sizes); err != nil {
			return nil, errors.Wrap(err, "sealring: dsa parameter generation failed")
		}
		if err := dsa.GenerateKey(&key, random); err != nil {
			return nil, errors.Wrap(err, "sealring: dsa key generation failed")
		}
		return packet.NewDSAPrivateKey(at, &key), nil
	case constants.KeyAlgoElGamalEncrypt:
		key, err := generateElGamalKey(bits, random)
		if err != nil {
			return nil, err
		}
		return packet.NewElGamalPrivateKey(at, key), nil
	}
	return nil, configurationError("unknown key algorithm: " + algorithm)
}

func dsaParameterSizes(bits int) (dsa.ParameterSizes, error) {
	switch bits {
	case 1024:
		return dsa.L1024N160, nil
	case 2048:
		return dsa.L2048N256, nil
	case 3072:
		return dsa.L3072N256, nil
	}
	return 0, configurationError("unsupported discrete-log key strength")
}

// generateElGamalKey builds an ElGamal key over a DSA-style prime
// group; the provider exposes no ElGamal parameter generation of its
// own.
func generateElGamalKey(bits int, random io.Reader) (*elgamal.PrivateKey, error) {
	sizes, err := dsaParameterSizes(bits)
	if err != nil {
		return nil, err
	}
	var params dsa.Parameters
	if err := dsa.GenerateParameters(&params, random, sizes); err != nil {
		return nil, errors.Wrap(err, "sealring: elgamal parameter generation failed")
	}
	// Secret exponent in [1, q-1].
	x, err := rand.Int(random, new(big.Int).Sub(params.Q, big.NewInt(1)))
	if err != nil {
		return nil, errors.Wrap(err, "sealring: elgamal key generation failed")
	}
	x.Add(x, big.NewInt(1))
	key := &elgamal.PrivateKey{
		PublicKey: elgamal.PublicKey{
			G: params.G,
			P: params.P,
			Y: new(big.Int).Exp(params.G, x, params.P),
		},
		X: x,
	}
	return key, nil
}

// algorithmCanSign reports whether keys of the algorithm family can
// issue signatures.
func algorithmCanSign(algorithm string) bool {
	switch algorithm {
	case constants.KeyAlgoDSA, constants.KeyAlgoRSA, constants.KeyAlgoRSASign:
		return true
	}
	return false
}

// algorithmCanEncrypt reports whether keys of the algorithm family can
// receive encrypted messages.
func algorithmCanEncrypt(algorithm string) bool {
	switch algorithm {
	case constants.KeyAlgoRSA, constants.KeyAlgoRSAEncrypt, constants.KeyAlgoElGamalEncrypt:
		return true
	}
	return false
}
