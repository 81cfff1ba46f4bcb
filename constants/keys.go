package constants

// Key algorithm names.
const (
	KeyAlgoDSA            = "dsa"
	KeyAlgoRSA            = "rsa"
	KeyAlgoRSASign        = "rsa-sign"
	KeyAlgoRSAEncrypt     = "rsa-encrypt"
	KeyAlgoElGamalEncrypt = "elgamal-encrypt"
)

// Key usage names for sub-key addition.
const (
	KeyUsageSign    = "sign"
	KeyUsageEncrypt = "encrypt"
)

// Certification level names. They select the signature class
// attached to a certification, in increasing order of asserted
// identity verification.
const (
	CertNo       = "no"
	CertDefault  = "default"
	CertCasual   = "casual"
	CertPositive = "positive"
)

// Revocation reason names.
const (
	ReasonNone              = "no-reason"
	ReasonKeyCompromised    = "key-compromised"
	ReasonKeyRetired        = "key-retired"
	ReasonKeySuperseded     = "key-superseded"
	ReasonUserNoLongerValid = "user-no-longer-valid"
)

// Password rotation scopes.
const (
	RekeyScopeAll     = "all"
	RekeyScopeMaster  = "master"
	RekeyScopeSubkeys = "subkeys"
)
