package constants

// Version of the sealring library.
const Version = "1.0.0"

// ArmorHeaderEnabled controls whether default version and comment
// headers are attached to armored output.
const ArmorHeaderEnabled = false
