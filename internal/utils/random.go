package utils

import (
	"crypto/rand"
	"math/big"
)

// registrationCodeCharset leaves out 0/O and 1/I so codes stay readable
// when printed on a building's lobby poster.
const registrationCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RegistrationCode generates a random upper-case code of the given length.
func RegistrationCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = registrationCodeCharset[secureRandomInt(len(registrationCodeCharset))]
	}
	return string(b)
}

// SecureToken generates a random alphanumeric token (refresh tokens,
// visitor QR payloads).
func SecureToken(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[secureRandomInt(len(charset))]
	}
	return string(b)
}

func secureRandomInt(max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}
	return int(n.Int64())
}
