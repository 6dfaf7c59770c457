package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes to generate before
// encoding them, so the final string is twice as long.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NullableString maps the empty string to nil so optional columns are
// stored as SQL NULL.
func NullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
