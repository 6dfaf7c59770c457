// Package cryptox holds the key and password primitives of the registry:
// per-device symmetric keys and bcrypt password hashes.
package cryptox

import (
	"github.com/dmitrijs2005/devicekeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DeviceKeyLength is the length of a device key in characters.
// It matches the encryptionKey column width.
const DeviceKeyLength = 32

// NewDeviceKey returns a fresh random key of DeviceKeyLength hex characters.
func NewDeviceKey() (string, error) {
	return common.MakeRandHexString(DeviceKeyLength / 2)
}

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// ComparePassword reports whether password matches hash.
func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
