// Package hasher provides password hashing implementations.
package hasher

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"github.com/blackforge/storefront/ports"
	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. N=32768 matches the interactive-login cost the
// rest of the stored records were derived with; changing it invalidates
// every stored hash.
const (
	scryptN       = 32768
	scryptR       = 8
	scryptP       = 1
	scryptKeyLen  = 64
	scryptSaltLen = 16
)

// Scrypt derives memory-hard password hashes with a per-record salt.
type Scrypt struct{}

// NewScrypt creates an scrypt hasher.
func NewScrypt() *Scrypt {
	return &Scrypt{}
}

// Hash derives a hash from plaintext under a fresh 16-byte random salt.
func (h *Scrypt) Hash(plaintext string) ([]byte, []byte, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}

	hash, err := scrypt.Key([]byte(plaintext), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, nil, fmt.Errorf("derive key: %w", err)
	}
	return salt, hash, nil
}

// Compare re-derives the hash under salt and checks it in constant time.
func (h *Scrypt) Compare(salt, hash []byte, plaintext string) bool {
	derived, err := scrypt.Key([]byte(plaintext), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, hash) == 1
}

// Ensure interface compliance.
var _ ports.Hasher = (*Scrypt)(nil)

// Fake provides a no-op hasher for testing (NOT FOR PRODUCTION).
type Fake struct{}

// Hash returns a fixed salt and the plaintext as the hash.
func (Fake) Hash(plaintext string) ([]byte, []byte, error) {
	return []byte("salt"), []byte(plaintext), nil
}

// Compare does simple equality check.
func (Fake) Compare(salt, hash []byte, plaintext string) bool {
	return string(hash) == plaintext
}

// Ensure interface compliance.
var _ ports.Hasher = Fake{}
