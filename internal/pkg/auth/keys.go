package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

var hkdfSalt = []byte("orderstatus/auth")

// deriveKey stretches an operator supplied secret into keySize bytes bound to purpose.
func deriveKey(secret, purpose string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("auth secret is empty")
	}

	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, []byte(secret), hkdfSalt, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}
