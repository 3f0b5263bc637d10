// Package passwd derives and checks the stored credential representation of a password.
package passwd

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes passwords with bcrypt. Plaintext is first reduced to a fixed-size
// SHA-256 digest so passwords past bcrypt's 72 byte input limit are accepted in full.
// The zero value uses bcrypt.DefaultCost.
type Hasher struct {
	Cost int
}

// New returns a Hasher with the given bcrypt cost. Out of range costs fall back to the default.
func New(cost int) Hasher {
	return Hasher{Cost: cost}
}

func (h Hasher) cost() int {
	if h.Cost < bcrypt.MinCost || h.Cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

// prehash returns the 44 byte base64 form of the SHA-256 digest of plaintext.
// Base64 keeps NUL bytes out of the bcrypt input.
func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// Hash returns a salted bcrypt hash of plaintext.
func (h Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(plaintext), h.cost())
	if err != nil {
		return "", fmt.Errorf("cannot hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash.
// A mismatch is (false, nil); an error means the stored hash itself is unusable.
func (h Hasher) Verify(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(plaintext))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cannot verify password: %w", err)
	}
	return true, nil
}
