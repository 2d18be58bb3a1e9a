// Package auth hashes and verifies salted user passwords.
//
// Each user gets a random salt stored next to the hash. The salt is prepended
// to the password before it is hashed with bcrypt.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SaltSize is the number of random bytes in a salt.
const SaltSize = 16

// Cost is the bcrypt work factor.
var Cost = bcrypt.DefaultCost

var ErrMismatch = errors.New("password does not match")

// GenerateSalt returns SaltSize random bytes, base64 encoded.
func GenerateSalt() (string, error) {
	b := make([]byte, SaltSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func HashPassword(password, salt string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(salt+password), Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword returns ErrMismatch when password and salt do not produce
// hash.
func VerifyPassword(hash, password, salt string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(salt+password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
