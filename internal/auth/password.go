package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Algorithm names a password hashing scheme.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

// DefaultBcryptCost is the minimum cost accepted outside tests.
const DefaultBcryptCost = 10

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash (over 72 bytes).
var ErrPasswordTooLong = errors.New("password too long")

// IsValid checks if the algorithm is supported.
func (a Algorithm) IsValid() bool {
	return a == AlgorithmBcrypt || a == AlgorithmArgon2id
}

// PasswordHasher derives and checks salted one-way password hashes.
// Hashing is CPU bound, so concurrent work is capped at GOMAXPROCS and
// callers waiting for a slot give up when their context ends.
type PasswordHasher struct {
	algorithm  Algorithm
	bcryptCost int
	sem        *semaphore.Weighted
}

// NewPasswordHasher creates a hasher producing hashes with the given algorithm.
// Verification accepts hashes of either supported algorithm.
func NewPasswordHasher(algorithm Algorithm, bcryptCost int) *PasswordHasher {
	if !algorithm.IsValid() {
		algorithm = AlgorithmBcrypt
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = DefaultBcryptCost
	}
	return &PasswordHasher{
		algorithm:  algorithm,
		bcryptCost: bcryptCost,
		sem:        semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Hash returns an encoded hash of the plaintext password.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	if h.algorithm == AlgorithmArgon2id {
		return hashArgon2(password)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the password matches the encoded hash.
// The scheme is detected from the hash prefix.
func (h *PasswordHasher) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	if strings.HasPrefix(encodedHash, argon2Prefix) {
		return verifyArgon2(password, encodedHash)
	}

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, bcrypt.ErrHashTooShort):
		return false, ErrInvalidHash
	default:
		return false, fmt.Errorf("bcrypt compare: %w", err)
	}
}
