// Package password hashes and verifies user passwords with bcrypt
// (default) or argon2id.
//
// Hashes are salted, so hashing the same password twice yields different
// strings; use Verify to compare.
//
//	hasher := password.NewHasher(password.Config{})
//	hash, err := hasher.Hash("pw1")
//	ok := password.Matches(hasher, "pw1", hash)
package password

import (
	"errors"
	"fmt"
)

var (
	ErrMismatch = errors.New("password: invalid password")
	ErrTooShort = errors.New("password: too short")
	// ErrTooLong is bcrypt's 72 byte input limit.
	ErrTooLong = errors.New("password: maximum length is 72 bytes")
)

// Hasher hashes passwords and checks them against stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify returns nil when password matches hash and ErrMismatch when
	// it does not. Unparseable hashes return another error.
	Verify(password, hash string) error
}

// Matches reports whether password verifies against hash. An empty or
// unparseable hash never matches.
func Matches(h Hasher, password, hash string) bool {
	return hash != "" && h.Verify(password, hash) == nil
}

// NewHasher creates the Hasher selected by cfg.Algorithm.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	if cfg.Algorithm == AlgorithmArgon2id {
		return NewArgon2Hasher(Argon2Params{
			Time:      cfg.Argon2Time,
			Memory:    cfg.Argon2Memory,
			Threads:   cfg.Argon2Threads,
			MinLength: cfg.MinLength,
		})
	}
	return NewBcryptHasher(WithCost(cfg.BcryptCost), WithMinLength(cfg.MinLength))
}

func checkLength(password string, min int) error {
	if len(password) < min {
		return fmt.Errorf("%w: minimum length is %d", ErrTooShort, min)
	}
	return nil
}
