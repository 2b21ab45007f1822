package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptMaxLen = 72

type BcryptHasher struct {
	cost      int
	minLength int
}

type BcryptOption func(*BcryptHasher)

// WithCost sets the work factor; values outside 4-31 are ignored.
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

func WithMinLength(n int) BcryptOption {
	return func(h *BcryptHasher) {
		if n > 0 {
			h.minLength = n
		}
	}
}

func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: bcrypt.DefaultCost, minLength: 1}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if err := checkLength(password, h.minLength); err != nil {
		return "", err
	}
	if len(password) > bcryptMaxLen {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: bcrypt: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch err {
	case nil:
		return nil
	case bcrypt.ErrMismatchedHashAndPassword:
		return ErrMismatch
	default:
		return fmt.Errorf("password: bcrypt: %w", err)
	}
}
