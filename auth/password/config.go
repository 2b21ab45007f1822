package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

// Config is the auth.password section.
type Config struct {
	Algorithm Algorithm `yaml:"algorithm" mapstructure:"algorithm"`

	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`

	Argon2Time    uint32 `yaml:"argon2_time" mapstructure:"argon2_time"`
	Argon2Memory  uint32 `yaml:"argon2_memory" mapstructure:"argon2_memory"` // KiB
	Argon2Threads uint8  `yaml:"argon2_threads" mapstructure:"argon2_threads"`

	// MinLength is enforced by Hash only; existing hashes always verify.
	MinLength int `yaml:"min_length" mapstructure:"min_length"`
}

func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
	if c.MinLength == 0 {
		c.MinLength = 1
	}
}

func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmBcrypt:
		if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("bcrypt_cost must be between %d and %d (got %d)", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
		}
	case AlgorithmArgon2id:
		if c.Argon2Memory < 8*uint32(c.Argon2Threads) {
			return fmt.Errorf("argon2_memory must be at least 8 KiB per thread (got %d)", c.Argon2Memory)
		}
	default:
		return fmt.Errorf("unsupported algorithm %q (use bcrypt or argon2id)", c.Algorithm)
	}
	if c.MinLength < 1 {
		return fmt.Errorf("min_length must be >= 1 (got %d)", c.MinLength)
	}
	return nil
}
