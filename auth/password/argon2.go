package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var errArgon2Format = errors.New("password: invalid argon2id hash format")

// Argon2Params are the argon2id cost parameters. Zero fields take the
// defaults of Config.ApplyDefaults.
type Argon2Params struct {
	Time      uint32
	Memory    uint32 // KiB
	Threads   uint8
	MinLength int
}

const (
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

type Argon2Hasher struct {
	p Argon2Params
}

func NewArgon2Hasher(p Argon2Params) *Argon2Hasher {
	cfg := Config{Argon2Time: p.Time, Argon2Memory: p.Memory, Argon2Threads: p.Threads, MinLength: p.MinLength}
	cfg.ApplyDefaults()
	return &Argon2Hasher{p: Argon2Params{
		Time:      cfg.Argon2Time,
		Memory:    cfg.Argon2Memory,
		Threads:   cfg.Argon2Threads,
		MinLength: cfg.MinLength,
	}}
}

// Hash returns the PHC string $argon2id$v=19$m=..,t=..,p=..$salt$key.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	if err := checkLength(password, h.p.MinLength); err != nil {
		return "", err
	}
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.p.Time, h.p.Memory, h.p.Threads, argon2KeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.p.Memory, h.p.Time, h.p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify recomputes the key with the parameters stored in hash, so hashes
// made with other costs still verify.
func (h *Argon2Hasher) Verify(password, hash string) error {
	p, salt, key, err := parseArgon2(hash)
	if err != nil {
		return err
	}
	got := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	if subtle.ConstantTimeCompare(got, key) != 1 {
		return ErrMismatch
	}
	return nil
}

func parseArgon2(hash string) (p Argon2Params, salt, key []byte, err error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, errArgon2Format
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: version %q", errArgon2Format, parts[2])
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", errArgon2Format, err)
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", errArgon2Format, err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return p, nil, nil, fmt.Errorf("%w: key: %v", errArgon2Format, err)
	}
	return p, salt, key, nil
}
