package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func fastHashers() map[string]Hasher {
	return map[string]Hasher{
		"bcrypt":   NewBcryptHasher(WithCost(4)),
		"argon2id": NewArgon2Hasher(Argon2Params{Memory: 1024}),
	}
}

func TestHasher_RoundTrip(t *testing.T) {
	for name, h := range fastHashers() {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("pw1")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if hash == "pw1" {
				t.Fatal("hash must not equal the plaintext")
			}
			if err := h.Verify("pw1", hash); err != nil {
				t.Errorf("expected match, got %v", err)
			}
			if err := h.Verify("pw2", hash); !errors.Is(err, ErrMismatch) {
				t.Errorf("expected ErrMismatch, got %v", err)
			}
		})
	}
}

func TestHasher_Salted(t *testing.T) {
	for name, h := range fastHashers() {
		t.Run(name, func(t *testing.T) {
			a, _ := h.Hash("same")
			b, _ := h.Hash("same")
			if a == b {
				t.Error("expected different hashes for the same password")
			}
		})
	}
}

func TestHasher_MinLength(t *testing.T) {
	h := NewBcryptHasher(WithCost(4), WithMinLength(8))
	if _, err := h.Hash("short"); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	a := NewArgon2Hasher(Argon2Params{Memory: 1024, MinLength: 8})
	if _, err := a.Hash("short"); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}

func TestBcrypt_TooLong(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	if _, err := h.Hash(strings.Repeat("x", 73)); !errors.Is(err, ErrTooLong) {
		t.Errorf("expected ErrTooLong, got %v", err)
	}
}

func TestArgon2_InvalidFormat(t *testing.T) {
	h := NewArgon2Hasher(Argon2Params{Memory: 1024})
	good, _ := h.Hash("pw")
	for _, hash := range []string{
		"not-a-hash",
		strings.Replace(good, "v=19", "v=16", 1),
		strings.Replace(good, "m=1024", "m=x", 1),
	} {
		err := h.Verify("pw", hash)
		if !errors.Is(err, errArgon2Format) {
			t.Errorf("Verify(%q) = %v, want format error", hash, err)
		}
	}
}

func TestArgon2_VerifiesOtherParams(t *testing.T) {
	old := NewArgon2Hasher(Argon2Params{Memory: 1024, Time: 2})
	hash, _ := old.Hash("pw")
	if err := NewArgon2Hasher(Argon2Params{Memory: 2048}).Verify("pw", hash); err != nil {
		t.Errorf("expected hash params to drive verification, got %v", err)
	}
}

func TestBcrypt_CorruptHash(t *testing.T) {
	err := NewBcryptHasher(WithCost(4)).Verify("pw", "$2a$04$short")
	if err == nil || errors.Is(err, ErrMismatch) {
		t.Errorf("expected a parse error, got %v", err)
	}
}

func TestMatches(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	hash, _ := h.Hash("pw1")
	if !Matches(h, "pw1", hash) {
		t.Error("expected match")
	}
	if Matches(h, "pw1", "") {
		t.Error("expected empty hash never to match")
	}
}

func TestNewHasher(t *testing.T) {
	if _, ok := NewHasher(Config{}).(*BcryptHasher); !ok {
		t.Error("expected bcrypt by default")
	}
	if _, ok := NewHasher(Config{Algorithm: AlgorithmArgon2id}).(*Argon2Hasher); !ok {
		t.Error("expected argon2id hasher")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.MinLength != 1 {
		t.Errorf("expected default min length 1, got %d", cfg.MinLength)
	}
	cfg.Algorithm = "md5"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unsupported algorithm error")
	}
}

func TestGenerateResetToken(t *testing.T) {
	a, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a UUID, got %q", a)
	}
	b, _ := GenerateResetToken()
	if a == b {
		t.Error("expected distinct tokens")
	}
}
