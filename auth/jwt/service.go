// Package jwt signs and verifies HMAC bearer tokens.
//
//	signer, err := jwt.NewSigner(cfg, func() *UserClaims { return new(UserClaims) })
//	token, err := signer.Sign(&UserClaims{...})
//	claims, err := signer.Verify(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is a claims type built on the registered claim set.
type Claims interface {
	gojwt.Claims
	Registered() *gojwt.RegisteredClaims
}

// Signer issues tokens carrying claims of type C.
type Signer[C Claims] struct {
	cfg    Config
	method *gojwt.SigningMethodHMAC
	blank  func() C
	now    func() time.Time
}

// NewSigner validates cfg. blank returns an empty C to decode into.
func NewSigner[C Claims](cfg Config, blank func() C) (*Signer[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Signer[C]{cfg: cfg, method: hmacMethods[cfg.Method], blank: blank, now: time.Now}, nil
}

// Sign sets iat, nbf and exp plus the configured iss and aud, then signs.
func (s *Signer[C]) Sign(claims C) (string, error) {
	now := s.now()
	rc := claims.Registered()
	rc.IssuedAt = gojwt.NewNumericDate(now)
	rc.NotBefore = gojwt.NewNumericDate(now)
	rc.ExpiresAt = gojwt.NewNumericDate(now.Add(s.cfg.TTL))
	if s.cfg.Issuer != "" {
		rc.Issuer = s.cfg.Issuer
	}
	if len(s.cfg.Audience) > 0 {
		rc.Audience = s.cfg.Audience
	}

	signed, err := gojwt.NewWithClaims(s.method, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// Verify checks algorithm, signature, time claims and, when configured,
// issuer and audience.
func (s *Signer[C]) Verify(token string) (C, error) {
	var zero C
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}

	claims := s.blank()
	parsed, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return zero, fmt.Errorf("jwt: verify: %w", err)
	}
	if !parsed.Valid {
		return zero, errors.New("jwt: invalid token")
	}
	return claims, nil
}

func (s *Signer[C]) TTL() time.Duration { return s.cfg.TTL }
