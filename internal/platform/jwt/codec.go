// Package jwtmw issues and verifies bearer tokens and provides the gin
// middleware that authenticates requests with them.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for any token that cannot be trusted:
// malformed, expired, signed with another key or algorithm, or missing a subject.
var ErrInvalidToken = errors.New("invalid token")

// Codec issues and verifies signed, time-limited identity tokens.
type Codec struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewCodec creates a Codec with the given HMAC secret and token lifetime.
func NewCodec(secret string, expiration time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// Issue creates an HS256 token whose subject is userID.
func (c *Codec) Issue(userID string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the user ID carried by the token.
// Every failure is reported as ErrInvalidToken.
func (c *Codec) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// HMAC only; rejects "none" and asymmetric algorithms
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
