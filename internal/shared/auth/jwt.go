package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed session token")
	ErrTokenExpired   = errors.New("session token expired")
)

// Claims is the payload of a backend session token
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Inspect decodes the claims of token without verifying its signature. The
// backend is the only party holding the key; the client uses the claims to
// skip a network round trip for tokens that have already expired.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// CheckExpiry returns ErrTokenExpired when the token carries an expiry at or
// before now. Tokens without an exp claim are left to the backend.
func (c *Claims) CheckExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return nil
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrTokenExpired
	}
	return nil
}

// GenerateToken issues an HS256 session token, as the backend does.
func GenerateToken(secret, subject, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
