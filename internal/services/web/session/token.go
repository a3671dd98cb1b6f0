package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token fields the web client reads. They are decoded without
// signature verification and only steer navigation; the backend checks the
// token on every call.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// DecodeClaims parses token without verifying its signature.
func DecodeClaims(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, fmt.Errorf("token is empty")
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// Expiry returns the exp claim, or the zero time when absent.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Expired reports whether exp lies before now. A missing exp never expires.
func (c Claims) Expired(now time.Time) bool {
	exp := c.Expiry()
	return !exp.IsZero() && exp.Before(now)
}
