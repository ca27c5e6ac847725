package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionSecretKey signs and verifies session tokens minted after the OIDC
// handshake. Overridden from configuration at startup; the default only
// exists so local development works without a .env.
var sessionSecretKey = []byte("dev-insecure-session-secret-change-me")

// SetSessionSecret overrides the session signing key. Called once at startup.
func SetSessionSecret(secret string) {
	if secret != "" {
		sessionSecretKey = []byte(secret)
	}
}

// DefaultSessionTTL is how long a session token lives unless configured otherwise.
const DefaultSessionTTL = 8 * time.Hour

// SessionClaims is the payload of the session token issued after a successful
// sign-in: the display name, email, and the full claim set asserted by the
// identity provider.
type SessionClaims struct {
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	IdentityClaims map[string]string `json:"identity_claims,omitempty"`
	jwt.RegisteredClaims
}

// GenerateSessionToken creates a signed session token carrying the caller's
// identity claims.
func GenerateSessionToken(name, email string, identityClaims map[string]string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := time.Now()
	claims := &SessionClaims{
		Name:           name,
		Email:          email,
		IdentityClaims: identityClaims,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "client-directory-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(sessionSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// ValidateSessionToken parses and validates a session token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sessionSecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
