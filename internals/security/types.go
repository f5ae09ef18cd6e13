package security

import "github.com/golang-jwt/jwt/v5"

// SessionClaims identify the wizard session a token was issued for.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
