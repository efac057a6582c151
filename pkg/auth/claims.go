package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/pkg/enums"
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the JWT payload minted for storefront sessions.
type Claims struct {
	UserID uuid.UUID      `json:"uid"`
	Role   enums.UserRole `json:"role"`
	Kind   TokenKind      `json:"kind"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the bearer holds the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == enums.UserRoleAdmin
}
