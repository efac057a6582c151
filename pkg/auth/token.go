package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/pkg/config"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
)

// TokenIssuer mints and parses the storefront JWTs.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer wires a TokenIssuer from config.
func NewTokenIssuer(cfg config.JWTConfig) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return nil, errors.New("jwt expiration must be positive")
	}
	return &TokenIssuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  time.Duration(cfg.ExpirationMinutes) * time.Minute,
		refreshTTL: cfg.RefreshTokenTTL(),
		now:        time.Now,
	}, nil
}

// TokenPair is the access/refresh pair handed to clients on login.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccessID     string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Mint issues an access/refresh token pair for the user. Both tokens share
// the same JTI so a refresh can revoke its sibling session entry.
func (t *TokenIssuer) Mint(userID uuid.UUID, role enums.UserRole) (*TokenPair, error) {
	jti := uuid.NewString()
	now := t.now()

	access, err := t.sign(userID, role, TokenKindAccess, jti, now, t.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	refresh, err := t.sign(userID, role, TokenKindRefresh, jti, now, t.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessID:     jti,
		ExpiresAt:    now.Add(t.accessTTL),
	}, nil
}

func (t *TokenIssuer) sign(userID uuid.UUID, role enums.UserRole, kind TokenKind, jti string, now time.Time, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    t.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates a token of the expected kind and returns its claims.
func (t *TokenIssuer) Parse(raw string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, err, "token rejected")
	}
	if !token.Valid {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid token")
	}
	if claims.Kind != kind {
		return nil, apperrors.New(apperrors.CodeUnauthorized, fmt.Sprintf("expected %s token, got %s", kind, claims.Kind))
	}
	return claims, nil
}
