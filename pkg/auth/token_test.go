package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastralabs/vastra-backend/pkg/config"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
)

func testIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "vastra-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	})
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(config.JWTConfig{Issuer: "x", ExpirationMinutes: 15})
	require.Error(t, err)
}

func TestMintAndParseRoundTrip(t *testing.T) {
	issuer := testIssuer(t)
	userID := uuid.New()

	pair, err := issuer.Mint(userID, enums.UserRoleCustomer)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessID)

	claims, err := issuer.Parse(pair.AccessToken, TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, enums.UserRoleCustomer, claims.Role)
	assert.Equal(t, pair.AccessID, claims.ID)
	assert.False(t, claims.IsAdmin())
}

func TestParseRejectsWrongKind(t *testing.T) {
	issuer := testIssuer(t)

	pair, err := issuer.Mint(uuid.New(), enums.UserRoleCustomer)
	require.NoError(t, err)

	_, err = issuer.Parse(pair.RefreshToken, TokenKindAccess)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := testIssuer(t)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := issuer.Mint(uuid.New(), enums.UserRoleAdmin)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(pair.AccessToken, TokenKindAccess)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func TestParseRejectsForeignSecret(t *testing.T) {
	issuer := testIssuer(t)
	other, err := NewTokenIssuer(config.JWTConfig{
		Secret:            "other-secret",
		Issuer:            "vastra-test",
		ExpirationMinutes: 15,
	})
	require.NoError(t, err)

	pair, err := other.Mint(uuid.New(), enums.UserRoleCustomer)
	require.NoError(t, err)

	_, err = issuer.Parse(pair.AccessToken, TokenKindAccess)
	require.Error(t, err)
}
